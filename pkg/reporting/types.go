package reporting

import "time"

// RunReport represents the outcome of one reliability computation run: the
// scheme that was evaluated, the resulting Summary (flattened so this
// package has no dependency on pkg/scheme), and run metadata.
type RunReport struct {
	// Run metadata
	RunID      string    `json:"run_id"`
	SchemeName string    `json:"scheme_name"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Duration   string    `json:"duration"`

	// Run result
	Status  RunStatus `json:"status"`
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`

	// Scheme details
	Strategy       string `json:"strategy"`
	ElementCount   int    `json:"element_count"`
	ProcessorCount int    `json:"processor_count"`
	StateCount     uint64 `json:"state_count"`

	// Reliability result
	SP                 float64   `json:"sp"`
	SQ                 float64   `json:"sq"`
	NumericWarning     bool      `json:"numeric_warning"`
	ElementNames       []string  `json:"element_names,omitempty"`
	FailProbPerElement []float64 `json:"fail_prob_per_element,omitempty"`

	// Errors encountered
	Errors []string `json:"errors,omitempty"`
}

// RunStatus represents the status of a reliability computation run
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// RunSummary contains a summary of a run report, as returned by
// Storage.ListReports (which loads every JSON file in the directory to
// build it).
type RunSummary struct {
	RunID      string    `json:"run_id"`
	SchemeName string    `json:"scheme_name"`
	StartTime  time.Time `json:"start_time"`
	Duration   string    `json:"duration"`
	Status     RunStatus `json:"status"`
	Success    bool      `json:"success"`
	Filepath   string    `json:"filepath"`
}
