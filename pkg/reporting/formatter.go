package reporting

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ReportFormat represents the report output format. HTML is dropped from
// the teacher's formatter: a reliability run has no fault timeline or
// cleanup audit log to visualize, and JSON is already handled by Storage.
type ReportFormat string

const (
	ReportFormatText ReportFormat = "text"
	ReportFormatJSON ReportFormat = "json"
)

// Formatter generates formatted reports from run data.
type Formatter struct {
	logger zerolog.Logger
}

// NewFormatter creates a new report formatter.
func NewFormatter(logger zerolog.Logger) *Formatter {
	return &Formatter{
		logger: logger,
	}
}

// GenerateReport generates a report in the specified format.
func (f *Formatter) GenerateReport(report *RunReport, format ReportFormat, outputPath string) error {
	switch format {
	case ReportFormatText:
		return f.generateTextReport(report, outputPath)
	case ReportFormatJSON:
		return fmt.Errorf("JSON format is automatically saved by storage")
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// generateTextReport generates a plain text report.
func (f *Formatter) generateTextReport(report *RunReport, outputPath string) error {
	var buf bytes.Buffer

	buf.WriteString(strings.Repeat("=", 80) + "\n")
	buf.WriteString("   SCHEME RELIABILITY REPORT\n")
	buf.WriteString(strings.Repeat("=", 80) + "\n\n")

	status := "COMPLETED"
	if !report.Success {
		status = "FAILED"
	}

	buf.WriteString("RUN SUMMARY\n")
	buf.WriteString(strings.Repeat("-", 80) + "\n")
	buf.WriteString(fmt.Sprintf("Status:       %s\n", status))
	buf.WriteString(fmt.Sprintf("Run ID:       %s\n", report.RunID))
	buf.WriteString(fmt.Sprintf("Scheme:       %s\n", report.SchemeName))
	buf.WriteString(fmt.Sprintf("Strategy:     %s\n", report.Strategy))
	buf.WriteString(fmt.Sprintf("Start Time:   %s\n", report.StartTime.Format("2006-01-02 15:04:05")))
	buf.WriteString(fmt.Sprintf("End Time:     %s\n", report.EndTime.Format("2006-01-02 15:04:05")))
	buf.WriteString(fmt.Sprintf("Duration:     %s\n", report.Duration))
	if report.Message != "" {
		buf.WriteString(fmt.Sprintf("Message:      %s\n", report.Message))
	}
	buf.WriteString("\n")

	buf.WriteString("SCHEME SHAPE\n")
	buf.WriteString(strings.Repeat("-", 80) + "\n")
	buf.WriteString(fmt.Sprintf("Elements:     %d\n", report.ElementCount))
	buf.WriteString(fmt.Sprintf("Processors:   %d\n", report.ProcessorCount))
	buf.WriteString(fmt.Sprintf("State count:  %d\n", report.StateCount))
	buf.WriteString("\n")

	buf.WriteString("RELIABILITY\n")
	buf.WriteString(strings.Repeat("-", 80) + "\n")
	buf.WriteString(fmt.Sprintf("sp:           %.10f\n", report.SP))
	buf.WriteString(fmt.Sprintf("sq:           %.10f\n", report.SQ))
	if report.NumericWarning {
		buf.WriteString("WARNING:      |sp + sq - 1| exceeds the numeric tolerance\n")
	}
	buf.WriteString("\n")

	if len(report.FailProbPerElement) > 0 {
		buf.WriteString("FAILURE PROBABILITY PER ELEMENT\n")
		buf.WriteString(strings.Repeat("-", 80) + "\n")
		for i, p := range report.FailProbPerElement {
			name := fmt.Sprintf("element[%d]", i)
			if i < len(report.ElementNames) {
				name = report.ElementNames[i]
			}
			buf.WriteString(fmt.Sprintf("%-20s %.10f\n", name, p))
		}
		buf.WriteString("\n")
	}

	if len(report.Errors) > 0 {
		buf.WriteString("ERRORS\n")
		buf.WriteString(strings.Repeat("-", 80) + "\n")
		for i, err := range report.Errors {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, err))
		}
		buf.WriteString("\n")
	}

	buf.WriteString(strings.Repeat("=", 80) + "\n")
	buf.WriteString(fmt.Sprintf("Generated: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	buf.WriteString(strings.Repeat("=", 80) + "\n")

	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write text report: %w", err)
	}

	f.logger.Info().Str("path", outputPath).Msg("text report generated")
	return nil
}

// CompareReports generates a side-by-side comparison of multiple runs,
// typically runs of the same scheme under different strategies.
func (f *Formatter) CompareReports(reports []*RunReport, outputPath string) error {
	if len(reports) < 2 {
		return fmt.Errorf("need at least 2 reports to compare")
	}

	var buf bytes.Buffer

	buf.WriteString(strings.Repeat("=", 80) + "\n")
	buf.WriteString("   SCHEME RELIABILITY COMPARISON\n")
	buf.WriteString(strings.Repeat("=", 80) + "\n\n")

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].StartTime.Before(reports[j].StartTime)
	})

	buf.WriteString(fmt.Sprintf("%-20s %-15s %-12s %-15s %-15s\n",
		"Run ID", "Strategy", "Status", "sp", "sq"))
	buf.WriteString(strings.Repeat("-", 80) + "\n")

	for _, report := range reports {
		status := "OK"
		if !report.Success {
			status = "FAILED"
		}
		buf.WriteString(fmt.Sprintf("%-20s %-15s %-12s %-15.10f %-15.10f\n",
			report.RunID[:min(20, len(report.RunID))],
			report.Strategy,
			status,
			report.SP,
			report.SQ,
		))
	}
	buf.WriteString("\n")

	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write comparison report: %w", err)
	}

	f.logger.Info().Str("path", outputPath).Msg("comparison report generated")
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
