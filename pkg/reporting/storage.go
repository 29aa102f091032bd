package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
)

// Storage handles persistence of run reports.
type Storage struct {
	outputDir string
	keepLastN int
	logger    zerolog.Logger
}

// NewStorage creates a new storage instance, creating outputDir if needed.
func NewStorage(outputDir string, keepLastN int, logger zerolog.Logger) (*Storage, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Storage{
		outputDir: outputDir,
		keepLastN: keepLastN,
		logger:    logger,
	}, nil
}

// SaveReport saves a run report to a JSON file.
func (s *Storage) SaveReport(report *RunReport) (string, error) {
	timestamp := report.StartTime.Format("20060102-150405")
	filename := fmt.Sprintf("run-%s-%s.json", timestamp, report.RunID)
	path := filepath.Join(s.outputDir, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	s.logger.Info().Str("path", path).Msg("run report saved")

	if s.keepLastN > 0 {
		if err := s.cleanupOldReports(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cleanup old reports")
		}
	}

	return path, nil
}

// LoadReport loads a run report from a JSON file.
func (s *Storage) LoadReport(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var report RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}

// ListReports lists all run reports in the output directory, newest first.
func (s *Storage) ListReports() ([]RunSummary, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	summaries := make([]RunSummary, 0)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(s.outputDir, entry.Name())
		report, err := s.LoadReport(path)
		if err != nil {
			s.logger.Warn().Str("path", path).Err(err).Msg("failed to load report")
			continue
		}

		summaries = append(summaries, RunSummary{
			RunID:      report.RunID,
			SchemeName: report.SchemeName,
			StartTime:  report.StartTime,
			Duration:   report.Duration,
			Status:     report.Status,
			Success:    report.Success,
			Filepath:   path,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartTime.After(summaries[j].StartTime)
	})

	return summaries, nil
}

// FindReportByRunID finds a run report by its run ID.
func (s *Storage) FindReportByRunID(runID string) (*RunReport, error) {
	summaries, err := s.ListReports()
	if err != nil {
		return nil, err
	}

	for _, summary := range summaries {
		if summary.RunID == runID {
			return s.LoadReport(summary.Filepath)
		}
	}

	return nil, fmt.Errorf("report not found for run ID: %s", runID)
}

// FindLatestByScheme returns the most recently started report recorded for
// schemeName, or an error if none exists. compute uses this to report how
// sp moved since the scheme's previous run.
func (s *Storage) FindLatestByScheme(schemeName string) (*RunReport, error) {
	summaries, err := s.ListReports()
	if err != nil {
		return nil, err
	}

	for _, summary := range summaries {
		if summary.SchemeName == schemeName {
			return s.LoadReport(summary.Filepath)
		}
	}

	return nil, fmt.Errorf("no report found for scheme: %s", schemeName)
}

// cleanupOldReports prunes each scheme's history independently, keeping the
// last keepLastN reports per scheme name rather than per output directory.
// screl routinely tracks many distinct scheme documents side by side; a
// global cutoff would let a scheme that's recomputed often evict another
// scheme's entire history even though neither is actually stale.
func (s *Storage) cleanupOldReports() error {
	summaries, err := s.ListReports()
	if err != nil {
		return err
	}

	byScheme := make(map[string][]RunSummary)
	for _, summary := range summaries {
		byScheme[summary.SchemeName] = append(byScheme[summary.SchemeName], summary)
	}

	for _, group := range byScheme {
		if len(group) <= s.keepLastN {
			continue
		}
		for _, summary := range group[s.keepLastN:] {
			if err := os.Remove(summary.Filepath); err != nil {
				s.logger.Warn().Str("path", summary.Filepath).Err(err).Msg("failed to delete old report")
			} else {
				s.logger.Debug().Str("path", summary.Filepath).Msg("deleted old report")
			}
		}
	}

	return nil
}

// GetOutputDir returns the output directory path.
func (s *Storage) GetOutputDir() string {
	return s.outputDir
}
