package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/srlab/scheme-reliability/pkg/reporting"
	"github.com/srlab/scheme-reliability/pkg/schemeio"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Args:  cobra.NoArgs,
	Short: "Compute the reliability of a scheme document",
	Long:  `Loads, validates, and compiles a scheme YAML document, then computes its reliability.`,
	RunE:  runCompute,
}

func init() {
	computeCmd.Flags().String("scheme", "", "path to scheme YAML document")
	computeCmd.Flags().String("strategy", "", "reconfiguration strategy override (exhaustive, greedy, exhaustive_scheme_aware)")
	computeCmd.Flags().Int("shards", 0, "number of shards for the reliability sweep (overrides config)")
	computeCmd.Flags().String("format", "text", "output format (text, json)")
	computeCmd.Flags().Bool("save", true, "persist a run report via the reporting storage layer")
}

func runCompute(cmd *cobra.Command, args []string) error {
	schemePath, _ := cmd.Flags().GetString("scheme")
	if schemePath == "" {
		return fmt.Errorf("--scheme flag is required")
	}
	strategyOverride, _ := cmd.Flags().GetString("strategy")
	shardsOverride, _ := cmd.Flags().GetInt("shards")
	outputFormat, _ := cmd.Flags().GetString("format")
	save, _ := cmd.Flags().GetBool("save")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger(cfg, verbose)

	logger.Info().Str("version", version).Str("scheme", schemePath).Msg("screl compute starting")

	doc, err := schemeio.NewParser().ParseFile(schemePath)
	if err != nil {
		return fmt.Errorf("failed to parse scheme document: %w", err)
	}

	if strategyOverride != "" {
		doc.Spec.Strategy = strategyOverride
	}

	v := schemeio.NewValidator()
	if err := v.Validate(doc); err != nil {
		fmt.Fprint(os.Stderr, v.GetReport())
		return fmt.Errorf("scheme document validation failed: %w", err)
	}
	if v.HasWarnings() {
		logger.Warn().Msg("scheme document has warnings")
		for _, w := range v.Warnings {
			logger.Warn().Msg(w)
		}
	}

	s, err := schemeio.Compile(doc)
	if err != nil {
		return fmt.Errorf("failed to compile scheme: %w", err)
	}

	shards := cfg.Execution.Shards
	if shardsOverride > 0 {
		shards = shardsOverride
	}
	if shards < 1 {
		shards = 1
	}

	runID := fmt.Sprintf("run-%d", time.Now().UnixNano())
	start := time.Now()

	summary, err := computeReliability(s, shards)

	end := time.Now()

	report := &reporting.RunReport{
		RunID:          runID,
		SchemeName:     doc.Metadata.Name,
		StartTime:      start,
		EndTime:        end,
		Duration:       end.Sub(start).String(),
		Strategy:       doc.Spec.Strategy,
		ElementCount:   s.ElementCount(),
		ProcessorCount: s.ProcessorCount(),
		ElementNames:   s.ElementNames(),
	}

	if err != nil {
		report.Status = reporting.StatusFailed
		report.Success = false
		report.Errors = []string{err.Error()}
	} else {
		report.Status = reporting.StatusCompleted
		report.Success = true
		report.SP = summary.SP
		report.SQ = summary.SQ
		report.NumericWarning = summary.NumericWarning
		report.StateCount = summary.StateCount
		report.FailProbPerElement = summary.FailProbPerElement
	}

	if save {
		storage, storageErr := reporting.NewStorage(cfg.Reporting.OutputDir, cfg.Reporting.KeepLastN, logger)
		if storageErr != nil {
			logger.Warn().Err(storageErr).Msg("failed to create report storage")
		} else {
			if report.Success {
				if prev, prevErr := storage.FindLatestByScheme(report.SchemeName); prevErr == nil {
					logger.Info().
						Float64("delta_sp", report.SP-prev.SP).
						Str("previous_run_id", prev.RunID).
						Msg("sp changed since this scheme's previous run")
				}
			}
			if _, saveErr := storage.SaveReport(report); saveErr != nil {
				logger.Warn().Err(saveErr).Msg("failed to save run report")
			}
		}
	}

	switch outputFormat {
	case "json":
		if jsonErr := printJSON(report); jsonErr != nil {
			return jsonErr
		}
	default:
		formatter := reporting.NewFormatter(logger)
		tmpFile, tmpErr := os.CreateTemp("", "screl-report-*.txt")
		if tmpErr != nil {
			return tmpErr
		}
		defer os.Remove(tmpFile.Name())
		tmpFile.Close()
		if fmtErr := formatter.GenerateReport(report, reporting.ReportFormatText, tmpFile.Name()); fmtErr != nil {
			return fmtErr
		}
		data, readErr := os.ReadFile(tmpFile.Name())
		if readErr != nil {
			return readErr
		}
		fmt.Print(string(data))
	}

	if err != nil {
		return fmt.Errorf("reliability computation failed: %w", err)
	}
	return nil
}
