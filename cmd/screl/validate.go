package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srlab/scheme-reliability/pkg/schemeio"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Args:  cobra.NoArgs,
	Short: "Validate a scheme document without computing its reliability",
	Long:  `Parses and validates a scheme YAML document, reporting every structural problem found.`,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().String("scheme", "", "path to scheme YAML document")
	validateCmd.Flags().Bool("dry-run", false, "accepted for parity with the other subcommands; validate never computes or persists anything")
}

func runValidate(cmd *cobra.Command, args []string) error {
	schemePath, _ := cmd.Flags().GetString("scheme")
	if schemePath == "" {
		return fmt.Errorf("--scheme flag is required")
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	doc, err := schemeio.NewParser().ParseFile(schemePath)
	if err != nil {
		return fmt.Errorf("failed to parse scheme document: %w", err)
	}

	v := schemeio.NewValidator()
	validateErr := v.Validate(doc)
	fmt.Print(v.GetReport())

	if validateErr != nil {
		return validateErr
	}

	if _, err := schemeio.Compile(doc); err != nil {
		fmt.Fprintf(os.Stderr, "compile check: %v\n", err)
		return err
	}

	if dryRun {
		fmt.Println("scheme document is valid (dry-run)")
		return nil
	}

	fmt.Println("scheme document is valid")
	return nil
}
