package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwaring/ucan-inspector/internal/format"
	"github.com/cwaring/ucan-inspector/internal/inspect"
	"github.com/cwaring/ucan-inspector/internal/output"
	"github.com/cwaring/ucan-inspector/internal/report"
)

var (
	dagJSONOutput bool
	includeBytes  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [input]",
	Short: "Inspect a UCAN token or ctn-v1 container",
	Long:  "Decodes a UCAN token or container into a diagnostic report: envelope kind, payload, signature verification, expiry timeline, and spec-conformance diagnostics. Input can be a file path, URL, raw string, or piped via stdin.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&dagJSONOutput, "dag-json", false, "Output as DAG-JSON (implies --json)")
	inspectCmd.Flags().BoolVar(&includeBytes, "include-bytes", false, "Include raw byte fields in JSON output")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	input := ""
	if len(args) > 0 {
		input = args[0]
	}

	raw, err := format.ReadInput(input)
	if err != nil {
		return err
	}

	rep := inspect.New().Inspect(cmd.Context(), raw)

	if jsonOutput || dagJSONOutput {
		exportFormat := report.FormatJSON
		if dagJSONOutput {
			exportFormat = report.FormatDAGJSON
		}
		exported, err := report.Export(rep, report.Options{Format: exportFormat, IncludeBytes: includeBytes})
		if err != nil {
			return err
		}
		fmt.Print(exported)
		return nil
	}

	output.PrintReport(rep, output.Options{NoColor: noColor, Verbose: verbose})
	return nil
}
