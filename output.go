package main

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/jadenpxrk/tidy/internal/tree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// emitTree sends the rendered tree to the configured destination: PDF, file,
// clipboard, or stdout, in that order of priority.
func (a *app) emitTree(cmd *cobra.Command, entries []tree.Entry) error {
	out := cmd.OutOrStdout()

	if pdfPath := a.v.GetString("pdf"); pdfPath != "" {
		if err := generatePDF(entries, pdfPath); err != nil {
			return fmt.Errorf("error generating PDF: %w", err)
		}
		fmt.Fprintf(out, "Output saved to %s\n", pdfPath)
		return nil
	}

	rendered := tree.String(entries)

	if outputFile := a.v.GetString("file"); outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", outputFile, err)
		}
		fmt.Fprintf(out, "Output saved to %s\n", outputFile)
		return nil
	}

	if a.v.GetBool("clipboard") {
		if err := clipboard.WriteAll(rendered); err != nil {
			a.log.Warn("error writing to clipboard, printing instead", zap.Error(err))
			_, err = fmt.Fprint(out, rendered)
			return err
		}
		fmt.Fprintln(out, "Output copied to clipboard.")
		return nil
	}

	_, err := fmt.Fprint(out, rendered)
	return err
}
