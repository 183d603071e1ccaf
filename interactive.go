package main

import (
	"errors"
	"fmt"

	"github.com/jadenpxrk/tidy/internal/category"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
)

// pickFiles returns a selector that lets the user choose, in a fuzzy finder, which
// of the candidate files to organize. Aborting selects nothing.
func (a *app) pickFiles(cmd *cobra.Command, table *category.Table, ignoreCase bool) func([]string) ([]string, error) {
	return func(names []string) ([]string, error) {
		idx, err := fuzzyfinder.FindMulti(
			names,
			func(i int) string {
				return names[i]
			},
			fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
				if i == -1 {
					return "Select files to organize. Press Tab to multi-select, Enter to confirm."
				}
				return fmt.Sprintf("File: %s\nCategory: %s", names[i], table.Classify(names[i], ignoreCase))
			}),
		)
		if err != nil {
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				fmt.Fprintln(cmd.OutOrStdout(), "Interactive selection aborted.")
				return nil, nil
			}
			return nil, fmt.Errorf("fuzzy finder error: %w", err)
		}

		selected := make([]string, len(idx))
		for i, index := range idx {
			selected[i] = names[index]
		}
		return selected, nil
	}
}
