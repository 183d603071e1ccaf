package main

import (
	"errors"
	"fmt"

	"github.com/jadenpxrk/tidy/internal/category"
	"github.com/jadenpxrk/tidy/internal/filter"
	"github.com/jadenpxrk/tidy/internal/organize"
	"github.com/jadenpxrk/tidy/internal/tree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help",
		Short: "Describe the available commands",
		Args:  cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, `1.. Type "tidy tree" to get the tree structure of any directory`)
			fmt.Fprintln(out, `2.. Type "tidy organize" to organize the content of any directory`)
		},
	}
}

func (a *app) newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "Print the tree structure of a directory (default: current directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runTree,
	}

	flags := cmd.Flags()
	flags.Int("max-depth", 0, "Maximum directory depth to print (0 for no limit)")
	flags.Bool("follow-symlinks", false, "Descend into symbolic links to directories")
	flags.StringSliceP("exclude", "e", nil, "Glob patterns to leave out (comma-separated, e.g. *.log,build/**)")
	flags.Bool("gitignore", false, "Respect the .gitignore file at the root")
	flags.BoolP("hidden", "H", true, "Show hidden files and directories")
	flags.StringP("file", "f", "", "Save output to specified file")
	flags.BoolP("clipboard", "c", false, "Copy output to clipboard")
	flags.String("pdf", "", "Save output as PDF")
	return cmd
}

func (a *app) runTree(cmd *cobra.Command, args []string) error {
	root, err := targetPath(args)
	if err != nil {
		return err
	}

	flt, err := filter.New(root, filter.Options{
		Exclude:   filter.ParsePatterns(a.v.GetStringSlice("exclude")...),
		GitIgnore: a.v.GetBool("gitignore"),
		Hidden:    a.v.GetBool("hidden"),
	}, a.log)
	if err != nil {
		return err
	}

	entries, err := tree.Walk(root, tree.Options{
		MaxDepth:       a.v.GetInt("max_depth"),
		FollowSymlinks: a.v.GetBool("follow_symlinks"),
		Filter:         flt,
		Logger:         a.log,
	})
	if errors.Is(err, tree.ErrInvalidPath) {
		a.log.Debug("tree root rejected", zap.Error(err))
		return errInvalidTreePath
	}
	if err != nil {
		return err
	}

	return a.emitTree(cmd, entries)
}

func (a *app) newOrganizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize [path]",
		Short: "Move the files of a directory into organized_files/<category>/ (default: current directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runOrganize,
	}

	flags := cmd.Flags()
	flags.String("destination", organize.DefaultDestination, "Name of the folder created inside the directory")
	flags.String("conflict", "overwrite", "What to do when the target exists: overwrite, skip or rename")
	flags.Bool("ignore-case", false, "Match extensions case-insensitively")
	flags.Bool("sniff", false, "Detect the content type of files with unknown extensions")
	flags.BoolP("dry-run", "n", false, "Only show where each file would go")
	flags.StringSliceP("exclude", "e", nil, "Glob patterns of files to leave in place (comma-separated)")
	flags.BoolP("hidden", "H", true, "Organize hidden files too")
	flags.BoolP("interactive", "i", false, "Pick the files to organize in a fuzzy finder")
	return cmd
}

func (a *app) runOrganize(cmd *cobra.Command, args []string) error {
	src, err := targetPath(args)
	if err != nil {
		return err
	}

	policy, err := organize.ParsePolicy(a.v.GetString("conflict"))
	if err != nil {
		return err
	}

	flt, err := filter.New(src, filter.Options{
		Exclude: filter.ParsePatterns(a.v.GetStringSlice("exclude")...),
		Hidden:  a.v.GetBool("hidden"),
	}, a.log)
	if err != nil {
		return err
	}

	opts := organize.Options{
		Destination: a.v.GetString("destination"),
		Conflict:    policy,
		IgnoreCase:  a.v.GetBool("ignore_case"),
		Sniff:       a.v.GetBool("sniff"),
		DryRun:      a.v.GetBool("dry_run"),
		Filter:      flt,
		Logger:      a.log,
		Out:         cmd.OutOrStdout(),
		ErrOut:      cmd.ErrOrStderr(),
	}
	if a.v.GetBool("interactive") {
		opts.Select = a.pickFiles(cmd, category.Builtin(), opts.IgnoreCase)
	}

	report, err := organize.New(category.Builtin(), opts).Run(src)
	if errors.Is(err, organize.ErrInvalidPath) {
		a.log.Debug("organize source rejected", zap.Error(err))
		return errInvalidOrganizePath
	}
	if err != nil {
		return err
	}

	if failed := report.Count(organize.Failed); failed > 0 {
		a.log.Debug("per-file failures", zap.Error(report.Err()))
		return fmt.Errorf("%d file(s) could not be organized", failed)
	}
	return nil
}
