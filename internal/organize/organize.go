// Package organize moves the files of a directory into category subfolders.
package organize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jadenpxrk/tidy/internal/category"
	"github.com/jadenpxrk/tidy/internal/filter"
	"go.uber.org/zap"
)

// DefaultDestination is the folder created inside the source directory.
const DefaultDestination = "organized_files"

// ErrInvalidPath is returned when the source is missing or not a directory.
var ErrInvalidPath = errors.New("invalid path")

// Options controls a run. Out receives one line per handled file, ErrOut one line
// per failure.
type Options struct {
	Destination string
	Conflict    Policy
	IgnoreCase  bool
	Sniff       bool // detect content type for files the table cannot classify
	DryRun      bool
	Filter      *filter.Filter
	// Select narrows the candidate file names. Returning nil organizes nothing.
	Select func(names []string) ([]string, error)
	Logger *zap.Logger
	Out    io.Writer
	ErrOut io.Writer
}

// Organizer classifies and moves files using a fixed table.
type Organizer struct {
	table *category.Table
	opts  Options
	log   *zap.Logger
}

// New returns an Organizer. A nil table means the built-in one.
func New(table *category.Table, opts Options) *Organizer {
	if table == nil {
		table = category.Builtin()
	}
	if opts.Destination == "" {
		opts.Destination = DefaultDestination
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.ErrOut == nil {
		opts.ErrOut = io.Discard
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Organizer{table: table, opts: opts, log: log}
}

// Run organizes the regular files directly inside src. Invalid input fails before
// anything is touched; a failure on one file is recorded in the report and the
// remaining files are still processed.
func (o *Organizer) Run(src string) (*Report, error) {
	if err := ValidateName(o.opts.Destination); err != nil {
		return nil, fmt.Errorf("invalid destination: %w", err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPath, src, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, src)
	}

	dest := filepath.Join(src, o.opts.Destination)
	report := &Report{Source: src, Destination: dest}

	if !o.opts.DryRun {
		if err := ensureDir(dest); err != nil {
			return nil, err
		}
	}

	names, err := o.candidates(src)
	if err != nil {
		return nil, err
	}

	if o.opts.Select != nil && len(names) > 0 {
		names, err = o.selectNames(names)
		if err != nil {
			return nil, err
		}
	}

	for _, name := range names {
		res := o.organizeFile(src, dest, name)
		report.Results = append(report.Results, res)
		o.announce(res)
	}

	o.log.Debug("organize finished",
		zap.String("source", src),
		zap.Int("moved", report.Count(Moved)),
		zap.Int("skipped", report.Count(Skipped)),
		zap.Int("failed", report.Count(Failed)))

	return report, nil
}

// Classify returns the category for the file at path.
func (o *Organizer) Classify(path string) string {
	name := filepath.Base(path)
	cat := o.table.Classify(name, o.opts.IgnoreCase)
	if cat != category.Others || !o.opts.Sniff {
		return cat
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		o.log.Debug("content detection failed", zap.String("path", path), zap.Error(err))
		return cat
	}
	if sniffed := o.table.Lookup(mt.Extension(), true); sniffed != category.Others {
		o.log.Debug("classified by content",
			zap.String("file", name),
			zap.String("mime", mt.String()),
			zap.String("category", sniffed))
		return sniffed
	}
	return cat
}

// candidates lists regular files in src, in name order. Directories (including the
// destination) and symbolic links are never moved.
func (o *Organizer) candidates(src string) ([]string, error) {
	children, err := os.ReadDir(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}

	var names []string
	for _, child := range children {
		if !child.Type().IsRegular() {
			continue
		}
		if o.opts.Filter.Skip(filepath.Join(src, child.Name()), false) {
			o.log.Debug("skipping filtered file", zap.String("file", child.Name()))
			continue
		}
		names = append(names, child.Name())
	}
	return names, nil
}

func (o *Organizer) selectNames(names []string) ([]string, error) {
	chosen, err := o.opts.Select(names)
	if err != nil {
		return nil, fmt.Errorf("file selection failed: %w", err)
	}

	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	picked := make(map[string]bool, len(chosen))
	for _, n := range chosen {
		picked[n] = true
	}

	var out []string
	for _, n := range names {
		if picked[n] && allowed[n] {
			out = append(out, n)
		}
	}
	return out, nil
}

func (o *Organizer) organizeFile(src, dest, name string) Result {
	path := filepath.Join(src, name)
	cat := o.Classify(path)
	catDir := filepath.Join(dest, cat)
	res := Result{Name: name, Category: cat, Target: filepath.Join(catDir, name)}

	if o.opts.DryRun {
		res.Status = Planned
		return res
	}

	if err := ensureDir(catDir); err != nil {
		res.Status, res.Err = Failed, err
		return res
	}

	target, skip, err := resolveConflict(res.Target, o.opts.Conflict)
	if err != nil {
		res.Status, res.Err = Failed, err
		return res
	}
	if skip {
		res.Status = Skipped
		return res
	}
	res.Target = target

	if err := moveFile(path, target, o.log); err != nil {
		res.Status, res.Err = Failed, err
		return res
	}
	res.Status = Moved
	return res
}

func (o *Organizer) announce(res Result) {
	switch res.Status {
	case Moved:
		fmt.Fprintf(o.opts.Out, "%s has been organized successfully\n", res.Name)
	case Planned:
		fmt.Fprintf(o.opts.Out, "%s would be organized into %s\n", res.Name, res.Category)
	case Skipped:
		fmt.Fprintf(o.opts.Out, "%s skipped: %s already exists\n", res.Name, res.Target)
	case Failed:
		fmt.Fprintf(o.opts.ErrOut, "%s could not be organized: %v\n", res.Name, res.Err)
		o.log.Warn("organize failed", zap.String("file", res.Name), zap.Error(res.Err))
	}
}

// ValidateName checks that name is a single path segment: not empty, not "." or
// "..", no separators.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid name: %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("name must not contain path separators: %q", name)
	}
	return nil
}
