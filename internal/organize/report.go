package organize

import (
	"errors"
	"fmt"
	"strings"
)

// Policy decides what happens when the target file already exists.
type Policy int

const (
	// Overwrite replaces the existing target.
	Overwrite Policy = iota
	// Skip leaves the source file where it is.
	Skip
	// Rename picks "name (n).ext" for the first free n.
	Rename
)

var policyNames = map[Policy]string{
	Overwrite: "overwrite",
	Skip:      "skip",
	Rename:    "rename",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts "overwrite", "skip" or "rename". Empty means overwrite.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Overwrite, nil
	}
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return Overwrite, fmt.Errorf("unknown conflict policy %q (use overwrite, skip or rename)", s)
}

// Status is the outcome for a single file.
type Status int

const (
	Moved Status = iota
	Skipped
	Planned // dry run
	Failed
)

// Result records what happened to one file.
type Result struct {
	Name     string
	Category string
	Target   string
	Status   Status
	Err      error
}

// Report collects the per-file results of a run.
type Report struct {
	Source      string
	Destination string
	Results     []Result
}

// Count returns how many results have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Err joins the per-file errors, or returns nil when every file succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Status == Failed {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}
	return errors.Join(errs...)
}
