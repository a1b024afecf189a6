package rewrite

import "time"

// FileResult is the outcome for one document.
type FileResult struct {
	// Path is relative to the root, with forward slashes.
	Path         string
	Changed      bool
	LinesChanged int
	Replacements Counts
	// IndexStripped is set on the README when the index section was removed.
	IndexStripped bool
	LinesDropped  int
}

// Leftover is an upstream link that survived the rewrite, usually because the
// mapping table has no entry for it.
type Leftover struct {
	Path        string
	Line        int
	Destination string
}

// Result summarizes a run.
type Result struct {
	Mode      Mode
	Root      string
	DryRun    bool
	Files     []FileResult
	Leftovers []Leftover
	Duration  time.Duration
}

// ChangedFiles returns the results whose content changed.
func (r *Result) ChangedFiles() []FileResult {
	out := make([]FileResult, 0)
	for _, f := range r.Files {
		if f.Changed {
			out = append(out, f)
		}
	}
	return out
}

// Replacements sums substitutions over all files.
func (r *Result) Replacements() Counts {
	total := Counts{}
	for _, f := range r.Files {
		total.add(f.Replacements)
	}
	return total
}
