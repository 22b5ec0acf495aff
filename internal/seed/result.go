// Package seed loads the starter content a fresh database needs: one active
// template per notification kind and the default training packages.
package seed

import "fmt"

// Result tracks counts and errors from a seeding operation.
type Result struct {
	TemplatesSeeded  int
	TemplatesSkipped int
	PackagesSeeded   int
	Errors           []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.TemplatesSeeded += other.TemplatesSeeded
	r.TemplatesSkipped += other.TemplatesSkipped
	r.PackagesSeeded += other.PackagesSeeded
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the seed operation.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"templates=%d templates_skipped=%d packages=%d errors=%d",
		r.TemplatesSeeded, r.TemplatesSkipped, r.PackagesSeeded, len(r.Errors),
	)
}
