package export

import (
	"direxport/pkg/ignore"
)

// Decision is the outcome of evaluating one entry.
type Decision struct {
	Visit   bool // Descend into a directory, or list an entry in the structure tree.
	Include bool // Render a file's contents.
}

// Policy combines an exclusion set and an inclusion set into a per-entry decision.
// It holds no state beyond the two sets and is safe for concurrent use.
type Policy struct {
	excludes *ignore.ExcludeSet
	includes *ignore.IncludeSet
}

// NewPolicy builds a policy. Nil sets behave as empty ones.
func NewPolicy(excludes *ignore.ExcludeSet, includes *ignore.IncludeSet) *Policy {
	if excludes == nil {
		excludes = ignore.NewExcludeSet(nil)
	}
	if includes == nil {
		includes = ignore.NewIncludeSet(nil)
	}
	return &Policy{excludes: excludes, includes: includes}
}

// Decide evaluates relPath. An entry is visited when it is not excluded or
// when it is allow-listed; a file is rendered only when it is allow-listed.
// With no inclusion rules every path is allow-listed, so exclusions never
// apply in that case.
func (p *Policy) Decide(relPath string, isDir bool) Decision {
	included := p.includes.Included(relPath)
	excluded := p.excludes.Excluded(relPath, isDir)
	visit := !excluded || included
	return Decision{
		Visit:   visit,
		Include: visit && included,
	}
}

// Excluded exposes the exclusion verdict on its own.
func (p *Policy) Excluded(relPath string, isDir bool) bool {
	return p.excludes.Excluded(relPath, isDir)
}

// Included exposes the inclusion verdict on its own.
func (p *Policy) Included(relPath string) bool {
	return p.includes.Included(relPath)
}
