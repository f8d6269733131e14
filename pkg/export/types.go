// File: pkg/export/types.go
package export

import (
	"errors"
	"fmt"

	"direxport/pkg/strip"
)

// ErrRootNotFound is returned when the export root is missing or is not a directory.
var ErrRootNotFound = errors.New("root directory not found")

// Options holds the already-resolved inputs of a directory export.
type Options struct {
	Root             string         // Directory to export.
	IgnoreFile       string         // Exclusion rules file, relative to Root unless absolute.
	IncludeFile      string         // Inclusion rules file, relative to Root unless absolute.
	GlobalIgnore     []string       // Exclusion rules evaluated before the rules file.
	GlobalInclude    []string       // Inclusion rules evaluated before the rules file.
	Description      string         // Optional prose, or a file under Root whose contents are used.
	IncludeStructure bool           // Render the "Project Structure" section.
	RemoveComments   bool           // Pass file contents through Stripper.
	Stripper         strip.Stripper // Comment stripper; strip.NewSyntax() when nil.
}

// RenderedBlock is one selected file, ready to be written into the document.
type RenderedBlock struct {
	Path     string // Path relative to the root, forward slashes.
	Language string // Lowercase extension without the dot; empty if none.
	Content  string // Final text with trailing whitespace trimmed.
}

// Diagnostic is a recovered per-entry failure reported to the caller.
type Diagnostic struct {
	Op   string // "read", "list", "stat" or "strip".
	Path string // Path of the entry involved.
	Err  error
}

// String renders the diagnostic as a single line.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %v", d.Op, d.Path, d.Err)
}

// Result is the outcome of a completed export.
type Result struct {
	Document    []byte       // Full output, ready to persist.
	Files       int          // Number of file blocks in the document.
	Diagnostics []Diagnostic // Recovered failures, in the order they happened.
}
