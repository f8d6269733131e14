// File: pkg/export/render.go
package export

import (
	"fmt"
	"strings"
)

// Section titles of the output document.
const (
	StructureTitle     = "Project Structure"
	FileContentsTitle  = "File Contents"
	SelectedFilesTitle = "Selected Files Content"
)

// FormatBlock renders one file as a level-2 heading with its relative path
// followed by a fenced code block tagged with the language.
func FormatBlock(relPath, lang, content string) string {
	return fmt.Sprintf("## %s\n\n```%s\n%s\n```\n\n", relPath, lang, content)
}

// Document is the assembled export. Blocks keep the order they were discovered in.
type Document struct {
	Description      string          // Optional prose placed before everything else.
	IncludeStructure bool            // Emit the structure section.
	Structure        string          // Indented tree, one entry per line.
	Title            string          // Heading of the contents section; FileContentsTitle when empty.
	Blocks           []RenderedBlock // File blocks in traversal order.
}

// String renders the whole document.
func (d Document) String() string {
	var b strings.Builder

	if d.Description != "" {
		b.WriteString(d.Description)
		b.WriteString("\n\n")
	}

	if d.IncludeStructure {
		fmt.Fprintf(&b, "# %s\n\n```\n", StructureTitle)
		b.WriteString(d.Structure)
		b.WriteString("```\n\n")
	}

	title := d.Title
	if title == "" {
		title = FileContentsTitle
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	for _, block := range d.Blocks {
		b.WriteString(FormatBlock(block.Path, block.Language, block.Content))
	}
	return b.String()
}
