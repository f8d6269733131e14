// Package export turns a directory into a single Markdown document: an
// optional indented project tree followed by one fenced code block per
// selected file.
//
// Selection combines an exclusion set and an inclusion set (see package
// ignore) through a Policy. Run walks the whole tree; RunSelected renders an
// explicit list of files. Both build the document in memory and return it only
// when the walk completes, so a canceled export never produces partial output.
// WriteOutput persists a finished document.
package export
