package export

import (
	"fmt"
	"os"

	"direxport/pkg/strip"

	"go.uber.org/zap"
)

// fileRenderer turns one file on disk into a RenderedBlock.
type fileRenderer struct {
	stripper strip.Stripper // nil disables comment removal
	logger   *zap.Logger
}

// render reads filePath, decodes it, optionally strips comments and trims
// trailing whitespace. A strip failure is not fatal: the original content is
// kept and a "strip" diagnostic is returned alongside the block.
func (fr fileRenderer) render(filePath, relPath, name string) (RenderedBlock, *Diagnostic, error) {
	fileBytes, err := os.ReadFile(filePath)
	if err != nil {
		return RenderedBlock{}, nil, fmt.Errorf("error reading file %s: %w", relPath, err)
	}

	lang := languageTag(name)
	content := decodeText(fileBytes)

	var warning *Diagnostic
	if fr.stripper != nil {
		stripped, stripErr := fr.stripper.Strip(content, lang)
		if stripErr != nil {
			fr.logger.Warn("Unable to strip comments, using original content",
				zap.String("file", relPath),
				zap.String("language", lang),
				zap.Error(stripErr))
			warning = &Diagnostic{Op: "strip", Path: relPath, Err: stripErr}
		} else {
			content = stripped
		}
	}

	fr.logger.Debug("Rendered file",
		zap.String("file", relPath),
		zap.String("language", lang),
		zap.Int("contentSizeBytes", len(fileBytes)))

	return RenderedBlock{
		Path:     relPath,
		Language: lang,
		Content:  trimTrailingSpace(content),
	}, warning, nil
}
