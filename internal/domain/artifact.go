package domain

import (
	"fmt"
	"strings"

	errs "github.com/veranemoloko/doc-converter/internal/errors"
)

// SourceExtensions are the document extensions the converter understands,
// matched case-sensitively against the trailing extension. The longer
// extension is listed first so ".docx" is never truncated to ".doc".
var SourceExtensions = []string{".docx", ".doc"}

// DeriveArtifactName rewrites the trailing document extension of name to
// targetExt (e.g. "report.docx" -> "report.pdf"). It fails when name does
// not end in a known document extension.
func DeriveArtifactName(name, targetExt string) (string, error) {
	for _, ext := range SourceExtensions {
		if base, ok := strings.CutSuffix(name, ext); ok && base != "" {
			return base + targetExt, nil
		}
	}
	return "", fmt.Errorf("%w: %q has no document extension", errs.ErrNameDerivation, name)
}
