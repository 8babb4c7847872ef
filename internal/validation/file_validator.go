package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/veranemoloko/doc-converter/internal/domain"
	errs "github.com/veranemoloko/doc-converter/internal/errors"
)

// FileValidator checks file candidates against the configured extension
// whitelist and size limit. It has no side effects on any session state.
type FileValidator struct {
	validate   *validator.Validate
	extensions []string
	maxSize    int64
}

// NewFileValidator creates a FileValidator accepting the given extensions
// (with leading dots, matched case-sensitively) and byte size limit.
func NewFileValidator(extensions []string, maxSize int64) *FileValidator {
	v := &FileValidator{
		validate:   validator.New(),
		extensions: extensions,
		maxSize:    maxSize,
	}
	_ = v.validate.RegisterValidation("doc_ext", v.validateExtension)
	return v
}

// ValidateFile returns nil when the candidate may be staged for upload.
// Rejections are reported as ErrUnsupportedType or ErrFileTooLarge.
func (v *FileValidator) ValidateFile(c *domain.FileCandidate) error {
	if err := v.validate.Var(c.Name, "required,doc_ext"); err != nil {
		return fmt.Errorf("%w: %q (allowed: %s)", errs.ErrUnsupportedType, c.Name, strings.Join(v.extensions, ", "))
	}

	if err := v.validate.Var(c.Size, fmt.Sprintf("gte=0,lte=%d", v.maxSize)); err != nil {
		return fmt.Errorf("%w: %d bytes (max %d)", errs.ErrFileTooLarge, c.Size, v.maxSize)
	}

	return nil
}

func (v *FileValidator) validateExtension(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	for _, ext := range v.extensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return true
		}
	}
	return false
}
