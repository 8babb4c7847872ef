package errors

import "errors"

var (
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
	ErrNameDerivation   = errors.New("cannot derive artifact name")
	ErrNoStagedFile     = errors.New("no file staged for upload")
	ErrSessionBusy      = errors.New("a conversion is already in progress")
	ErrNotReady         = errors.New("no artifact ready for download")
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrConversionFailed = errors.New("conversion failed")
)
