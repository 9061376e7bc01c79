package model

import "github.com/m-mizutani/goerr/v2"

// Remote mutation failures. Each operation wraps the matching sentinel so
// callers can branch with errors.Is without parsing messages.
var (
	ErrUpdateFailed = goerr.New("failed to update assistant")
	ErrSyncFailed   = goerr.New("failed to sync knowledge files")
	ErrDeleteFailed = goerr.New("failed to delete knowledge file")
	ErrDetachFailed = goerr.New("failed to detach knowledge file")
)

// Per-file upload validation failures. These never block sibling files in
// the same batch.
var (
	ErrEmptyFile           = goerr.New("file is empty")
	ErrFileTooLarge        = goerr.New("file exceeds size limit")
	ErrUnsupportedFileType = goerr.New("unsupported file type")
)

// ValidationError reports the first invalid draft field blocking a save
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
