package model

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// FileID identifies a stored knowledge file at the hosting service
type FileID string

// MaxKnowledgeFileSize is the per-file upload ceiling (300 KiB)
const MaxKnowledgeFileSize = 300 * 1024

// KnowledgeFile is one file attached to an assistant as reference material
type KnowledgeFile struct {
	ID   FileID `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// KnowledgeSet is the authoritative attached-file listing for an assistant
type KnowledgeSet struct {
	ToolID string          `json:"toolId"`
	Files  []KnowledgeFile `json:"files"`
}

// SortFilesByID orders knowledge files by their remote-assigned ID. Used to
// keep the displayed list stable after rollback reinsertions.
func SortFilesByID(files []KnowledgeFile) {
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
}

var allowedMediaTypes = map[string]bool{
	"text/plain":               true,
	"application/pdf":          true,
	"application/msword":       true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/csv":                  true,
	"text/markdown":             true,
	"text/tab-separated-values": true,
	"application/x-yaml":        true,
	"text/yaml":                 true,
	"application/json":          true,
	"application/xml":           true,
	"text/xml":                  true,
	"text/x-log":                true,
}

var extensionMediaTypes = map[string]string{
	".txt":  "text/plain",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".csv":  "text/csv",
	".md":   "text/markdown",
	".tsv":  "text/tab-separated-values",
	".yaml": "application/x-yaml",
	".yml":  "application/x-yaml",
	".json": "application/json",
	".xml":  "application/xml",
	".log":  "text/x-log",
}

// MediaTypeForName infers a media type from the file name extension,
// returning an empty string when the extension is unknown.
func MediaTypeForName(name string) string {
	return extensionMediaTypes[strings.ToLower(filepath.Ext(name))]
}

// ValidateUpload checks one candidate file independently of its batch
// siblings. The declared content type wins; when it is absent or unknown,
// the type inferred from the file name is tried before rejecting.
func ValidateUpload(name string, size int64, contentType string) error {
	if size == 0 {
		return goerr.Wrap(ErrEmptyFile, "empty file", goerr.V("name", name))
	}
	if size > MaxKnowledgeFileSize {
		return goerr.Wrap(ErrFileTooLarge, "file too large",
			goerr.V("name", name),
			goerr.V("size", size),
			goerr.V("limit", MaxKnowledgeFileSize))
	}

	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	if !allowedMediaTypes[mediaType] {
		mediaType = MediaTypeForName(name)
	}
	if !allowedMediaTypes[mediaType] {
		return goerr.Wrap(ErrUnsupportedFileType, "unsupported file type",
			goerr.V("name", name),
			goerr.V("contentType", contentType))
	}

	return nil
}
