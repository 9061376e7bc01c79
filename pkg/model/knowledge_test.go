package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/myna/pkg/model"
)

func TestValidateUpload(t *testing.T) {
	testCases := []struct {
		name        string
		fileName    string
		size        int64
		contentType string
		wantErr     error
	}{
		{"plain text", "notes.txt", 100, "text/plain", nil},
		{"pdf by extension", "manual.pdf", 100, "", nil},
		{"markdown with charset", "readme.md", 100, "text/markdown; charset=utf-8", nil},
		{"unknown declared type falls back to extension", "data.json", 100, "application/octet-stream", nil},
		{"empty file", "empty.txt", 0, "text/plain", model.ErrEmptyFile},
		{"at size limit", "big.txt", model.MaxKnowledgeFileSize, "text/plain", nil},
		{"over size limit", "huge.txt", model.MaxKnowledgeFileSize + 1, "text/plain", model.ErrFileTooLarge},
		{"executable", "setup.exe", 100, "application/x-msdownload", model.ErrUnsupportedFileType},
		{"no type no extension", "mystery", 100, "", model.ErrUnsupportedFileType},
		{"word document", "contract.docx", 100, "", nil},
		{"log file", "calls.log", 100, "", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := model.ValidateUpload(tc.fileName, tc.size, tc.contentType)
			if tc.wantErr == nil {
				gt.NoError(t, err)
			} else {
				gt.Error(t, err)
				gt.True(t, errors.Is(err, tc.wantErr))
			}
		})
	}
}

func TestSortFilesByID(t *testing.T) {
	files := []model.KnowledgeFile{
		{ID: "c", Name: "third"},
		{ID: "a", Name: "first"},
		{ID: "b", Name: "second"},
	}

	model.SortFilesByID(files)
	gt.Equal(t, files[0].ID, model.FileID("a"))
	gt.Equal(t, files[1].ID, model.FileID("b"))
	gt.Equal(t, files[2].ID, model.FileID("c"))
}

func TestMediaTypeForName(t *testing.T) {
	gt.Equal(t, model.MediaTypeForName("a.txt"), "text/plain")
	gt.Equal(t, model.MediaTypeForName("A.YAML"), "application/x-yaml")
	gt.Equal(t, model.MediaTypeForName("binary"), "")
}
