package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"question-bank/internal/domain"
	"question-bank/internal/normalize"
)

// Source reads a user-supplied collection file. Its full text must be a JSON
// array of question records.
type Source struct {
	name string
	path string
	text []byte
}

// NewSource reads the file at path when fetched.
func NewSource(path string) *Source {
	return &Source{name: "file-" + filepath.Base(path), path: path}
}

// NewTextSource wraps file content that was already read (e.g. an upload).
func NewTextSource(fileName string, text []byte) *Source {
	return &Source{name: "file-" + fileName, text: text}
}

func (s *Source) Name() string { return s.name }

func (s *Source) Fetch(ctx context.Context) ([]normalize.RawQuestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := s.text
	if s.path != "" {
		var err error
		data, err = os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("%w: read file: %v", domain.ErrParse, err)
		}
	}
	return normalize.ParseCollection(data)
}
