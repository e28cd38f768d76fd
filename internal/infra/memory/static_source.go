package memory

import (
	"context"

	"question-bank/internal/normalize"
)

// StaticSource serves a collection held in memory (useful for tests/demos).
type StaticSource struct {
	name string
	data []byte
}

func NewStaticSource(name string, data []byte) *StaticSource {
	return &StaticSource{name: name, data: data}
}

func (s *StaticSource) Name() string { return s.name }

func (s *StaticSource) Fetch(_ context.Context) ([]normalize.RawQuestion, error) {
	return normalize.ParseCollection(s.data)
}
