package httpsource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"question-bank/internal/domain"
)

func TestFetchExample(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"number":1,"question":"Q1","options":["A1","A2"]}]`))
	}))
	defer server.Close()

	src := NewExampleSource(server.URL)
	raws, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(raws) != 1 || src.Name() != ExampleName {
		t.Fatalf("unexpected result: %d records from %q", len(raws), src.Name())
	}
}

func TestFetchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		default:
			w.Write([]byte(`{"not":"an array"}`))
		}
	}))
	defer server.Close()

	_, err := NewExampleSource(server.URL + "/missing").Fetch(context.Background())
	if !errors.Is(err, domain.ErrFetch) || errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected fetch error for 404, got %v", err)
	}

	_, err = NewExampleSource(server.URL + "/object").Fetch(context.Background())
	if !errors.Is(err, domain.ErrFetch) || !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected fetch and parse error for object body, got %v", err)
	}

	server.Close()
	_, err = NewExampleSource(server.URL).Fetch(context.Background())
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected fetch error for closed server, got %v", err)
	}
}
