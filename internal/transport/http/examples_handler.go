package http

import (
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"question-bank/internal/normalize"
)

// ExamplesHandler serves {dir}/{name}.json as the example resource.
type ExamplesHandler struct {
	dir string
}

func NewExamplesHandler(dir string) *ExamplesHandler {
	return &ExamplesHandler{dir: dir}
}

func (h *ExamplesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		http.Error(w, "invalid example name", http.StatusBadRequest)
		return
	}

	data, err := os.ReadFile(filepath.Join(h.dir, name+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("read example %s: %v", name, err)
		http.Error(w, "failed to read example", http.StatusInternalServerError)
		return
	}
	// refuse to serve a file the viewer could not load
	if _, err := normalize.ParseCollection(data); err != nil {
		log.Printf("example %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
