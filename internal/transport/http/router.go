package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the health check, the websocket session endpoint and the
// example resource.
func NewRouter(ws *WSHandler, examples *ExamplesHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ws", ws.ServeWS)
	router.Handle("/examples/{name}", examples).Methods(http.MethodGet)
	return router
}
