package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"question-bank/internal/app"
	"question-bank/internal/domain"
	"question-bank/internal/normalize"
)

// ErrUnknownSource is returned by a SourceResolver for an unsupported kind.
var ErrUnknownSource = errors.New("unknown source")

// SourceResolver maps the ?source=&name= query of a session (or a load
// message) to the source to load. kind is "example" or "collection".
type SourceResolver func(kind, name string) (app.Source, error)

type WSHandler struct {
	resolve  SourceResolver
	defaults domain.ConfigPatch
	upgrader websocket.Upgrader
}

// NewWSHandler serves one question store per connection. defaults is applied
// to every new store before its first load.
func NewWSHandler(resolve SourceResolver, defaults domain.ConfigPatch) *WSHandler {
	return &WSHandler{
		resolve:  resolve,
		defaults: defaults,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type idPayload struct {
	ID string `json:"id"`
}

type questionPayload struct {
	ID       string          `json:"id"`
	Question domain.Question `json:"question"`
}

type ratePayload struct {
	ID     string `json:"id"`
	Rating int    `json:"rating"`
}

type gotoPayload struct {
	Index int `json:"index"`
}

type loadPayload struct {
	Source string `json:"source"`
	Name   string `json:"name"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type statePayload struct {
	SessionID       string               `json:"sessionId"`
	State           domain.QuestionState `json:"state"`
	CurrentQuestion *domain.Question     `json:"currentQuestion,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// outbox queues messages for the connection writer. Once the writer has
// stopped, pushes are dropped instead of blocking.
type outbox struct {
	send chan outboundMessage[any]
	done chan struct{}
}

func (o outbox) push(msg outboundMessage[any]) {
	select {
	case o.send <- msg:
	case <-o.done:
	}
}

// ServeWS upgrades the request and runs a private question-bank session.
// Without ?source= the session starts empty.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	var src app.Source
	if kind := r.URL.Query().Get("source"); kind != "" {
		var err error
		src, err = h.resolve(kind, r.URL.Query().Get("name"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	store := app.NewStore(nil)
	store.SetUserConfig(h.defaults)

	updates, cancel := store.Subscribe()
	defer cancel()

	out := outbox{send: make(chan outboundMessage[any], 16), done: make(chan struct{})}
	closeSignals := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(out.done)
		for msg := range out.send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				// unblock the reader loop
				conn.Close()
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case state, ok := <-updates:
				if !ok {
					return
				}
				select {
				case out.send <- stateMessage(sessionID, state):
				case <-out.done:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	log.Printf("session %s opened", sessionID)
	if src != nil {
		h.load(r.Context(), store, src, out)
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.handle(r.Context(), store, inbound, out); err != nil {
			out.push(errorMessage(err.Error()))
		}
	}

	close(closeSignals)
	<-updatesDone
	close(out.send)
	<-out.done
	log.Printf("session %s closed", sessionID)
}

// handle applies one inbound message. State changes reach the client through
// the store subscription; only failures are reported here.
func (h *WSHandler) handle(ctx context.Context, store *app.Store, msg inboundMessage, out outbox) error {
	switch msg.Type {
	case "add":
		var raw normalize.RawQuestion
		if err := json.Unmarshal(msg.Payload, &raw); err != nil {
			return errors.New("invalid add payload")
		}
		store.AddRaw(raw)
	case "update", "edit":
		var payload questionPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.ID == "" {
			return errors.New("invalid " + msg.Type + " payload")
		}
		if msg.Type == "update" {
			return store.Update(payload.ID, payload.Question)
		}
		_, err := store.Edit(payload.ID, payload.Question)
		return err
	case "delete":
		var payload idPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errors.New("invalid delete payload")
		}
		return store.Delete(payload.ID)
	case "rate":
		var payload ratePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errors.New("invalid rate payload")
		}
		return store.Rate(payload.ID, payload.Rating)
	case "config":
		var patch domain.ConfigPatch
		if err := json.Unmarshal(msg.Payload, &patch); err != nil {
			return errors.New("invalid config payload")
		}
		if patch.BloomLevel != nil && *patch.BloomLevel != "" && !patch.BloomLevel.Valid() {
			return fmt.Errorf("%w: unknown bloom level %q", domain.ErrValidation, *patch.BloomLevel)
		}
		store.SetUserConfig(patch)
	case "goto":
		var payload gotoPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errors.New("invalid goto payload")
		}
		store.GoToQuestion(payload.Index)
	case "next":
		store.NextQuestion()
	case "prev":
		store.PrevQuestion()
	case "load":
		var payload loadPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errors.New("invalid load payload")
		}
		src, err := h.resolve(payload.Source, payload.Name)
		if err != nil {
			return err
		}
		h.load(ctx, store, src, out)
	default:
		return errors.New("unsupported message type")
	}
	return nil
}

// load runs a store load; the failure is already part of the state, the error
// message is sent for clients that only watch for errors.
func (h *WSHandler) load(ctx context.Context, store *app.Store, src app.Source, out outbox) {
	n, err := store.Load(ctx, src)
	if err != nil {
		log.Printf("load %s failed: %v", src.Name(), err)
		out.push(errorMessage(err.Error()))
		return
	}
	log.Printf("loaded %d questions from %s", n, src.Name())
}

func stateMessage(sessionID string, state domain.QuestionState) outboundMessage[any] {
	payload := statePayload{SessionID: sessionID, State: state}
	if q, ok := state.Current(); ok {
		payload.CurrentQuestion = &q
	}
	return outboundMessage[any]{Type: "state", Payload: payload}
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}
