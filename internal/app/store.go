package app

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"question-bank/internal/domain"
	"question-bank/internal/filter"
	"question-bank/internal/normalize"
)

// Source produces a raw question collection (a file, the example resource,
// a database row...). Name identifies the source in QuestionState.Source and
// in caches.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]normalize.RawQuestion, error)
}

// Store owns the QuestionState of one viewing session. Every operation runs
// one Reduce transition under the lock, so readers never observe derived
// fields out of step with AllQuestions and UserConfig.
type Store struct {
	now func() time.Time

	mu          sync.RWMutex
	state       domain.QuestionState
	subscribers map[chan domain.QuestionState]struct{}
}

// NewStore normalizes the initial raw records and selects the first one.
func NewStore(initial []normalize.RawQuestion) *Store {
	return NewStoreWithClock(initial, time.Now)
}

// NewStoreWithClock allows deterministic generated ids in tests.
func NewStoreWithClock(initial []normalize.RawQuestion, now func() time.Time) *Store {
	return &Store{
		now:         now,
		state:       InitialState(normalize.CollectionAt(initial, now())),
		subscribers: make(map[chan domain.QuestionState]struct{}),
	}
}

// Dispatch applies action and notifies subscribers of the resulting state.
func (s *Store) Dispatch(action Action) domain.QuestionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(action)
}

func (s *Store) dispatchLocked(action Action) domain.QuestionState {
	s.state = Reduce(s.state, action)
	s.broadcastLocked()
	return s.state
}

// Load replaces all questions with the records produced by src. The loading
// flag is cleared on both paths; on failure the lists are emptied and the
// error message is kept in the state.
func (s *Store) Load(ctx context.Context, src Source) (int, error) {
	name := src.Name()
	s.Dispatch(LoadStart{Source: name})

	raws, err := src.Fetch(ctx)
	if err != nil {
		s.Dispatch(LoadError{Err: err.Error(), Source: name})
		return 0, err
	}
	questions := normalize.CollectionAt(raws, s.now())
	s.Dispatch(LoadSuccess{Questions: questions, Source: name})
	return len(questions), nil
}

// Add appends an already normalized question.
func (s *Store) Add(q domain.Question) {
	s.Dispatch(AddQuestion{Question: q})
}

// AddRaw normalizes raw as the next record of the collection and appends it.
func (s *Store) AddRaw(raw normalize.RawQuestion) domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := normalize.QuestionAt(raw, len(s.state.AllQuestions), s.now())
	s.dispatchLocked(AddQuestion{Question: q})
	return q
}

// Update replaces the question with the given id. An unknown id leaves the
// state untouched and reports domain.ErrQuestionNotFound.
func (s *Store) Update(id string, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.state.AllQuestions, id) == -1 {
		return notFound(id)
	}
	s.dispatchLocked(UpdateQuestion{ID: id, Question: q})
	return nil
}

// Edit is Update for changes made by a person: if edited differs from the
// stored question in anything but GenByLLM, it is marked as human edited.
func (s *Store) Edit(id string, edited domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.state.AllQuestions, id)
	if i == -1 {
		return domain.Question{}, notFound(id)
	}
	if !s.state.AllQuestions[i].SameContent(edited) {
		edited.GenByLLM = false
	}
	s.dispatchLocked(UpdateQuestion{ID: id, Question: edited})
	return edited, nil
}

// Delete removes the question with the given id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.state.AllQuestions, id) == -1 {
		return notFound(id)
	}
	s.dispatchLocked(DeleteQuestion{ID: id})
	return nil
}

// Rate sets the rating of a question in both lists. The value is stored as
// given; domain.RatingLabel treats anything outside 0..5 as unrated.
func (s *Store) Rate(id string, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.state.AllQuestions, id) == -1 {
		return notFound(id)
	}
	s.dispatchLocked(RateQuestion{ID: id, Rating: rating})
	return nil
}

// SetUserConfig merges patch into the configuration and selects the first
// matching question.
func (s *Store) SetUserConfig(patch domain.ConfigPatch) domain.QuestionState {
	return s.Dispatch(SetUserConfig{Patch: patch})
}

func (s *Store) GoToQuestion(index int) domain.QuestionState {
	return s.Dispatch(GoToQuestion{Index: index})
}

func (s *Store) NextQuestion() domain.QuestionState {
	return s.Dispatch(NextQuestion{})
}

func (s *Store) PrevQuestion() domain.QuestionState {
	return s.Dispatch(PrevQuestion{})
}

// State returns a copy of the current state.
func (s *Store) State() domain.QuestionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.state)
}

// CurrentQuestion returns the selected question, if any.
func (s *Store) CurrentQuestion() (domain.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Current()
}

// QuestionByID looks a question up in the full list.
func (s *Store) QuestionByID(id string) (domain.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.state.AllQuestions, id)
	if i == -1 {
		return domain.Question{}, false
	}
	return s.state.AllQuestions[i], true
}

// BloomLevels lists the levels present in the full list.
func (s *Store) BloomLevels() []domain.BloomLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.BloomLevels(s.state.AllQuestions)
}

// QuestionTypes lists the selectable types for level ("" for all levels).
func (s *Store) QuestionTypes(level domain.BloomLevel) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.QuestionTypes(s.state.AllQuestions, level)
}

// Subscribe returns a channel receiving the state after every transition,
// starting with the current one. Slow readers only see the latest state.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *Store) Subscribe() (<-chan domain.QuestionState, func()) {
	ch := make(chan domain.QuestionState, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- snapshot(s.state)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) broadcastLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	state := snapshot(s.state)
	for ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			// drop the oldest pending state so the writer never blocks
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}

func snapshot(state domain.QuestionState) domain.QuestionState {
	state.AllQuestions = slices.Clone(state.AllQuestions)
	state.FilteredQuestions = slices.Clone(state.FilteredQuestions)
	return state
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, id)
}
