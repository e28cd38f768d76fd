package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// QuestionOption is a single answer choice.
type QuestionOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ExplanationCorrectKey is the reserved explanation key for the correct answer.
const ExplanationCorrectKey = "correct"

// Explanation is a sparse, ordered map keyed by "correct" or option letters.
// Values are immutable; Set returns a modified copy.
type Explanation struct {
	entries []Entry
}

func NewExplanation(entries ...Entry) *Explanation {
	e := &Explanation{}
	for _, entry := range entries {
		e = e.Set(entry.Key, entry.Value)
	}
	return e
}

// Get returns the explanation stored under key.
func (e *Explanation) Get(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, entry := range e.entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return "", false
}

// Correct returns the explanation of the correct answer, if any.
func (e *Explanation) Correct() string {
	text, _ := e.Get(ExplanationCorrectKey)
	return text
}

// Set returns a copy of e with key set to value, keeping key order.
func (e *Explanation) Set(key, value string) *Explanation {
	next := &Explanation{}
	if e != nil {
		next.entries = slices.Clone(e.entries)
	}
	for i := range next.entries {
		if next.entries[i].Key == key {
			next.entries[i].Value = value
			return next
		}
	}
	next.entries = append(next.entries, Entry{Key: key, Value: value})
	return next
}

// Keys returns the keys in insertion order.
func (e *Explanation) Keys() []string {
	if e == nil {
		return nil
	}
	keys := make([]string, 0, len(e.entries))
	for _, entry := range e.entries {
		keys = append(keys, entry.Key)
	}
	return keys
}

// Entries returns a copy of the key/value pairs in order.
func (e *Explanation) Entries() []Entry {
	if e == nil {
		return nil
	}
	return slices.Clone(e.entries)
}

func (e *Explanation) Len() int {
	if e == nil {
		return 0
	}
	return len(e.entries)
}

// Equal reports whether both explanations hold the same pairs in the same order.
func (e *Explanation) Equal(other *Explanation) bool {
	return slices.Equal(e.Entries(), other.Entries())
}

func (e *Explanation) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	return encodeEntries(e.entries)
}

func (e *Explanation) UnmarshalJSON(data []byte) error {
	entries, ok, err := DecodeEntries(data)
	if err != nil {
		return fmt.Errorf("decode explanation: %w", err)
	}
	if !ok {
		return fmt.Errorf("decode explanation: expected object")
	}
	e.entries = entries
	return nil
}

// CourseContext is descriptive metadata about where a question comes from.
type CourseContext struct {
	CourseTitle       string `json:"courseTitle"`
	CourseDescription string `json:"courseDescription"`
	ModuleNumber      string `json:"moduleNumber"`
	Topic             string `json:"topic"`
}

// Question is the canonical question record. Questions are replaced, never
// mutated in place.
type Question struct {
	ID              string           `json:"id"`
	Number          int              `json:"number"`
	Text            string           `json:"text"`
	Options         []QuestionOption `json:"options"`
	CorrectAnswerID string           `json:"correctAnswerId"`
	BloomLevel      BloomLevel       `json:"bloomLevel"`
	QuestionType    string           `json:"questionType"`
	Explanation     *Explanation     `json:"explanation,omitempty"`
	Context         *CourseContext   `json:"context,omitempty"`
	TokensInput     *int             `json:"tokensInput,omitempty"`
	TokensOutput    *int             `json:"tokensOutput,omitempty"`
	Rating          int              `json:"rating,omitempty"` // 0 means unrated
	GenByLLM        bool             `json:"genbyLLM"`
}

// WithRating returns a copy of q carrying rating.
func (q Question) WithRating(rating int) Question {
	q.Rating = rating
	return q
}

// SameContent compares two questions field by field, ignoring GenByLLM.
func (q Question) SameContent(other Question) bool {
	if q.ID != other.ID || q.Number != other.Number || q.Text != other.Text ||
		q.CorrectAnswerID != other.CorrectAnswerID || q.BloomLevel != other.BloomLevel ||
		q.QuestionType != other.QuestionType || q.Rating != other.Rating {
		return false
	}
	if !slices.Equal(q.Options, other.Options) || !q.Explanation.Equal(other.Explanation) {
		return false
	}
	if !equalPtr(q.Context, other.Context) {
		return false
	}
	return equalPtr(q.TokensInput, other.TokensInput) && equalPtr(q.TokensOutput, other.TokensOutput)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// UserConfig is the active filter/display configuration. Empty values mean
// no filter on that axis.
type UserConfig struct {
	BloomLevel   BloomLevel `json:"bloomLevel"`
	QuestionType string     `json:"questionType"`
	NumQuestions int        `json:"numQuestions"`
}

// DefaultNumQuestions is the initial value of UserConfig.NumQuestions.
const DefaultNumQuestions = 10

// DefaultUserConfig returns a configuration with no filters.
func DefaultUserConfig() UserConfig {
	return UserConfig{NumQuestions: DefaultNumQuestions}
}

// ConfigPatch carries a partial UserConfig; nil fields are left untouched.
type ConfigPatch struct {
	BloomLevel   *BloomLevel `json:"bloomLevel,omitempty"`
	QuestionType *string     `json:"questionType,omitempty"`
	NumQuestions *int        `json:"numQuestions,omitempty"`
}

// Merge returns cfg with the non-nil fields of p applied.
func (p ConfigPatch) Merge(cfg UserConfig) UserConfig {
	if p.BloomLevel != nil {
		cfg.BloomLevel = *p.BloomLevel
	}
	if p.QuestionType != nil {
		cfg.QuestionType = *p.QuestionType
	}
	if p.NumQuestions != nil {
		cfg.NumQuestions = *p.NumQuestions
	}
	return cfg
}

// QuestionState is the full state owned by the question store.
type QuestionState struct {
	AllQuestions         []Question `json:"allQuestions"`
	FilteredQuestions    []Question `json:"filteredQuestions"`
	CurrentQuestionIndex int        `json:"currentQuestionIndex"`
	UserConfig           UserConfig `json:"userConfig"`
	IsLoading            bool       `json:"isLoading"`
	Error                string     `json:"error,omitempty"`
	Source               string     `json:"source,omitempty"`
}

// Current returns the selected question of the filtered set.
func (s QuestionState) Current() (Question, bool) {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.FilteredQuestions) {
		return Question{}, false
	}
	return s.FilteredQuestions[s.CurrentQuestionIndex], true
}

// MarshalJSON never emits null lists.
func (s QuestionState) MarshalJSON() ([]byte, error) {
	type plain QuestionState
	out := plain(s)
	if out.AllQuestions == nil {
		out.AllQuestions = []Question{}
	}
	if out.FilteredQuestions == nil {
		out.FilteredQuestions = []Question{}
	}
	return json.Marshal(out)
}
