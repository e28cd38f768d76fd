package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"question-bank/internal/domain"
)

// Question converts a raw record into the canonical shape. index is the
// record's position in its collection and feeds the generated id and number.
func Question(raw RawQuestion, index int) domain.Question {
	return QuestionAt(raw, index, time.Now())
}

// QuestionAt is Question with an explicit clock for generated ids.
func QuestionAt(raw RawQuestion, index int, now time.Time) domain.Question {
	if raw == nil {
		raw = RawQuestion{}
	}

	correct := raw.text(fieldCorrectAnswer, "")
	bloom := domain.Remember
	if v, ok := raw.firstTruthy(fallbackChains[fieldBloomLevel]); ok {
		if text, ok := scalarText(v); ok {
			if level, ok := domain.ParseBloomLevel(text); ok {
				bloom = level
			}
		}
	}
	qType := domain.CanonicalQuestionType(bloom, raw.text(fieldQuestionType, ""))

	var options []domain.QuestionOption
	if msg, ok := raw.raw(fallbackChains[fieldOptions]); ok {
		options, _ = Options(msg, correct)
	}
	if options == nil {
		options = []domain.QuestionOption{}
	}

	q := domain.Question{
		ID:              deriveID(raw, index, now),
		Number:          deriveNumber(raw, index),
		Text:            raw.text(fieldText, PlaceholderText),
		Options:         options,
		CorrectAnswerID: correct,
		BloomLevel:      bloom,
		QuestionType:    qType,
		Explanation:     deriveExplanation(raw),
		Context: &domain.CourseContext{
			CourseTitle:       raw.text(fieldCourseTitle, PlaceholderCourseTitle),
			CourseDescription: raw.text(fieldCourseDescription, PlaceholderCourseDescription),
			ModuleNumber:      raw.text(fieldModuleNumber, PlaceholderModuleNumber),
			Topic:             raw.text(fieldTopic, PlaceholderTopic),
		},
		TokensInput:  raw.optionalInt(fieldTokensInput),
		TokensOutput: raw.optionalInt(fieldTokensOutput),
		GenByLLM:     true,
	}
	if rating := raw.optionalInt(fieldRating); rating != nil {
		q.Rating = *rating
	}
	if v, ok := raw.firstPresent(fallbackChains[fieldGenByLLM]); ok {
		q.GenByLLM = truthy(v)
	}
	return q
}

// Collection normalizes every record of a parsed collection.
func Collection(raws []RawQuestion) []domain.Question {
	return CollectionAt(raws, time.Now())
}

// CollectionAt is Collection with an explicit clock for generated ids.
func CollectionAt(raws []RawQuestion, now time.Time) []domain.Question {
	questions := make([]domain.Question, 0, len(raws))
	for i, raw := range raws {
		questions = append(questions, QuestionAt(raw, i, now))
	}
	return questions
}

// Options converts option data given either as a keyed object ({"A": "..."})
// or as a list of strings. Object keys become ids in document order; list
// entries get letters by position, and list entries that are already
// {"id","text"} objects keep their id. Other values are skipped. The second
// result is the position of the option whose id equals correctKey, or -1.
func Options(raw json.RawMessage, correctKey string) ([]domain.QuestionOption, int) {
	options := []domain.QuestionOption{}
	entries, isObject, err := domain.DecodeEntries(raw)
	switch {
	case err != nil:
		return options, -1
	case isObject:
		for _, entry := range entries {
			options = append(options, domain.QuestionOption{ID: entry.Key, Text: entry.Value})
		}
	default:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return options, -1
		}
		for i, item := range items {
			var text string
			if err := json.Unmarshal(item, &text); err == nil {
				options = append(options, domain.QuestionOption{ID: OptionLetter(i), Text: text})
				continue
			}
			// canonical {"id","text"} entries, as written back by this package
			var opt domain.QuestionOption
			if err := json.Unmarshal(item, &opt); err != nil || opt.Text == "" {
				continue
			}
			if opt.ID == "" {
				opt.ID = OptionLetter(i)
			}
			options = append(options, opt)
		}
	}
	correct := -1
	if correctKey != "" {
		for i, opt := range options {
			if opt.ID == correctKey {
				correct = i
				break
			}
		}
	}
	return options, correct
}

// OptionLetter returns the letter id for a 0-based position: A..Z, then AA, AB...
func OptionLetter(i int) string {
	if i < 0 {
		return ""
	}
	letters := ""
	for i >= 0 {
		letters = string(rune('A'+i%26)) + letters
		i = i/26 - 1
	}
	return letters
}

func deriveID(raw RawQuestion, index int, now time.Time) string {
	// canonical records carry their identity in id; number is only the ordinal
	if raw.canonical() {
		if v, ok := raw.firstTruthy(fallbackChains[fieldID]); ok {
			if text, ok := scalarText(v); ok {
				return text
			}
		}
	}
	if v, ok := raw.firstPresent(fallbackChains[fieldNumber]); ok {
		if text, ok := scalarText(v); ok {
			if _, ok := leadingInt(text); ok {
				return text
			}
		}
	}
	if v, ok := raw.firstTruthy(fallbackChains[fieldID]); ok {
		if text, ok := scalarText(v); ok {
			return text
		}
	}
	return fmt.Sprintf("gen_%d_%d", now.UnixMilli(), index)
}

func deriveNumber(raw RawQuestion, index int) int {
	sources := numberSources
	if raw.canonical() {
		sources = canonicalNumberSources
	}
	for _, f := range sources {
		v, ok := raw.firstTruthy(fallbackChains[f])
		if !ok {
			continue
		}
		if n, ok := intValue(v); ok {
			return n
		}
	}
	return index + 1
}

func deriveExplanation(raw RawQuestion) *domain.Explanation {
	msg, ok := raw.raw(fallbackChains[fieldExplanation])
	if !ok {
		return nil
	}
	entries, isObject, err := domain.DecodeEntries(msg)
	if err == nil && isObject {
		return domain.NewExplanation(entries...)
	}
	// older collections give the explanation of the correct answer as a string
	var text string
	if err := json.Unmarshal(msg, &text); err != nil || strings.TrimSpace(text) == "" {
		return nil
	}
	return domain.NewExplanation(domain.Entry{Key: domain.ExplanationCorrectKey, Value: strings.TrimSpace(text)})
}

// text returns the first truthy scalar of the field's chain, or fallback.
func (r RawQuestion) text(f field, fallback string) string {
	v, ok := r.firstTruthy(fallbackChains[f])
	if !ok {
		return fallback
	}
	if text, ok := scalarText(v); ok {
		return text
	}
	return fallback
}

func (r RawQuestion) optionalInt(f field) *int {
	v, ok := r.firstPresent(fallbackChains[f])
	if !ok {
		return nil
	}
	n, ok := intValue(v)
	if !ok {
		return nil
	}
	return &n
}
