package filter

import (
	"slices"
	"sort"
	"strings"

	"question-bank/internal/domain"
)

// Apply returns the questions matching cfg, keeping their relative order.
// An empty BloomLevel or QuestionType disables that axis. The result is a
// fresh slice and is never nil.
func Apply(questions []domain.Question, cfg domain.UserConfig) []domain.Question {
	filtered := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if cfg.BloomLevel != "" && q.BloomLevel != cfg.BloomLevel {
			continue
		}
		if cfg.QuestionType != "" && q.QuestionType != cfg.QuestionType {
			continue
		}
		filtered = append(filtered, q)
	}
	return filtered
}

// Search returns the questions whose text, bloom level, type, id or course
// context contains term, case-insensitively. A blank term matches everything.
func Search(questions []domain.Question, term string) []domain.Question {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return slices.Clone(questions)
	}
	matched := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		for _, field := range searchFields(q) {
			if strings.Contains(strings.ToLower(field), term) {
				matched = append(matched, q)
				break
			}
		}
	}
	return matched
}

func searchFields(q domain.Question) []string {
	fields := []string{q.Text, string(q.BloomLevel), q.QuestionType, q.ID}
	if q.Context != nil {
		fields = append(fields, q.Context.CourseTitle, q.Context.CourseDescription, q.Context.ModuleNumber, q.Context.Topic)
	}
	return fields
}

// BloomLevels returns the distinct levels present, in taxonomy order.
func BloomLevels(questions []domain.Question) []domain.BloomLevel {
	seen := make(map[domain.BloomLevel]bool)
	for _, q := range questions {
		if q.BloomLevel != "" {
			seen[q.BloomLevel] = true
		}
	}
	levels := make([]domain.BloomLevel, 0, len(seen))
	for level := range seen {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool {
		oi, oj := levels[i].Ordinal(), levels[j].Ordinal()
		if oi != oj {
			return oi < oj
		}
		return levels[i] < levels[j]
	})
	return levels
}

// QuestionTypes lists selectable type names. With a known level it returns
// that level's table entries; otherwise the distinct types present.
func QuestionTypes(questions []domain.Question, level domain.BloomLevel) []string {
	if entries, ok := domain.QuestionTypesByBloom[level]; ok && level != "" {
		names := make([]string, 0, len(entries))
		for _, qt := range entries {
			names = append(names, qt.Name)
		}
		sort.Strings(names)
		return names
	}
	seen := make(map[string]bool)
	names := []string{}
	for _, q := range questions {
		if q.QuestionType != "" && !seen[q.QuestionType] {
			seen[q.QuestionType] = true
			names = append(names, q.QuestionType)
		}
	}
	sort.Strings(names)
	return names
}
