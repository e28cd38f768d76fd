package domain

import "strings"

// BloomLevel is one of the six cognitive levels of Bloom's taxonomy.
type BloomLevel string

const (
	Remember   BloomLevel = "Remember"
	Understand BloomLevel = "Understand"
	Apply      BloomLevel = "Apply"
	Analyze    BloomLevel = "Analyze"
	Evaluate   BloomLevel = "Evaluate"
	Create     BloomLevel = "Create"
)

// BloomLevels lists all levels in ordinal order.
var BloomLevels = []BloomLevel{Remember, Understand, Apply, Analyze, Evaluate, Create}

var bloomLabels = map[BloomLevel]string{
	Remember:   "Remember (Recall facts)",
	Understand: "Understand (Explain ideas)",
	Apply:      "Apply (Use in new situations)",
	Analyze:    "Analyze (Draw connections)",
	Evaluate:   "Evaluate (Justify a decision)",
	Create:     "Create (Produce original work)",
}

// ParseBloomLevel matches raw case-insensitively against the known levels.
func ParseBloomLevel(raw string) (BloomLevel, bool) {
	raw = strings.TrimSpace(raw)
	for _, level := range BloomLevels {
		if strings.EqualFold(string(level), raw) {
			return level, true
		}
	}
	return "", false
}

// Valid reports whether l is one of the six known levels.
func (l BloomLevel) Valid() bool {
	_, ok := bloomLabels[l]
	return ok
}

// Ordinal returns the 0-based position of l, or -1 if unknown.
func (l BloomLevel) Ordinal() int {
	for i, level := range BloomLevels {
		if level == l {
			return i
		}
	}
	return -1
}

// Label returns a human readable description of the level.
func (l BloomLevel) Label() string {
	if label, ok := bloomLabels[l]; ok {
		return label
	}
	return string(l)
}

// QuestionType is a sub-category of question valid within a Bloom level.
type QuestionType struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	BloomLevel  BloomLevel `json:"bloomLevel"`
	Description string     `json:"description,omitempty"`
}

// QuestionTypesByBloom is the static table of question types per level.
var QuestionTypesByBloom = map[BloomLevel][]QuestionType{
	Remember: {
		{ID: "recall", Name: "Recall", BloomLevel: Remember, Description: "Remember and reproduce information"},
	},
	Understand: {
		{ID: "Fill in the Blank", Name: "Fill in the Blank", BloomLevel: Understand, Description: "Fill in the blank"},
	},
	Apply: {
		{ID: "fill_in_the_blank", Name: "Fill in the Blank", BloomLevel: Apply, Description: "Fill in the blank"},
		{ID: "scenario_based", Name: "Scenario Based", BloomLevel: Apply, Description: "Solve a problem from a scenario"},
		{ID: "correct_output", Name: "Correct Output", BloomLevel: Apply, Description: "Identify the correct output"},
	},
	Analyze: {
		{ID: "scenario_based", Name: "Scenario Based", BloomLevel: Analyze, Description: "Analyze a scenario"},
		{ID: "correct_output", Name: "Correct Output", BloomLevel: Analyze, Description: "Analyze the produced output"},
		{ID: "code_analysis", Name: "Code Analysis", BloomLevel: Analyze, Description: "Analyze source code"},
	},
	Evaluate: {
		{ID: "code_analysis", Name: "Code Analysis", BloomLevel: Evaluate, Description: "Evaluate and critique source code"},
	},
	Create: {},
}

// CanonicalQuestionType maps raw onto the name of a matching type for level.
// A raw value equal to an entry's id or name yields that entry's name; anything
// else is returned unchanged.
func CanonicalQuestionType(level BloomLevel, raw string) string {
	if raw == "" {
		return raw
	}
	for _, qt := range QuestionTypesByBloom[level] {
		if qt.ID == raw || qt.Name == raw {
			return qt.Name
		}
	}
	return raw
}
