package app

import (
	"slices"

	"question-bank/internal/domain"
	"question-bank/internal/filter"
)

// Action is a named state transition understood by Reduce.
type Action interface {
	actionName() string
}

type (
	LoadStart struct {
		Source string
	}
	LoadSuccess struct {
		Questions []domain.Question
		Source    string
	}
	LoadError struct {
		Err    string
		Source string
	}
	AddQuestion struct {
		Question domain.Question
	}
	UpdateQuestion struct {
		ID       string
		Question domain.Question
	}
	DeleteQuestion struct {
		ID string
	}
	RateQuestion struct {
		ID     string
		Rating int
	}
	SetUserConfig struct {
		Patch domain.ConfigPatch
	}
	GoToQuestion struct {
		Index int
	}
	NextQuestion struct{}
	PrevQuestion struct{}
)

func (LoadStart) actionName() string      { return "LOAD_QUESTIONS_START" }
func (LoadSuccess) actionName() string    { return "LOAD_QUESTIONS_SUCCESS" }
func (LoadError) actionName() string      { return "LOAD_QUESTIONS_ERROR" }
func (AddQuestion) actionName() string    { return "ADD_QUESTION" }
func (UpdateQuestion) actionName() string { return "UPDATE_QUESTION" }
func (DeleteQuestion) actionName() string { return "DELETE_QUESTION" }
func (RateQuestion) actionName() string   { return "RATE_QUESTION" }
func (SetUserConfig) actionName() string  { return "SET_USER_CONFIG" }
func (GoToQuestion) actionName() string   { return "GO_TO_QUESTION" }
func (NextQuestion) actionName() string   { return "NEXT_QUESTION" }
func (PrevQuestion) actionName() string   { return "PREV_QUESTION" }

// InitialState builds the state for a freshly constructed store.
func InitialState(questions []domain.Question) domain.QuestionState {
	all := make([]domain.Question, len(questions))
	copy(all, questions)
	cfg := domain.DefaultUserConfig()
	filtered := filter.Apply(all, cfg)
	source := "empty-default"
	if len(all) > 0 {
		source = "initial"
	}
	return domain.QuestionState{
		AllQuestions:         all,
		FilteredQuestions:    filtered,
		CurrentQuestionIndex: firstIndex(filtered),
		UserConfig:           cfg,
		Source:               source,
	}
}

// Reduce applies a single action and returns the next state. It never
// modifies the slices of the incoming state, so earlier snapshots stay valid.
// Whenever the lists change, FilteredQuestions is recomputed from
// AllQuestions and the index is left at -1 or inside FilteredQuestions.
func Reduce(state domain.QuestionState, action Action) domain.QuestionState {
	switch a := action.(type) {
	case LoadStart:
		state.IsLoading = true
		state.Error = ""
		state.Source = a.Source
		return state

	case LoadSuccess:
		all := slices.Clone(a.Questions)
		filtered := filter.Apply(all, state.UserConfig)
		state.AllQuestions = all
		state.FilteredQuestions = filtered
		state.CurrentQuestionIndex = firstIndex(filtered)
		state.IsLoading = false
		state.Error = ""
		state.Source = a.Source
		return state

	case LoadError:
		state.AllQuestions = []domain.Question{}
		state.FilteredQuestions = []domain.Question{}
		state.CurrentQuestionIndex = -1
		state.IsLoading = false
		state.Error = a.Err
		state.Source = a.Source
		return state

	case AddQuestion:
		all := append(slices.Clone(state.AllQuestions), a.Question)
		filtered := filter.Apply(all, state.UserConfig)

		index := state.CurrentQuestionIndex
		currentID, selected := selectedID(state)
		found := -1
		if selected {
			found = indexOf(filtered, currentID)
		}
		switch {
		case found != -1:
			index = found
		case len(filtered) > 0 && state.CurrentQuestionIndex == -1:
			index = 0
		case len(filtered) == 0:
			index = -1
		}
		return settle(state, all, filtered, index)

	case UpdateQuestion:
		all := slices.Clone(state.AllQuestions)
		for i := range all {
			if all[i].ID == a.ID {
				all[i] = a.Question
			}
		}
		filtered := filter.Apply(all, state.UserConfig)

		index := -1
		if len(filtered) > 0 {
			index = 0
			if currentID, ok := selectedID(state); ok {
				if found := indexOf(filtered, currentID); found != -1 {
					index = found
				}
			}
		}
		return settle(state, all, filtered, index)

	case DeleteQuestion:
		all := slices.DeleteFunc(slices.Clone(state.AllQuestions), func(q domain.Question) bool {
			return q.ID == a.ID
		})
		filtered := filter.Apply(all, state.UserConfig)

		index := -1
		if len(filtered) > 0 {
			currentID, selected := selectedID(state)
			switch {
			case selected && currentID == a.ID:
				index = min(state.CurrentQuestionIndex, len(filtered)-1)
			case selected:
				index = 0
				if found := indexOf(filtered, currentID); found != -1 {
					index = found
				}
			default:
				index = 0
			}
		}
		return settle(state, all, filtered, index)

	case RateQuestion:
		state.AllQuestions = rated(state.AllQuestions, a.ID, a.Rating)
		state.FilteredQuestions = rated(state.FilteredQuestions, a.ID, a.Rating)
		return state

	case SetUserConfig:
		cfg := a.Patch.Merge(state.UserConfig)
		cfg.QuestionType = filterQuestionType(cfg)
		filtered := filter.Apply(state.AllQuestions, cfg)
		state.UserConfig = cfg
		state.FilteredQuestions = filtered
		state.CurrentQuestionIndex = firstIndex(filtered)
		return state

	case GoToQuestion:
		if a.Index >= 0 && a.Index < len(state.FilteredQuestions) {
			state.CurrentQuestionIndex = a.Index
		} else if len(state.FilteredQuestions) == 0 {
			state.CurrentQuestionIndex = -1
		}
		return state

	case NextQuestion:
		if state.CurrentQuestionIndex < len(state.FilteredQuestions)-1 {
			state.CurrentQuestionIndex++
		}
		return state

	case PrevQuestion:
		if state.CurrentQuestionIndex > 0 {
			state.CurrentQuestionIndex--
		}
		return state
	}
	return state
}

// settle installs new lists and an index, keeping the index inside the
// filtered list.
func settle(state domain.QuestionState, all, filtered []domain.Question, index int) domain.QuestionState {
	switch {
	case len(filtered) == 0:
		index = -1
	case index < 0 || index >= len(filtered):
		index = 0
	}
	state.AllQuestions = all
	state.FilteredQuestions = filtered
	state.CurrentQuestionIndex = index
	return state
}

// filterQuestionType canonicalizes a configured type id to its table name for
// the configured level so it compares equal to normalized questions. Without
// a level the id can name types of several levels, so it is kept verbatim.
func filterQuestionType(cfg domain.UserConfig) string {
	if cfg.QuestionType == "" || cfg.BloomLevel == "" {
		return cfg.QuestionType
	}
	return domain.CanonicalQuestionType(cfg.BloomLevel, cfg.QuestionType)
}

func rated(questions []domain.Question, id string, rating int) []domain.Question {
	if indexOf(questions, id) == -1 {
		return questions
	}
	out := slices.Clone(questions)
	for i := range out {
		if out[i].ID == id {
			out[i] = out[i].WithRating(rating)
		}
	}
	return out
}

func selectedID(state domain.QuestionState) (string, bool) {
	q, ok := state.Current()
	if !ok {
		return "", false
	}
	return q.ID, true
}

func indexOf(questions []domain.Question, id string) int {
	return slices.IndexFunc(questions, func(q domain.Question) bool { return q.ID == id })
}

func firstIndex(questions []domain.Question) int {
	if len(questions) == 0 {
		return -1
	}
	return 0
}
