package app

import (
	"testing"

	"question-bank/internal/domain"
)

func TestInitialStateSource(t *testing.T) {
	empty := InitialState(nil)
	if empty.Source != "empty-default" || empty.CurrentQuestionIndex != -1 || empty.AllQuestions == nil {
		t.Fatalf("unexpected empty state %+v", empty)
	}
	seeded := InitialState([]domain.Question{{ID: "1"}})
	if seeded.Source != "initial" || seeded.CurrentQuestionIndex != 0 || len(seeded.FilteredQuestions) != 1 {
		t.Fatalf("unexpected seeded state %+v", seeded)
	}
	if seeded.UserConfig != domain.DefaultUserConfig() {
		t.Fatalf("expected default config, got %+v", seeded.UserConfig)
	}
}

func TestReduceDoesNotModifyPreviousState(t *testing.T) {
	before := InitialState([]domain.Question{{ID: "a"}, {ID: "b"}})

	after := Reduce(before, RateQuestion{ID: "a", Rating: 4})
	if before.AllQuestions[0].Rating != 0 || before.FilteredQuestions[0].Rating != 0 {
		t.Fatalf("rating leaked into the previous state")
	}
	if after.AllQuestions[0].Rating != 4 {
		t.Fatalf("expected rating 4, got %d", after.AllQuestions[0].Rating)
	}

	after = Reduce(before, DeleteQuestion{ID: "a"})
	if len(before.AllQuestions) != 2 || before.AllQuestions[0].ID != "a" {
		t.Fatalf("delete modified the previous state: %+v", before.AllQuestions)
	}
	if len(after.AllQuestions) != 1 || after.AllQuestions[0].ID != "b" {
		t.Fatalf("unexpected state after delete: %+v", after.AllQuestions)
	}
}

func TestReduceLoadStartKeepsQuestions(t *testing.T) {
	state := InitialState([]domain.Question{{ID: "a"}})
	state.Error = "old failure"

	state = Reduce(state, LoadStart{Source: "file-x.json"})
	if !state.IsLoading || state.Error != "" || len(state.AllQuestions) != 1 || state.Source != "file-x.json" {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestReduceUpdateOnEmptySelection(t *testing.T) {
	level := domain.Create
	state := Reduce(InitialState([]domain.Question{{ID: "a", BloomLevel: domain.Remember}}), SetUserConfig{Patch: domain.ConfigPatch{BloomLevel: &level}})
	if state.CurrentQuestionIndex != -1 {
		t.Fatalf("expected no selection, got %d", state.CurrentQuestionIndex)
	}

	state = Reduce(state, UpdateQuestion{ID: "a", Question: domain.Question{ID: "a", BloomLevel: domain.Create}})
	if len(state.FilteredQuestions) != 1 || state.CurrentQuestionIndex != 0 {
		t.Fatalf("expected the updated question selected, got %+v", state)
	}
}

func TestReduceGoToOnEmptyList(t *testing.T) {
	state := Reduce(InitialState(nil), GoToQuestion{Index: 0})
	if state.CurrentQuestionIndex != -1 {
		t.Fatalf("expected -1, got %d", state.CurrentQuestionIndex)
	}
	state = Reduce(state, NextQuestion{})
	state = Reduce(state, PrevQuestion{})
	if state.CurrentQuestionIndex != -1 {
		t.Fatalf("navigation on an empty list must keep -1, got %d", state.CurrentQuestionIndex)
	}
}

func TestFilterQuestionTypeWithoutLevelIsVerbatim(t *testing.T) {
	questions := []domain.Question{
		{ID: "a1", BloomLevel: domain.Apply, QuestionType: "Scenario Based"},
		{ID: "e1", BloomLevel: domain.Evaluate, QuestionType: "scenario_based"},
	}
	qType := "scenario_based"
	state := Reduce(InitialState(questions), SetUserConfig{Patch: domain.ConfigPatch{QuestionType: &qType}})

	if state.UserConfig.QuestionType != "scenario_based" {
		t.Fatalf("expected type merged as given, got %q", state.UserConfig.QuestionType)
	}
	if len(state.FilteredQuestions) != 1 || state.FilteredQuestions[0].ID != "e1" {
		t.Fatalf("expected e1 only, got %+v", state.FilteredQuestions)
	}
}

func TestFilterQuestionTypeWithLevel(t *testing.T) {
	cfg := domain.UserConfig{BloomLevel: domain.Remember, QuestionType: "recall"}
	if got := filterQuestionType(cfg); got != "Recall" {
		t.Fatalf("expected Recall, got %q", got)
	}
	cfg.QuestionType = "Something custom"
	if got := filterQuestionType(cfg); got != "Something custom" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
