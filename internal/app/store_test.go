package app_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"question-bank/internal/app"
	"question-bank/internal/domain"
	"question-bank/internal/filter"
	"question-bank/internal/infra/memory"
	"question-bank/internal/normalize"
)

func TestLoadNormalizesCollection(t *testing.T) {
	store := app.NewStore(nil)
	src := memory.NewStaticSource("file-bank.json", []byte(`[{"number":1,"question":"Q1","options":["A1","A2"],"correct_answer":"A","bloom_level":"Remember"}]`))

	n, err := store.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	state := store.State()
	if n != 1 || len(state.AllQuestions) != 1 {
		t.Fatalf("expected one question, got n=%d state=%+v", n, state)
	}
	q := state.AllQuestions[0]
	if q.ID != "1" || q.CorrectAnswerID != "A" || len(q.Options) != 2 || q.Options[1].Text != "A2" {
		t.Fatalf("unexpected question %+v", q)
	}
	if state.CurrentQuestionIndex != 0 || state.IsLoading || state.Error != "" || state.Source != "file-bank.json" {
		t.Fatalf("unexpected state flags %+v", state)
	}
}

func TestLoadErrorClearsLists(t *testing.T) {
	store := newTestStore(t, 3, 2)
	src := memory.NewStaticSource("file-bad.json", []byte(`{"not":"an array"}`))

	_, err := store.Load(context.Background(), src)
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	state := store.State()
	if state.Error == "" || len(state.AllQuestions) != 0 || len(state.FilteredQuestions) != 0 {
		t.Fatalf("expected empty lists and an error, got %+v", state)
	}
	if state.IsLoading || state.CurrentQuestionIndex != -1 {
		t.Fatalf("expected settled state, got loading=%v index=%d", state.IsLoading, state.CurrentQuestionIndex)
	}
}

func TestLoadStartSetsLoadingFlag(t *testing.T) {
	store := app.NewStore(nil)
	updates, cancel := store.Subscribe()
	defer cancel()
	<-updates // initial snapshot

	src := memory.NewStaticSource("example-questions", []byte(`[]`))
	if _, err := store.Load(context.Background(), src); err != nil {
		t.Fatalf("load: %v", err)
	}
	started := <-updates
	if !started.IsLoading {
		t.Fatalf("expected loading snapshot first, got %+v", started)
	}
	done := <-updates
	if done.IsLoading || done.CurrentQuestionIndex != -1 {
		t.Fatalf("expected settled empty state, got %+v", done)
	}
}

func TestSetUserConfigFiltersAndResetsIndex(t *testing.T) {
	store := newTestStore(t, 3, 2)
	store.GoToQuestion(4)

	level := domain.Apply
	state := store.SetUserConfig(domain.ConfigPatch{BloomLevel: &level})
	if len(state.FilteredQuestions) != 3 || state.CurrentQuestionIndex != 0 {
		t.Fatalf("expected 3 Apply questions at index 0, got %d at %d", len(state.FilteredQuestions), state.CurrentQuestionIndex)
	}
	if state.UserConfig.NumQuestions != domain.DefaultNumQuestions {
		t.Fatalf("partial config must keep other fields, got %+v", state.UserConfig)
	}

	qType := "correct_output"
	state = store.SetUserConfig(domain.ConfigPatch{QuestionType: &qType})
	if state.UserConfig.QuestionType != "Correct Output" || len(state.FilteredQuestions) != 3 {
		t.Fatalf("expected type id canonicalized to its name, got %+v (%d)", state.UserConfig, len(state.FilteredQuestions))
	}

	none := domain.Create
	state = store.SetUserConfig(domain.ConfigPatch{BloomLevel: &none})
	if len(state.FilteredQuestions) != 0 || state.CurrentQuestionIndex != -1 {
		t.Fatalf("expected empty selection, got %+v", state)
	}
}

func TestDeleteCurrentLastQuestionClampsIndex(t *testing.T) {
	store := newTestStore(t, 3, 2)
	store.GoToQuestion(4)
	last, _ := store.CurrentQuestion()

	if err := store.Delete(last.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	state := store.State()
	if len(state.FilteredQuestions) != 4 || state.CurrentQuestionIndex != 3 {
		t.Fatalf("expected 4 questions at index 3, got %d at %d", len(state.FilteredQuestions), state.CurrentQuestionIndex)
	}
}

func TestDeleteCurrentMiddleQuestionKeepsIndex(t *testing.T) {
	store := newTestStore(t, 3, 2)
	store.GoToQuestion(1)
	current, _ := store.CurrentQuestion()

	_ = store.Delete(current.ID)
	state := store.State()
	if state.CurrentQuestionIndex != 1 || state.FilteredQuestions[1].ID == current.ID {
		t.Fatalf("expected index 1 on the next question, got %+v", state.CurrentQuestionIndex)
	}
}

func TestDeleteOtherQuestionFollowsSelection(t *testing.T) {
	store := newTestStore(t, 3, 2)
	store.GoToQuestion(3)
	current, _ := store.CurrentQuestion()
	first := store.State().FilteredQuestions[0]

	_ = store.Delete(first.ID)
	got, _ := store.CurrentQuestion()
	if got.ID != current.ID || store.State().CurrentQuestionIndex != 2 {
		t.Fatalf("expected selection to follow %s to index 2, got %s at %d", current.ID, got.ID, store.State().CurrentQuestionIndex)
	}
}

func TestRateUpdatesBothLists(t *testing.T) {
	store := newTestStore(t, 3, 2)
	level := domain.Apply
	store.SetUserConfig(domain.ConfigPatch{BloomLevel: &level})
	before := store.State().CurrentQuestionIndex

	if err := store.Rate("q1", 5); err != nil {
		t.Fatalf("rate: %v", err)
	}
	state := store.State()
	if q, _ := store.QuestionByID("q1"); q.Rating != 5 {
		t.Fatalf("expected rating 5 in all questions, got %d", q.Rating)
	}
	for _, q := range state.FilteredQuestions {
		if q.ID == "q1" && q.Rating != 5 {
			t.Fatalf("expected rating 5 in filtered questions, got %d", q.Rating)
		}
	}
	if state.CurrentQuestionIndex != before || len(state.FilteredQuestions) != 3 {
		t.Fatalf("rating must not move the selection")
	}
}

func TestUnknownIDIsReportedAndLeavesStateUntouched(t *testing.T) {
	store := newTestStore(t, 3, 2)
	store.GoToQuestion(2)
	before := store.State()

	for name, err := range map[string]error{
		"update": store.Update("missing", domain.Question{ID: "missing"}),
		"delete": store.Delete("missing"),
		"rate":   store.Rate("missing", 3),
	} {
		if !errors.Is(err, domain.ErrQuestionNotFound) {
			t.Fatalf("%s: expected not found, got %v", name, err)
		}
	}
	if _, err := store.Edit("missing", domain.Question{}); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("edit: expected not found, got %v", err)
	}
	after := store.State()
	if len(after.AllQuestions) != len(before.AllQuestions) || after.CurrentQuestionIndex != before.CurrentQuestionIndex {
		t.Fatalf("state changed on unknown id")
	}
}

func TestAddKeepsSelectionOrSelectsFirst(t *testing.T) {
	store := app.NewStore(nil)
	if store.State().CurrentQuestionIndex != -1 {
		t.Fatalf("empty store must have no selection")
	}

	q := store.AddRaw(normalize.RawQuestion{})
	state := store.State()
	if state.CurrentQuestionIndex != 0 || q.Number != 1 {
		t.Fatalf("expected first question selected, got index %d number %d", state.CurrentQuestionIndex, q.Number)
	}

	store.Add(domain.Question{ID: "b", BloomLevel: domain.Remember})
	store.NextQuestion()
	store.Add(domain.Question{ID: "c", BloomLevel: domain.Remember})
	if cur, _ := store.CurrentQuestion(); cur.ID != "b" {
		t.Fatalf("expected selection to stay on b, got %s", cur.ID)
	}
}

func TestUpdateFollowsSelectionOrFallsBack(t *testing.T) {
	store := newTestStore(t, 3, 2)
	level := domain.Apply
	store.SetUserConfig(domain.ConfigPatch{BloomLevel: &level})
	store.GoToQuestion(2)
	current, _ := store.CurrentQuestion()

	// Moving the selected question out of the filter falls back to index 0.
	moved := current
	moved.BloomLevel = domain.Remember
	if err := store.Update(current.ID, moved); err != nil {
		t.Fatalf("update: %v", err)
	}
	state := store.State()
	if len(state.FilteredQuestions) != 2 || state.CurrentQuestionIndex != 0 {
		t.Fatalf("expected fallback to index 0 of 2, got %d of %d", state.CurrentQuestionIndex, len(state.FilteredQuestions))
	}

	store.GoToQuestion(1)
	selected, _ := store.CurrentQuestion()
	changed := selected
	changed.Text = "reworded"
	_ = store.Update(selected.ID, changed)
	if cur, _ := store.CurrentQuestion(); cur.ID != selected.ID || cur.Text != "reworded" {
		t.Fatalf("expected selection to stay on updated question, got %+v", cur)
	}
}

func TestEditMarksHumanEdits(t *testing.T) {
	store := newTestStore(t, 1, 0)
	q, _ := store.QuestionByID("q1")

	same, err := store.Edit("q1", q)
	if err != nil || !same.GenByLLM {
		t.Fatalf("unchanged edit must keep provenance, got %v (%v)", same.GenByLLM, err)
	}
	q.Text = "clarified wording"
	edited, err := store.Edit("q1", q)
	if err != nil || edited.GenByLLM {
		t.Fatalf("changed edit must mark human edited, got %v (%v)", edited.GenByLLM, err)
	}
	if stored, _ := store.QuestionByID("q1"); stored.GenByLLM || stored.Text != "clarified wording" {
		t.Fatalf("unexpected stored question %+v", stored)
	}
}

func TestNavigationClamps(t *testing.T) {
	store := newTestStore(t, 2, 1)

	if s := store.PrevQuestion(); s.CurrentQuestionIndex != 0 {
		t.Fatalf("prev at start must stay, got %d", s.CurrentQuestionIndex)
	}
	store.NextQuestion()
	store.NextQuestion()
	if s := store.NextQuestion(); s.CurrentQuestionIndex != 2 {
		t.Fatalf("next at end must stay, got %d", s.CurrentQuestionIndex)
	}
	if s := store.GoToQuestion(7); s.CurrentQuestionIndex != 2 {
		t.Fatalf("out of range goto must be ignored, got %d", s.CurrentQuestionIndex)
	}
	if s := store.GoToQuestion(1); s.CurrentQuestionIndex != 1 {
		t.Fatalf("expected index 1, got %d", s.CurrentQuestionIndex)
	}
}

func TestQueries(t *testing.T) {
	store := newTestStore(t, 3, 2)
	levels := store.BloomLevels()
	if len(levels) != 2 || levels[0] != domain.Remember || levels[1] != domain.Apply {
		t.Fatalf("unexpected levels %v", levels)
	}
	if types := store.QuestionTypes(""); len(types) != 2 {
		t.Fatalf("expected two types present, got %v", types)
	}
	if _, ok := store.QuestionByID("nope"); ok {
		t.Fatalf("expected miss")
	}
}

func TestInvariantsHoldAcrossRandomOperations(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	store := newTestStore(t, 4, 4)
	levels := []domain.BloomLevel{"", domain.Apply, domain.Remember, domain.Create}
	next := 100

	for step := 0; step < 500; step++ {
		all := store.State().AllQuestions
		randomID := fmt.Sprintf("q%d", rnd.Intn(next))
		if len(all) > 0 && rnd.Intn(3) > 0 {
			randomID = all[rnd.Intn(len(all))].ID
		}

		switch rnd.Intn(8) {
		case 0:
			next++
			store.Add(domain.Question{ID: fmt.Sprintf("q%d", next), BloomLevel: levels[1+rnd.Intn(3)], QuestionType: "Correct Output"})
		case 1:
			_ = store.Update(randomID, domain.Question{ID: randomID, BloomLevel: levels[1+rnd.Intn(3)]})
		case 2:
			_ = store.Delete(randomID)
		case 3:
			_ = store.Rate(randomID, rnd.Intn(6))
		case 4:
			level := levels[rnd.Intn(len(levels))]
			store.SetUserConfig(domain.ConfigPatch{BloomLevel: &level})
		case 5:
			store.GoToQuestion(rnd.Intn(10) - 2)
		case 6:
			store.NextQuestion()
		case 7:
			store.PrevQuestion()
		}

		state := store.State()
		want := filter.Apply(state.AllQuestions, state.UserConfig)
		if len(want) != len(state.FilteredQuestions) {
			t.Fatalf("step %d: filtered list out of sync (%d vs %d)", step, len(want), len(state.FilteredQuestions))
		}
		for i := range want {
			if want[i].ID != state.FilteredQuestions[i].ID || want[i].Rating != state.FilteredQuestions[i].Rating {
				t.Fatalf("step %d: filtered list differs at %d", step, i)
			}
		}
		if len(state.FilteredQuestions) == 0 && state.CurrentQuestionIndex != -1 {
			t.Fatalf("step %d: expected -1 on empty list, got %d", step, state.CurrentQuestionIndex)
		}
		if len(state.FilteredQuestions) > 0 && (state.CurrentQuestionIndex < 0 || state.CurrentQuestionIndex >= len(state.FilteredQuestions)) {
			t.Fatalf("step %d: index %d out of range %d", step, state.CurrentQuestionIndex, len(state.FilteredQuestions))
		}
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	store := newTestStore(t, 2, 0)
	snap := store.State()
	snap.AllQuestions[0].Text = "mutated by caller"

	if q, _ := store.QuestionByID(snap.AllQuestions[0].ID); q.Text == "mutated by caller" {
		t.Fatalf("caller mutation leaked into the store")
	}
}

// newTestStore loads apply questions q1..qN with the "Correct Output" type
// followed by remember questions with the "Recall" type.
func newTestStore(t *testing.T, apply, remember int) *app.Store {
	t.Helper()
	body := "["
	for i := 1; i <= apply+remember; i++ {
		level, qType := "Apply", "correct_output"
		if i > apply {
			level, qType = "Remember", "recall"
		}
		if i > 1 {
			body += ","
		}
		body += fmt.Sprintf(`{"id":"q%d","question":"Question %d","options":["a","b"],"correct_answer":"A","bloom_level":%q,"question_type":%q}`, i, i, level, qType)
	}
	body += "]"

	clock := func() time.Time { return time.UnixMilli(0) }
	store := app.NewStoreWithClock(nil, clock)
	if _, err := store.Load(context.Background(), memory.NewStaticSource("test", []byte(body))); err != nil {
		t.Fatalf("load: %v", err)
	}
	return store
}
