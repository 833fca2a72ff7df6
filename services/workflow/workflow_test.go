package workflow

import (
	"encoding/json"
	"testing"
	"time"

	"servicesync/models"
)

func testInitial() State {
	return DefaultInitialState(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
}

func TestAddTimestampRecordsMilestone(t *testing.T) {
	c := NewContainer(testInitial())
	at := time.Date(2026, 3, 10, 7, 15, 0, 0, time.UTC)

	state := c.Dispatch(AddTimestamp{Key: models.TSKitchenExit, At: at})
	if state.Error != "" {
		t.Fatalf("unexpected error: %q", state.Error)
	}
	got, ok := state.SessionData.Timestamps[models.TSKitchenExit]
	if !ok || !got.Equal(at) {
		t.Fatalf("kitchenExit timestamp = %v, want %v", got, at)
	}
}

func TestAddTimestampIsImmutableOnceSet(t *testing.T) {
	c := NewContainer(testInitial())
	first := time.Date(2026, 3, 10, 7, 15, 0, 0, time.UTC)
	second := first.Add(10 * time.Minute)

	c.Dispatch(AddTimestamp{Key: models.TSKitchenExit, At: first})
	state := c.Dispatch(AddTimestamp{Key: models.TSKitchenExit, At: second})

	if state.Error == "" {
		t.Fatal("expected an error for a repeated timestamp key")
	}
	if got := state.SessionData.Timestamps[models.TSKitchenExit]; !got.Equal(first) {
		t.Fatalf("timestamp mutated to %v, want original %v", got, first)
	}
}

func TestAddTimestampRejectsUnknownKey(t *testing.T) {
	c := NewContainer(testInitial())
	state := c.Dispatch(AddTimestamp{Key: "lunchBreak", At: time.Now()})
	if state.Error == "" {
		t.Fatal("expected an error for an unknown timestamp key")
	}
	if len(state.SessionData.Timestamps) != 0 {
		t.Fatalf("ledger gained %d entries from a rejected key", len(state.SessionData.Timestamps))
	}
}

func TestLedgerOnlyGrows(t *testing.T) {
	c := NewContainer(testInitial())
	base := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	for i, key := range models.TimestampKeys {
		state := c.Dispatch(AddTimestamp{Key: key, At: base.Add(time.Duration(i) * time.Minute)})
		if state.Error != "" {
			t.Fatalf("dispatch %s: unexpected error %q", key, state.Error)
		}
		if len(state.SessionData.Timestamps) != i+1 {
			t.Fatalf("after %s: ledger has %d entries, want %d", key, len(state.SessionData.Timestamps), i+1)
		}
	}
}

func TestAddTimestampDerivesPerformance(t *testing.T) {
	c := NewContainer(testInitial())
	exit := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	c.Dispatch(AddTimestamp{Key: models.TSKitchenExit, At: exit})
	state := c.Dispatch(AddTimestamp{Key: models.TSWardArrival, At: exit.Add(6 * time.Minute)})

	if got := state.SessionData.Performance.TravelTime; got != 6*time.Minute {
		t.Fatalf("TravelTime = %v, want 6m", got)
	}
}

func TestUpdateMealDataRejectsOverServing(t *testing.T) {
	c := NewContainer(testInitial())
	served := 13 // initial count is 12
	state := c.Dispatch(UpdateMealData{Patch: MealPatch{Served: &served}})

	if state.Error == "" {
		t.Fatal("expected an error when served exceeds count")
	}
	if state.SessionData.MealData.Served != 0 {
		t.Fatalf("served = %d, want 0 after rejected update", state.SessionData.MealData.Served)
	}
}

func TestUpdateMealDataAcceptsValidCounts(t *testing.T) {
	c := NewContainer(testInitial())
	count, served := 20, 20
	mealType := models.MealLunch

	state := c.Dispatch(UpdateMealData{Patch: MealPatch{Type: &mealType, Count: &count, Served: &served}})
	if state.Error != "" {
		t.Fatalf("unexpected error: %q", state.Error)
	}
	md := state.SessionData.MealData
	if md.Type != models.MealLunch || md.Count != 20 || md.Served != 20 {
		t.Fatalf("meal data = %+v", md)
	}
}

func TestSetStepFollowsRequestedStep(t *testing.T) {
	c := NewContainer(testInitial())
	state := c.Dispatch(SetStep{Step: models.StepKitchenScan})
	if state.CurrentStep != models.StepKitchenScan {
		t.Fatalf("step = %s, want %s", state.CurrentStep, models.StepKitchenScan)
	}
	if !models.IsLegalTransition(models.StepLogin, models.StepKitchenScan) {
		t.Fatal("login -> kitchen-scan should be a legal transition")
	}
}

func TestResetSessionRestoresInitialStateExactly(t *testing.T) {
	initial := testInitial()
	c := NewContainer(initial)

	c.Dispatch(SetStep{Step: models.StepServiceProgress})
	c.Dispatch(AddTimestamp{Key: models.TSKitchenExit, At: time.Now()})
	served := 4
	c.Dispatch(UpdateMealData{Patch: MealPatch{Served: &served}})
	c.Dispatch(SetError{Err: "transient"})

	state := c.Dispatch(ResetSession{})

	wantJSON, err := json.Marshal(initial)
	if err != nil {
		t.Fatal(err)
	}
	gotJSON, err := json.Marshal(state)
	if err != nil {
		t.Fatal(err)
	}
	if string(gotJSON) != string(wantJSON) {
		t.Fatalf("reset state differs from initial:\n got  %s\n want %s", gotJSON, wantJSON)
	}
}

func TestStateReturnsIsolatedCopy(t *testing.T) {
	c := NewContainer(testInitial())
	c.Dispatch(AddTimestamp{Key: models.TSKitchenExit, At: time.Now()})

	snapshot := c.State()
	delete(snapshot.SessionData.Timestamps, models.TSKitchenExit)

	if _, ok := c.State().SessionData.Timestamps[models.TSKitchenExit]; !ok {
		t.Fatal("mutating a returned snapshot leaked into container state")
	}
}

func TestSetLoadingAndErrorRoundTrip(t *testing.T) {
	c := NewContainer(testInitial())

	state := c.Dispatch(SetLoading{Loading: true})
	if !state.IsLoading {
		t.Fatal("IsLoading should be true")
	}
	state = c.Dispatch(SetError{Err: "network down"})
	if state.Error != "network down" {
		t.Fatalf("error = %q", state.Error)
	}
	state = c.Dispatch(SetError{Err: ""})
	if state.Error != "" {
		t.Fatal("empty SetError should clear the error")
	}
}
