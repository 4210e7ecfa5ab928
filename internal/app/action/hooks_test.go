package action

import (
	"context"
	"strings"
	"testing"
	"time"

	"farmstead/internal/domain/farm"
)

func hookOwners(hooks []Hook) string {
	owners := make([]string, len(hooks))
	for i, h := range hooks {
		owners[i] = h.Owner
	}
	return strings.Join(owners, ",")
}

func TestSortHooksHonorsConstraints(t *testing.T) {
	hooks := []Hook{
		{Owner: "a", Action: farm.ActionSteal},
		{Owner: "b", Action: farm.ActionSteal, RunAfter: []string{"c"}},
		{Owner: "c", Action: farm.ActionSteal, RunBefore: []string{"a"}},
	}

	sorted, cyclic := sortHooks(hooks)
	if cyclic {
		t.Fatal("unexpected cycle")
	}
	if got := hookOwners(sorted); got != "c,a,b" {
		t.Fatalf("order = %s", got)
	}

	// same input sorts the same way every time
	for i := 0; i < 20; i++ {
		again, _ := sortHooks(hooks)
		if hookOwners(again) != "c,a,b" {
			t.Fatalf("unstable order on run %d: %s", i, hookOwners(again))
		}
	}
}

func TestSortHooksTiesKeepRegistrationOrder(t *testing.T) {
	hooks := []Hook{
		{Owner: "x", Action: farm.ActionSteal},
		{Owner: "y", Action: farm.ActionSteal},
		{Owner: "z", Action: farm.ActionSteal},
	}
	sorted, cyclic := sortHooks(hooks)
	if cyclic || hookOwners(sorted) != "x,y,z" {
		t.Fatalf("order = %s cyclic=%v", hookOwners(sorted), cyclic)
	}
}

func TestSortHooksIgnoresUnknownOwners(t *testing.T) {
	hooks := []Hook{
		{Owner: "a", Action: farm.ActionSteal, RunAfter: []string{"never-registered"}},
		{Owner: "b", Action: farm.ActionSteal},
	}
	sorted, cyclic := sortHooks(hooks)
	if cyclic || hookOwners(sorted) != "a,b" {
		t.Fatalf("order = %s cyclic=%v", hookOwners(sorted), cyclic)
	}
}

func TestSortHooksCycleFallsBackToRegistrationOrder(t *testing.T) {
	hooks := []Hook{
		{Owner: "a", Action: farm.ActionSteal, RunAfter: []string{"b"}},
		{Owner: "b", Action: farm.ActionSteal, RunAfter: []string{"a"}},
		{Owner: "c", Action: farm.ActionSteal},
	}
	sorted, cyclic := sortHooks(hooks)
	if !cyclic {
		t.Fatal("cycle not reported")
	}
	if hookOwners(sorted) != "a,b,c" {
		t.Fatalf("fallback order = %s", hookOwners(sorted))
	}
}

func TestRegistryRejectsLateAndBogusHooks(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterHook(Hook{Owner: "a", Action: "teleport"}); err == nil {
		t.Fatal("unknown action accepted")
	}
	if err := r.RegisterHook(Hook{Action: farm.ActionSteal}); err == nil {
		t.Fatal("unnamed hook accepted")
	}
	if err := r.RegisterHook(Hook{Owner: "a", Action: farm.ActionSteal}); err != nil {
		t.Fatalf("valid hook rejected: %v", err)
	}

	if anomalies := r.Finalize(); len(anomalies) != 0 {
		t.Fatalf("anomalies = %v", anomalies)
	}
	if err := r.RegisterHook(Hook{Owner: "b", Action: farm.ActionSteal}); err == nil {
		t.Fatal("post-finalize registration accepted")
	}
}

func TestRegistryReportsCycleAnomaly(t *testing.T) {
	r := NewRegistry()
	_ = r.RegisterHook(Hook{Owner: "a", Action: farm.ActionSteal, RunAfter: []string{"b"}})
	_ = r.RegisterHook(Hook{Owner: "b", Action: farm.ActionSteal, RunAfter: []string{"a"}})

	anomalies := r.Finalize()
	if len(anomalies) != 1 || !strings.Contains(anomalies[0], "steal") {
		t.Fatalf("anomalies = %v", anomalies)
	}
	if got := hookOwners(r.Hooks(farm.ActionSteal)); got != "a,b" {
		t.Fatalf("fallback hooks = %s", got)
	}
}

func TestAfterHooksChainResults(t *testing.T) {
	f := newFixture()
	f.seedPlayer(farm.Player{ID: "alice", Level: 1})
	f.readyCrop("c1", "alice", 6, 0)

	r := NewRegistry()
	_ = r.RegisterHook(Hook{
		Owner:  "tagger",
		Action: farm.ActionHarvest,
		After: func(_ context.Context, _ UseCase, _ *ActionContext, result Result) (Result, error) {
			result.Detail = "tagged"
			return result, nil
		},
	})
	_ = r.RegisterHook(Hook{
		Owner:    "retagger",
		Action:   farm.ActionHarvest,
		RunAfter: []string{"tagger"},
		After: func(_ context.Context, _ UseCase, _ *ActionContext, result Result) (Result, error) {
			result.Detail = result.Detail + "-twice"
			return result, nil
		},
	})
	r.Finalize()
	f.uc.Registry = r

	resp := do(t, f, "alice", "k1", Intent{Type: farm.ActionHarvest, ObjectID: "c1"})
	if resp.Result.Detail != "tagged-twice" {
		t.Fatalf("detail = %q", resp.Result.Detail)
	}
	if resp.Result.Gained["wheat"] != 6 {
		t.Fatalf("handler result lost: %+v", resp.Result)
	}
}

func seedGuardedFarm(f *fixture, fed bool) {
	f.seedPlayer(farm.Player{ID: "alice", Level: 1})
	f.seedPlayer(farm.Player{ID: "bob", Level: 4})
	f.befriend("alice", "bob")
	f.readyCrop("c1", "bob", 10, 0)

	dog := farm.ObjectState{Animal: &farm.AnimalState{Stage: farm.AnimalHungry}}
	if fed {
		dog.Animal.Stage = farm.AnimalProducing
		dog.Animal.ReadyAtUnix = f.now.Add(time.Hour).Unix()
	}
	f.seedObject(farm.Object{
		ID: "d1", OwnerID: "bob", Kind: farm.KindAnimal, Code: "dog",
		CreatedAt: f.now.Add(-time.Hour), State: dog,
	})
}

func TestFedGuardDogBlocksSteal(t *testing.T) {
	f := newFixture()
	seedGuardedFarm(f, true)
	// fed block chance is 0.9
	f.uc.Rand = func() float64 { return 0.5 }

	resp := do(t, f, "alice", "k1", Intent{Type: farm.ActionSteal, ObjectID: "c1"})
	if resp.Result.Code != farm.ResultBlocked || resp.Result.Detail != "blocked by guard dog" {
		t.Fatalf("result = %+v", resp.Result)
	}
	// the handler never ran: no loot, no stolen counter, no neighbor log
	if f.objects.byID["c1"].State.Crop.Stolen != 0 {
		t.Fatal("stolen counter moved")
	}
	if len(f.players.byID["alice"].Inventory) != 0 {
		t.Fatalf("thief looted: %+v", f.players.byID["alice"].Inventory)
	}
	if len(f.neighborLog.entries) != 0 {
		t.Fatal("blocked steal was logged")
	}

	// the blocked outcome is recorded and replays
	replay := do(t, f, "alice", "k1", Intent{Type: farm.ActionSteal, ObjectID: "c1"})
	if !replay.Replayed || replay.Result.Code != farm.ResultBlocked {
		t.Fatalf("replay = %+v", replay)
	}

	blocked := false
	for _, e := range f.events.byPlayer["alice"] {
		if e.Type == "guard_blocked" {
			blocked = true
		}
	}
	if !blocked {
		t.Fatal("guard_blocked event missing")
	}
}

func TestHungryGuardDogMissesLowRolls(t *testing.T) {
	f := newFixture()
	seedGuardedFarm(f, false)
	// hungry block chance is 0.4, a 0.5 draw slips through
	f.uc.Rand = func() float64 { return 0.5 }

	resp := do(t, f, "alice", "k1", Intent{Type: farm.ActionSteal, ObjectID: "c1"})
	if resp.Result.Code != farm.ResultOK || resp.Result.Stolen != 1 {
		t.Fatalf("result = %+v", resp.Result)
	}
}

func TestGuardDogNeverBlocksItsOwner(t *testing.T) {
	f := newFixture()
	seedGuardedFarm(f, true)
	f.uc.Rand = func() float64 { return 0.0 }

	resp := do(t, f, "bob", "k1", Intent{Type: farm.ActionHarvest, ObjectID: "c1"})
	if resp.Result.Code != farm.ResultOK || resp.Result.Gained["wheat"] != 10 {
		t.Fatalf("owner harvest = %+v", resp.Result)
	}
}
