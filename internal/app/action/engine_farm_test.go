package action

import (
	"errors"
	"testing"
	"time"

	"farmstead/internal/domain/farm"
)

func TestFeedAndCollectCycle(t *testing.T) {
	f := newFixture()
	f.seedPlayer(farm.Player{ID: "bob", Level: 2, Inventory: map[string]int{"wheat": 2}})
	f.seedObject(farm.Object{
		ID: "a1", OwnerID: "bob", Kind: farm.KindAnimal, Code: "cow",
		CreatedAt: f.now.Add(-time.Hour),
		State:     farm.ObjectState{Animal: &farm.AnimalState{Stage: farm.AnimalHungry}},
	})

	if err := doErr(f, "bob", "k0", Intent{Type: farm.ActionCollect, ObjectID: "a1"}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("collect hungry: %v", err)
	}

	do(t, f, "bob", "k1", Intent{Type: farm.ActionFeed, ObjectID: "a1"})
	animal := f.objects.byID["a1"].State.Animal
	if animal.Stage != farm.AnimalProducing || animal.ReadyAtUnix != f.now.Unix()+3600 {
		t.Fatalf("animal after feed = %+v", animal)
	}
	if f.players.byID["bob"].Inventory["wheat"] != 0 {
		t.Fatalf("feed not consumed: %+v", f.players.byID["bob"].Inventory)
	}

	if err := doErr(f, "bob", "k2", Intent{Type: farm.ActionFeed, ObjectID: "a1"}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("double feed: %v", err)
	}
	if err := doErr(f, "bob", "k3", Intent{Type: farm.ActionCollect, ObjectID: "a1"}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("collect too early: %v", err)
	}

	f.now = f.now.Add(3601 * time.Second)
	resp := do(t, f, "bob", "k4", Intent{Type: farm.ActionCollect, ObjectID: "a1"})
	if resp.Result.Gained["milk"] != 2 || resp.Result.Exp != 8 {
		t.Fatalf("collect = %+v", resp.Result)
	}
	animal = f.objects.byID["a1"].State.Animal
	if animal.Stage != farm.AnimalHungry || animal.ReadyAtUnix != 0 {
		t.Fatalf("animal after collect = %+v", animal)
	}
}

func TestFeedRequiresFeedCost(t *testing.T) {
	f := newFixture()
	f.seedPlayer(farm.Player{ID: "bob", Level: 2, Inventory: map[string]int{"wheat": 1}})
	f.seedObject(farm.Object{
		ID: "a1", OwnerID: "bob", Kind: farm.KindAnimal, Code: "cow",
		CreatedAt: f.now,
		State:     farm.ObjectState{Animal: &farm.AnimalState{Stage: farm.AnimalHungry}},
	})

	// cow needs 2 wheat
	if err := doErr(f, "bob", "k1", Intent{Type: farm.ActionFeed, ObjectID: "a1"}); !errors.Is(err, ErrInsufficientItems) {
		t.Fatalf("err = %v", err)
	}
}

func TestCureResolvesSicknessCheckpoint(t *testing.T) {
	f := newFixture()
	f.seedPlayer(farm.Player{ID: "bob", Level: 2})
	f.seedObject(farm.Object{
		ID: "a1", OwnerID: "bob", Kind: farm.KindAnimal, Code: "cow",
		CreatedAt: f.now.Add(-100 * time.Second),
		State:     farm.ObjectState{Animal: &farm.AnimalState{Stage: farm.AnimalHungry}},
	}, farm.Checkpoint{TimeOffset: 50, Action: farm.CheckpointCure, Deadline: 50 + farm.CureDeadlineSeconds})

	do(t, f, "bob", "k1", Intent{Type: farm.ActionCure, ObjectID: "a1"})
	if !f.checkpoints.byObject["a1"][0].Done() {
		t.Fatal("cure checkpoint not resolved")
	}
	if err := doErr(f, "bob", "k2", Intent{Type: farm.ActionCure, ObjectID: "a1"}); !errors.Is(err, ErrNoPendingAction) {
		t.Fatalf("second cure: %v", err)
	}
}

func TestFeedRollsSickness(t *testing.T) {
	f := newFixture()
	f.uc.Rand = func() float64 { return 0.01 } // below the cow's 0.05 sick chance
	f.seedPlayer(farm.Player{ID: "bob", Level: 2, Inventory: map[string]int{"wheat": 2}})
	f.seedObject(farm.Object{
		ID: "a1", OwnerID: "bob", Kind: farm.KindAnimal, Code: "cow",
		CreatedAt: f.now.Add(-100 * time.Second),
		State:     farm.ObjectState{Animal: &farm.AnimalState{Stage: farm.AnimalHungry}},
	})

	do(t, f, "bob", "k1", Intent{Type: farm.ActionFeed, ObjectID: "a1"})

	cps := f.checkpoints.byObject["a1"]
	if len(cps) != 1 || cps[0].Action != farm.CheckpointCure {
		t.Fatalf("checkpoints after sick feed = %+v", cps)
	}
	wantOffset := 100 + 3600/2
	if cps[0].TimeOffset != wantOffset || cps[0].Deadline != wantOffset+farm.CureDeadlineSeconds {
		t.Fatalf("sick checkpoint timing = %+v", cps[0])
	}
	sickLogged := false
	for _, e := range f.events.byPlayer["bob"] {
		if e.Type == "animal_fell_sick" {
			sickLogged = true
		}
	}
	if !sickLogged {
		t.Fatal("no animal_fell_sick event")
	}

	// once the sickness comes due the cure verb resolves it
	f.now = f.now.Add(1801 * time.Second)
	do(t, f, "bob", "k2", Intent{Type: farm.ActionCure, ObjectID: "a1"})
	if !f.checkpoints.byObject["a1"][0].Done() {
		t.Fatal("cure checkpoint not resolved")
	}
}

func TestFeedHealthyRollAddsNoCheckpoint(t *testing.T) {
	f := newFixture()
	f.seedPlayer(farm.Player{ID: "bob", Level: 2, Inventory: map[string]int{"wheat": 2}})
	f.seedObject(farm.Object{
		ID: "a1", OwnerID: "bob", Kind: farm.KindAnimal, Code: "cow",
		CreatedAt: f.now,
		State:     farm.ObjectState{Animal: &farm.AnimalState{Stage: farm.AnimalHungry}},
	})

	do(t, f, "bob", "k1", Intent{Type: farm.ActionFeed, ObjectID: "a1"})
	if cps := f.checkpoints.byObject["a1"]; len(cps) != 0 {
		t.Fatalf("unexpected checkpoints: %+v", cps)
	}
}

func TestCollectRejectsProductlessAnimal(t *testing.T) {
	f := newFixture()
	f.seedPlayer(farm.Player{ID: "bob", Level: 4})
	f.seedObject(farm.Object{
		ID: "d1", OwnerID: "bob", Kind: farm.KindAnimal, Code: "dog",
		CreatedAt: f.now.Add(-time.Hour),
		State:     farm.ObjectState{Animal: &farm.AnimalState{Stage: farm.AnimalProducing, ReadyAtUnix: f.now.Unix() - 1}},
	})

	if err := doErr(f, "bob", "k1", Intent{Type: farm.ActionCollect, ObjectID: "d1"}); !errors.Is(err, ErrInvalidActionParams) {
		t.Fatalf("collect on guard dog: %v", err)
	}
	if _, ok := f.players.byID["bob"].Inventory[""]; ok {
		t.Fatal("empty-string item credited")
	}
}

func TestFactoryProductionCycle(t *testing.T) {
	f := newFixture()
	f.seedPlayer(farm.Player{ID: "bob", Level: 3, Inventory: map[string]int{"wheat": 3}})
	f.seedObject(farm.Object{
		ID: "f1", OwnerID: "bob", Kind: farm.KindFactory, Code: "bakery",
		CreatedAt: f.now.Add(-time.Hour),
		State:     farm.ObjectState{Factory: &farm.FactoryState{}},
	})

	if err := doErr(f, "bob", "k0", Intent{Type: farm.ActionStartProduction, ObjectID: "f1", RecipeID: "cake"}); !errors.Is(err, ErrUnknownRecipe) {
		t.Fatalf("unknown recipe: %v", err)
	}

	do(t, f, "bob", "k1", Intent{Type: farm.ActionStartProduction, ObjectID: "f1", RecipeID: "bread"})
	factory := f.objects.byID["f1"].State.Factory
	if factory.Recipe != "bread" || factory.ReadyAtUnix != f.now.Unix()+1800 {
		t.Fatalf("factory after start = %+v", factory)
	}
	if f.players.byID["bob"].Inventory["wheat"] != 0 {
		t.Fatalf("inputs not consumed: %+v", f.players.byID["bob"].Inventory)
	}

	if err := doErr(f, "bob", "k2", Intent{Type: farm.ActionStartProduction, ObjectID: "f1", RecipeID: "bread"}); !errors.Is(err, ErrFactoryBusy) {
		t.Fatalf("busy factory: %v", err)
	}
	if err := doErr(f, "bob", "k3", Intent{Type: farm.ActionCollectProduction, ObjectID: "f1"}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("collect too early: %v", err)
	}

	f.now = f.now.Add(1801 * time.Second)
	resp := do(t, f, "bob", "k4", Intent{Type: farm.ActionCollectProduction, ObjectID: "f1"})
	if resp.Result.Gained["bread"] != 1 || resp.Result.Exp != 10 {
		t.Fatalf("collect = %+v", resp.Result)
	}
	if !f.objects.byID["f1"].State.Factory.Idle() {
		t.Fatal("factory not idle after collect")
	}
}

func TestPlowChargesOnce(t *testing.T) {
	f := newFixture()
	f.seedPlayer(farm.Player{ID: "alice", Level: 1, Coins: 15})
	f.seedObject(farm.Object{
		ID: "p1", OwnerID: "alice", Kind: farm.KindPlot, Code: "plot",
		CreatedAt: f.now, State: farm.ObjectState{Plot: &farm.PlotState{}},
	})

	resp := do(t, f, "alice", "k1", Intent{Type: farm.ActionPlow, ObjectID: "p1"})
	if resp.Result.Coins != -10 {
		t.Fatalf("result = %+v", resp.Result)
	}
	if !f.objects.byID["p1"].State.Plot.Plowed || f.players.byID["alice"].Coins != 5 {
		t.Fatal("plow not applied")
	}

	if err := doErr(f, "alice", "k2", Intent{Type: farm.ActionPlow, ObjectID: "p1"}); !errors.Is(err, ErrPlotAlreadyPlowed) {
		t.Fatalf("second plow: %v", err)
	}
	// 5 coins left, plowing costs 10
	f.seedObject(farm.Object{
		ID: "p2", OwnerID: "alice", Kind: farm.KindPlot, Code: "plot",
		CreatedAt: f.now, State: farm.ObjectState{Plot: &farm.PlotState{}},
	})
	if err := doErr(f, "alice", "k3", Intent{Type: farm.ActionPlow, ObjectID: "p2"}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("broke plow: %v", err)
	}
}

func TestBuyPlotPriceClimbsAndPositionsAreExclusive(t *testing.T) {
	f := newFixture()
	f.seedPlayer(farm.Player{ID: "alice", Level: 1, Coins: 250})
	f.seedObject(farm.Object{
		ID: "p1", OwnerID: "alice", Kind: farm.KindPlot, Code: "plot",
		X: 0, Y: 0, CreatedAt: f.now, State: farm.ObjectState{Plot: &farm.PlotState{}},
	})

	if err := doErr(f, "alice", "k1", Intent{Type: farm.ActionBuyPlot, X: 0, Y: 0}); !errors.Is(err, ErrPlotOccupied) {
		t.Fatalf("occupied position: %v", err)
	}

	// second plot costs base 100 doubled
	resp := do(t, f, "alice", "k2", Intent{Type: farm.ActionBuyPlot, X: 1, Y: 0})
	if resp.Result.Coins != -200 || f.players.byID["alice"].Coins != 50 {
		t.Fatalf("buy = %+v coins=%d", resp.Result, f.players.byID["alice"].Coins)
	}

	if err := doErr(f, "alice", "k3", Intent{Type: farm.ActionBuyPlot, X: 2, Y: 0}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("third plot: %v", err)
	}
}

func TestBuyAnimalAndFactory(t *testing.T) {
	f := newFixture()
	f.seedPlayer(farm.Player{ID: "alice", Level: 3, Coins: 1300})

	resp := do(t, f, "alice", "k1", Intent{Type: farm.ActionBuy, Code: "cow", X: 1, Y: 1})
	cow := f.objects.byID[resp.Result.ObjectID]
	if cow.Kind != farm.KindAnimal || cow.State.Animal.Stage != farm.AnimalHungry {
		t.Fatalf("cow = %+v", cow)
	}

	resp = do(t, f, "alice", "k2", Intent{Type: farm.ActionBuy, Code: "bakery", X: 2, Y: 1})
	bakery := f.objects.byID[resp.Result.ObjectID]
	if bakery.Kind != farm.KindFactory || !bakery.State.Factory.Idle() {
		t.Fatalf("bakery = %+v", bakery)
	}
	if f.players.byID["alice"].Coins != 100 {
		t.Fatalf("coins = %d", f.players.byID["alice"].Coins)
	}

	if err := doErr(f, "alice", "k3", Intent{Type: farm.ActionBuy, Code: "dog"}); !errors.Is(err, ErrLevelTooLow) {
		t.Fatalf("dog at level 3: %v", err)
	}
	if err := doErr(f, "alice", "k4", Intent{Type: farm.ActionBuy, Code: "dairy"}); !errors.Is(err, ErrLevelTooLow) {
		t.Fatalf("dairy at level 3: %v", err)
	}
	if err := doErr(f, "alice", "k5", Intent{Type: farm.ActionBuy, Code: "spaceship"}); !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("unknown code: %v", err)
	}
}

func TestBankVerbs(t *testing.T) {
	f := newFixture()
	f.seedPlayer(farm.Player{ID: "alice", Level: 1, Coins: 100})

	resp := do(t, f, "alice", "k1", Intent{Type: farm.ActionLoan, Amount: 200})
	if resp.Result.Coins != 300 {
		t.Fatalf("loan = %+v", resp.Result)
	}
	if p := f.players.byID["alice"]; p.Debt != 200 || p.Coins != 300 {
		t.Fatalf("after loan = %+v", p)
	}

	// the credit line is 5000 total
	if err := doErr(f, "alice", "k2", Intent{Type: farm.ActionLoan, Amount: 4900}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("over limit: %v", err)
	}

	do(t, f, "alice", "k3", Intent{Type: farm.ActionRepay, Amount: 150})
	if p := f.players.byID["alice"]; p.Debt != 50 || p.Coins != 150 {
		t.Fatalf("after repay = %+v", p)
	}

	do(t, f, "alice", "k4", Intent{Type: farm.ActionDeposit, Amount: 100})
	if p := f.players.byID["alice"]; p.Savings != 100 || p.Coins != 50 {
		t.Fatalf("after deposit = %+v", p)
	}

	if err := doErr(f, "alice", "k5", Intent{Type: farm.ActionWithdraw, Amount: 500}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("overdraw savings: %v", err)
	}
	do(t, f, "alice", "k6", Intent{Type: farm.ActionWithdraw, Amount: 100})
	if p := f.players.byID["alice"]; p.Savings != 0 || p.Coins != 150 {
		t.Fatalf("after withdraw = %+v", p)
	}

	if err := doErr(f, "alice", "k7", Intent{Type: farm.ActionLoan, Amount: 0}); !errors.Is(err, ErrInvalidActionParams) {
		t.Fatalf("zero amount: %v", err)
	}
}
