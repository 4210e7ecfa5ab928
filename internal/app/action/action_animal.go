package action

import (
	"context"

	"farmstead/internal/domain/farm"
)

// Animals run a small explicit state machine on top of the shared deriver:
// hungry → producing (fed) → ready → hungry. Each feeding rolls the sickness
// chance once; a losing roll inserts a cure checkpoint that
// checkpointActionHandler resolves.

type feedHandler struct{ BaseHandler }

func (h feedHandler) Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error {
	if err := requireOwnedObject(ac, farm.KindAnimal); err != nil {
		return err
	}
	animal := ac.View.Object.State.Animal
	if animal == nil || animal.Stage != farm.AnimalHungry {
		return &NotReadyError{State: ac.View.Derived}
	}
	if !ac.View.Actor.HasItems(ac.View.Config.FeedCost) {
		return ErrInsufficientItems
	}
	return nil
}

func (h feedHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	cfg := ac.View.Config

	actor := ac.View.Actor
	actor.ConsumeItems(cfg.FeedCost)
	ac.planActorSave(actor)

	obj := *ac.View.Object
	animal := *obj.State.Animal
	animal.Stage = farm.AnimalProducing
	animal.ReadyAtUnix = ac.In.NowAt.Unix() + int64(cfg.ProduceInterval)
	obj.State.Animal = &animal
	ac.planObjectSave(obj)

	if cfg.SickChance > 0 && uc.roll() < cfg.SickChance {
		cp := farm.SickCheckpoint(obj.ID, ac.elapsedSeconds(), cfg.ProduceInterval)
		ac.Plan.InsertCheckpoint = &cp
		ac.appendEvent("animal_fell_sick", map[string]any{"object_id": obj.ID, "code": obj.Code})
	}

	ac.appendEvent("animal_fed", map[string]any{"object_id": obj.ID, "code": obj.Code})
	ac.Tmp.Result = Result{Code: farm.ResultOK, ObjectID: obj.ID}
	return nil
}

type collectHandler struct{ BaseHandler }

func (h collectHandler) Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error {
	if err := requireOwnedObject(ac, farm.KindAnimal); err != nil {
		return err
	}
	// Guard animals have no product; there is never anything to collect.
	if ac.View.Config.Product == "" {
		return ErrInvalidActionParams
	}
	animal := ac.View.Object.State.Animal
	if animal == nil || !animal.ProduceReady(ac.In.NowAt) {
		return &NotReadyError{State: ac.View.Derived}
	}
	return nil
}

func (h collectHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	cfg := ac.View.Config

	obj := *ac.View.Object
	animal := *obj.State.Animal
	animal.Stage = farm.AnimalHungry
	animal.ReadyAtUnix = 0
	obj.State.Animal = &animal
	ac.planObjectSave(obj)

	count := cfg.ProductCount
	if count <= 0 {
		count = 1
	}
	actor := ac.View.Actor
	actor.AddItem(cfg.Product, count)
	farm.GainExperience(&actor, cfg.Exp)
	ac.planActorSave(actor)

	ac.appendEvent("animal_collected", map[string]any{"object_id": obj.ID, "product": cfg.Product, "amount": count})
	ac.Tmp.Result = Result{
		Code:     farm.ResultOK,
		Gained:   map[string]int{cfg.Product: count},
		Exp:      cfg.Exp,
		ObjectID: obj.ID,
	}
	return nil
}
