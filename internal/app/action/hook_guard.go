package action

import (
	"context"

	"farmstead/internal/domain/farm"
)

const guardHookOwner = "guard_dog"

// GuardHooks returns the before-hooks that let a guard animal defend its
// owner's farm: when someone else touches a crop via harvest or steal, a
// present guard rolls its block chance (higher while fed) and short-circuits
// the pipeline with a Blocked result on success.
func GuardHooks() []Hook {
	return []Hook{
		{Owner: guardHookOwner, Action: farm.ActionSteal, Before: guardBefore},
		{Owner: guardHookOwner, Action: farm.ActionHarvest, Before: guardBefore},
	}
}

func guardBefore(ctx context.Context, uc UseCase, ac *ActionContext) (HookDecision, error) {
	obj := ac.View.Object
	if obj == nil || obj.OwnerID == ac.In.PlayerID {
		return Continue(), nil
	}

	guard, ok, err := findGuardAnimal(ctx, uc, obj.OwnerID)
	if err != nil {
		return Continue(), err
	}
	if !ok {
		return Continue(), nil
	}

	cfg, ok := uc.Catalog.Lookup(farm.KindAnimal, guard.Code)
	if !ok || cfg.Guard == nil {
		return Continue(), nil
	}
	chance := cfg.Guard.BlockChanceHungry
	if guard.State.Animal != nil && guard.State.Animal.Fed() {
		chance = cfg.Guard.BlockChanceFed
	}
	if uc.roll() >= chance {
		return Continue(), nil
	}

	ac.appendEvent("guard_blocked", map[string]any{
		"object_id": obj.ID,
		"owner_id":  obj.OwnerID,
		"verb":      string(ac.In.Req.Intent.Type),
	})
	return ShortCircuit(Result{
		Code:     farm.ResultBlocked,
		ObjectID: obj.ID,
		Detail:   "blocked by guard dog",
	}), nil
}

func findGuardAnimal(ctx context.Context, uc UseCase, ownerID string) (farm.Object, bool, error) {
	animals, err := uc.Objects.ListByOwnerKind(ctx, ownerID, farm.KindAnimal)
	if err != nil {
		return farm.Object{}, false, err
	}
	for _, animal := range animals {
		if cfg, ok := uc.Catalog.Lookup(farm.KindAnimal, animal.Code); ok && cfg.Guard != nil {
			return animal, true, nil
		}
	}
	return farm.Object{}, false, nil
}
