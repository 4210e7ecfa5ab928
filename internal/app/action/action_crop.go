package action

import (
	"context"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

type plantHandler struct{ BaseHandler }

func (h plantHandler) Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error {
	intent := ac.In.Req.Intent
	cfg, ok := uc.Catalog.Lookup(farm.KindCrop, intent.Code)
	if !ok {
		return ErrUnknownCode
	}
	if ac.View.Actor.Level < cfg.Level {
		return ErrLevelTooLow
	}
	if ac.View.Actor.Inventory[cfg.SeedItem()] < 1 {
		return ErrInsufficientItems
	}
	if intent.PlotID != "" {
		plot, err := uc.Objects.GetByID(ctx, intent.PlotID)
		if err != nil {
			return err
		}
		if plot.Kind != farm.KindPlot || plot.OwnerID != ac.In.PlayerID {
			return ErrInvalidActionParams
		}
		if plot.State.Plot == nil || !plot.State.Plot.Plowed {
			return ErrPlotNotPlowed
		}
	}
	ac.View.Config = cfg
	ac.View.HasConfig = true
	return nil
}

func (h plantHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	cfg := ac.View.Config

	actor := ac.View.Actor
	actor.ConsumeItems([]farm.ItemCount{{Item: cfg.SeedItem(), Count: 1}})
	ac.planActorSave(actor)

	yield := cfg.YieldMin
	if span := cfg.YieldMax - cfg.YieldMin; span > 0 {
		yield += int(uc.roll() * float64(span+1))
		if yield > cfg.YieldMax {
			yield = cfg.YieldMax
		}
	}

	obj := farm.Object{
		ID:        ac.newObjectID(),
		OwnerID:   ac.In.PlayerID,
		Kind:      farm.KindCrop,
		Code:      cfg.Code,
		X:         ac.In.Req.Intent.X,
		Y:         ac.In.Req.Intent.Y,
		CreatedAt: ac.In.NowAt,
		State:     farm.ObjectState{Crop: &farm.CropState{Yield: yield, Stolen: 0}},
		Version:   1,
	}
	ac.Plan.CreateObject = &obj
	ac.Plan.CreateCheckpoints = farm.GenerateCheckpoints(cfg, uc.roll)

	ac.appendEvent("crop_planted", map[string]any{"object_id": obj.ID, "code": cfg.Code})
	ac.Tmp.Result = Result{Code: farm.ResultOK, ObjectID: obj.ID}
	return nil
}

type harvestHandler struct{ BaseHandler }

func (h harvestHandler) Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error {
	if err := requireOwnedObject(ac, farm.KindCrop); err != nil {
		return err
	}
	switch ac.View.Derived.Phase {
	case farm.PhaseReady, farm.PhaseWithered:
		return nil
	default:
		return &NotReadyError{State: ac.View.Derived}
	}
}

func (h harvestHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	obj := ac.View.Object

	// Lazy expiration: a withered crop is removed on touch with zero yield.
	if ac.View.Derived.Withered() {
		ac.Plan.DeleteObjectID = obj.ID
		ac.appendEvent("crop_withered", map[string]any{"object_id": obj.ID, "code": obj.Code})
		ac.Tmp.Result = Result{Code: farm.ResultOK, ObjectID: obj.ID, Detail: "withered"}
		return nil
	}

	crop := obj.State.Crop
	remaining := 0
	if crop != nil {
		remaining = crop.Yield - crop.Stolen
	}
	if remaining < 0 {
		remaining = 0
	}

	actor := ac.View.Actor
	actor.AddItem(obj.Code, remaining)
	farm.GainExperience(&actor, ac.View.Config.Exp)
	ac.planActorSave(actor)
	ac.Plan.DeleteObjectID = obj.ID

	ac.appendEvent("crop_harvested", map[string]any{"object_id": obj.ID, "code": obj.Code, "amount": remaining})
	ac.Tmp.Result = Result{
		Code:     farm.ResultOK,
		Gained:   map[string]int{obj.Code: remaining},
		Exp:      ac.View.Config.Exp,
		ObjectID: obj.ID,
	}
	return nil
}

// checkpointActionHandler resolves a pending scheduled event: water and
// remove_pest on crops, cure on animals. Neighbors may help and earn a small
// experience bonus for it.
type checkpointActionHandler struct {
	BaseHandler
	action farm.CheckpointAction
}

func (h checkpointActionHandler) kind() farm.Kind {
	if h.action == farm.CheckpointCure {
		return farm.KindAnimal
	}
	return farm.KindCrop
}

func (h checkpointActionHandler) bonusExp(rules farm.Rules) int {
	switch h.action {
	case farm.CheckpointWater:
		return rules.WaterBonusExp
	case farm.CheckpointRemovePest:
		return rules.PestBonusExp
	default:
		return rules.CureBonusExp
	}
}

func (h checkpointActionHandler) Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error {
	if ac.View.Object == nil {
		return ports.ErrNotFound
	}
	if ac.View.Object.Kind != h.kind() {
		return ErrInvalidActionParams
	}
	if ac.View.Object.OwnerID != ac.In.PlayerID {
		if err := requireNeighbors(ctx, uc, ac.In.PlayerID, ac.View.Object.OwnerID); err != nil {
			return err
		}
	}
	if ac.View.Derived.Withered() {
		return ErrWithered
	}
	if _, ok := pendingCheckpoint(ac, h.action); !ok {
		return ErrNoPendingAction
	}
	return nil
}

func (h checkpointActionHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	cp, _ := pendingCheckpoint(ac, h.action)
	ac.Plan.DoneCheckpointID = cp.ID

	bonus := 0
	if ac.View.Object.OwnerID != ac.In.PlayerID {
		bonus = h.bonusExp(uc.Catalog.Rules())
		actor := ac.View.Actor
		farm.GainExperience(&actor, bonus)
		ac.planActorSave(actor)
	}

	ac.appendEvent("checkpoint_resolved", map[string]any{
		"object_id": ac.View.Object.ID,
		"action":    string(h.action),
		"owner_id":  ac.View.Object.OwnerID,
	})
	ac.Tmp.Result = Result{Code: farm.ResultOK, ObjectID: ac.View.Object.ID, Exp: bonus}
	return nil
}

type stealHandler struct{ BaseHandler }

func (h stealHandler) Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error {
	if err := requireNeighborObject(ctx, uc, ac, farm.KindCrop); err != nil {
		return err
	}
	if ac.View.Derived.Withered() {
		return ErrWithered
	}
	if ac.View.Derived.Phase != farm.PhaseReady {
		return &NotReadyError{State: ac.View.Derived}
	}
	if err := ensureDailyLimit(ctx, uc, ac, farm.ActionSteal, uc.Catalog.Rules().StealDailyLimit); err != nil {
		return err
	}
	crop := ac.View.Object.State.Crop
	if crop == nil || crop.Stolen >= farm.MaxStealable(crop.Yield, ac.View.Config.StealPercent) {
		return ErrNothingToSteal
	}
	return nil
}

func (h stealHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	obj := *ac.View.Object
	crop := *obj.State.Crop
	crop.Stolen++
	obj.State.Crop = &crop
	ac.planObjectSave(obj)

	actor := ac.View.Actor
	actor.AddItem(obj.Code, 1)
	ac.planActorSave(actor)
	ac.planNeighborLog(farm.ActionSteal)

	ac.appendEvent("crop_stolen", map[string]any{
		"object_id": obj.ID,
		"code":      obj.Code,
		"owner_id":  obj.OwnerID,
		"stolen":    crop.Stolen,
	})
	ac.Tmp.Result = Result{
		Code:     farm.ResultOK,
		Gained:   map[string]int{obj.Code: 1},
		Stolen:   crop.Stolen,
		ObjectID: obj.ID,
	}
	return nil
}

type throwPestHandler struct{ BaseHandler }

func (h throwPestHandler) Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error {
	if err := requireNeighborObject(ctx, uc, ac, farm.KindCrop); err != nil {
		return err
	}
	switch ac.View.Derived.Phase {
	case farm.PhaseWithered:
		return ErrWithered
	case farm.PhaseReady:
		return ErrAlreadyRipe
	}
	if farm.HasActivePest(ac.View.Checkpoints, ac.View.Object.CreatedAt, ac.In.NowAt) {
		return ErrAlreadyHasPest
	}
	return ensureDailyLimit(ctx, uc, ac, farm.ActionThrowPest, uc.Catalog.Rules().PestDailyLimit)
}

func (h throwPestHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	cp := farm.PestCheckpoint(ac.View.Object.ID, ac.elapsedSeconds())
	ac.Plan.InsertCheckpoint = &cp
	ac.planNeighborLog(farm.ActionThrowPest)

	ac.appendEvent("pest_thrown", map[string]any{
		"object_id": ac.View.Object.ID,
		"owner_id":  ac.View.Object.OwnerID,
		"deadline":  cp.Deadline,
	})
	ac.Tmp.Result = Result{Code: farm.ResultOK, ObjectID: ac.View.Object.ID}
	return nil
}
