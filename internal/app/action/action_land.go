package action

import (
	"context"

	"farmstead/internal/domain/farm"
)

type plowHandler struct{ BaseHandler }

func (h plowHandler) Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error {
	if err := requireOwnedObject(ac, farm.KindPlot); err != nil {
		return err
	}
	if ac.View.Object.State.Plot != nil && ac.View.Object.State.Plot.Plowed {
		return ErrPlotAlreadyPlowed
	}
	if ac.View.Actor.Coins < uc.Catalog.Rules().PlowCost {
		return ErrInsufficientFunds
	}
	return nil
}

func (h plowHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	cost := uc.Catalog.Rules().PlowCost

	actor := ac.View.Actor
	actor.Coins -= cost
	ac.planActorSave(actor)

	obj := *ac.View.Object
	obj.State.Plot = &farm.PlotState{Plowed: true}
	ac.planObjectSave(obj)

	ac.appendEvent("plot_plowed", map[string]any{"object_id": obj.ID})
	ac.Tmp.Result = Result{Code: farm.ResultOK, ObjectID: obj.ID, Coins: -cost}
	return nil
}

type buyPlotHandler struct{ BaseHandler }

// Plot prices climb with every plot already owned.
func plotCost(base, owned int) int {
	return base * (owned + 1)
}

func (h buyPlotHandler) Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error {
	cfg, ok := uc.Catalog.Lookup(farm.KindPlot, "plot")
	if !ok {
		return ErrUnknownCode
	}
	owned, err := uc.Objects.ListByOwnerKind(ctx, ac.In.PlayerID, farm.KindPlot)
	if err != nil {
		return err
	}
	for _, plot := range owned {
		if plot.X == ac.In.Req.Intent.X && plot.Y == ac.In.Req.Intent.Y {
			return ErrPlotOccupied
		}
	}
	if ac.View.Actor.Coins < plotCost(cfg.BuyCost, len(owned)) {
		return ErrInsufficientFunds
	}
	return nil
}

func (h buyPlotHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	cfg, _ := uc.Catalog.Lookup(farm.KindPlot, "plot")
	owned, err := uc.Objects.ListByOwnerKind(ctx, ac.In.PlayerID, farm.KindPlot)
	if err != nil {
		return err
	}
	cost := plotCost(cfg.BuyCost, len(owned))

	actor := ac.View.Actor
	actor.Coins -= cost
	ac.planActorSave(actor)

	obj := farm.Object{
		ID:        ac.newObjectID(),
		OwnerID:   ac.In.PlayerID,
		Kind:      farm.KindPlot,
		Code:      "plot",
		X:         ac.In.Req.Intent.X,
		Y:         ac.In.Req.Intent.Y,
		CreatedAt: ac.In.NowAt,
		State:     farm.ObjectState{Plot: &farm.PlotState{}},
		Version:   1,
	}
	ac.Plan.CreateObject = &obj

	ac.appendEvent("plot_bought", map[string]any{"object_id": obj.ID, "cost": cost})
	ac.Tmp.Result = Result{Code: farm.ResultOK, ObjectID: obj.ID, Coins: -cost}
	return nil
}

// buyHandler purchases an animal or factory for coins and seeds its lifecycle:
// animals start hungry with their sickness timeline rolled at creation,
// factories start idle.
type buyHandler struct{ BaseHandler }

func (h buyHandler) lookup(uc UseCase, code string) (farm.ItemConfig, bool) {
	if cfg, ok := uc.Catalog.Lookup(farm.KindAnimal, code); ok {
		return cfg, true
	}
	return uc.Catalog.Lookup(farm.KindFactory, code)
}

func (h buyHandler) Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error {
	cfg, ok := h.lookup(uc, ac.In.Req.Intent.Code)
	if !ok {
		return ErrUnknownCode
	}
	if ac.View.Actor.Level < cfg.Level {
		return ErrLevelTooLow
	}
	if ac.View.Actor.Coins < cfg.BuyCost {
		return ErrInsufficientFunds
	}
	ac.View.Config = cfg
	ac.View.HasConfig = true
	return nil
}

func (h buyHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	cfg := ac.View.Config

	actor := ac.View.Actor
	actor.Coins -= cfg.BuyCost
	ac.planActorSave(actor)

	state := farm.ObjectState{}
	if cfg.Kind == farm.KindAnimal {
		state.Animal = &farm.AnimalState{Stage: farm.AnimalHungry}
	} else {
		state.Factory = &farm.FactoryState{}
	}
	obj := farm.Object{
		ID:        ac.newObjectID(),
		OwnerID:   ac.In.PlayerID,
		Kind:      cfg.Kind,
		Code:      cfg.Code,
		X:         ac.In.Req.Intent.X,
		Y:         ac.In.Req.Intent.Y,
		CreatedAt: ac.In.NowAt,
		State:     state,
		Version:   1,
	}
	ac.Plan.CreateObject = &obj
	ac.Plan.CreateCheckpoints = farm.GenerateCheckpoints(cfg, uc.roll)

	ac.appendEvent("object_bought", map[string]any{"object_id": obj.ID, "kind": string(cfg.Kind), "code": cfg.Code, "cost": cfg.BuyCost})
	ac.Tmp.Result = Result{Code: farm.ResultOK, ObjectID: obj.ID, Coins: -cfg.BuyCost}
	return nil
}
