package action

import (
	"context"

	"farmstead/internal/domain/farm"
)

// Factories: idle → processing → ready → idle, driven by the recipe table in
// the catalog and a ready-at timestamp checked lazily on collect.

type startProductionHandler struct{ BaseHandler }

func (h startProductionHandler) Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error {
	if err := requireOwnedObject(ac, farm.KindFactory); err != nil {
		return err
	}
	factory := ac.View.Object.State.Factory
	if factory == nil || !factory.Idle() {
		return ErrFactoryBusy
	}
	recipe, ok := ac.View.Config.Recipe(ac.In.Req.Intent.RecipeID)
	if !ok {
		return ErrUnknownRecipe
	}
	if !ac.View.Actor.HasItems(recipe.Inputs) {
		return ErrInsufficientItems
	}
	return nil
}

func (h startProductionHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	recipe, _ := ac.View.Config.Recipe(ac.In.Req.Intent.RecipeID)

	actor := ac.View.Actor
	actor.ConsumeItems(recipe.Inputs)
	ac.planActorSave(actor)

	obj := *ac.View.Object
	factory := *obj.State.Factory
	factory.Recipe = recipe.ID
	factory.ReadyAtUnix = ac.In.NowAt.Unix() + int64(recipe.TimeSeconds)
	obj.State.Factory = &factory
	ac.planObjectSave(obj)

	ac.appendEvent("production_started", map[string]any{"object_id": obj.ID, "recipe": recipe.ID})
	ac.Tmp.Result = Result{Code: farm.ResultOK, ObjectID: obj.ID, Detail: recipe.ID}
	return nil
}

type collectProductionHandler struct{ BaseHandler }

func (h collectProductionHandler) Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error {
	if err := requireOwnedObject(ac, farm.KindFactory); err != nil {
		return err
	}
	factory := ac.View.Object.State.Factory
	if factory == nil || factory.Idle() {
		return &NotReadyError{State: ac.View.Derived}
	}
	if !factory.ProductionReady(ac.In.NowAt) {
		return &NotReadyError{State: ac.View.Derived}
	}
	if _, ok := ac.View.Config.Recipe(factory.Recipe); !ok {
		return ErrUnknownRecipe
	}
	return nil
}

func (h collectProductionHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	obj := *ac.View.Object
	recipe, _ := ac.View.Config.Recipe(obj.State.Factory.Recipe)

	factory := *obj.State.Factory
	factory.Recipe = ""
	factory.ReadyAtUnix = 0
	obj.State.Factory = &factory
	ac.planObjectSave(obj)

	actor := ac.View.Actor
	actor.AddItem(recipe.Output.Item, recipe.Output.Count)
	farm.GainExperience(&actor, recipe.Exp)
	ac.planActorSave(actor)

	ac.appendEvent("production_collected", map[string]any{
		"object_id": obj.ID,
		"recipe":    recipe.ID,
		"product":   recipe.Output.Item,
		"amount":    recipe.Output.Count,
	})
	ac.Tmp.Result = Result{
		Code:     farm.ResultOK,
		Gained:   map[string]int{recipe.Output.Item: recipe.Output.Count},
		Exp:      recipe.Exp,
		ObjectID: obj.ID,
	}
	return nil
}
