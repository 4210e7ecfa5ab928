package action

import (
	"context"
	"fmt"
	"time"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

type ActionSpec struct {
	Type    farm.ActionType
	Handler ActionHandler
}

// ActionHandler is one verb. Precheck validates ownership, derived state and
// resources without mutating anything; Execute fills the write plan.
type ActionHandler interface {
	Precheck(ctx context.Context, uc UseCase, ac *ActionContext) error
	Execute(ctx context.Context, uc UseCase, ac *ActionContext) error
}

type BaseHandler struct{}

func (BaseHandler) Precheck(context.Context, UseCase, *ActionContext) error { return nil }
func (BaseHandler) Execute(context.Context, UseCase, *ActionContext) error  { return nil }

type ActionInput struct {
	Req            Request
	NowAt          time.Time
	PlayerID       string
	IdempotencyKey string
}

type ActionView struct {
	Spec        ActionSpec
	Hooks       []Hook
	Actor       farm.Player
	Object      *farm.Object
	Checkpoints []farm.Checkpoint
	Owner       *farm.Player
	Config      farm.ItemConfig
	HasConfig   bool
	Derived     farm.DerivedState
}

// ActionPlan collects every mutation the invocation wants; Persist applies it
// in one pass so a precheck failure never leaves partial writes behind.
type ActionPlan struct {
	SaveActor         *farm.Player
	ActorVersion      int64
	SaveOwner         *farm.Player
	OwnerVersion      int64
	SaveObject        *farm.Object
	ObjectVersion     int64
	CreateObject      *farm.Object
	CreateCheckpoints []farm.Checkpoint
	InsertCheckpoint  *farm.Checkpoint
	DoneCheckpointID  int64
	DeleteObjectID    string
	NeighborLog       *ports.NeighborActionEntry
	Events            []farm.DomainEvent
}

type ActionTmp struct {
	Result         Result
	ShortCircuited bool
}

type ActionContext struct {
	In   ActionInput
	View ActionView
	Plan ActionPlan
	Tmp  ActionTmp
}

func actionSpecs() []ActionSpec {
	return []ActionSpec{
		{Type: farm.ActionPlant, Handler: plantHandler{}},
		{Type: farm.ActionHarvest, Handler: harvestHandler{}},
		{Type: farm.ActionWater, Handler: checkpointActionHandler{action: farm.CheckpointWater}},
		{Type: farm.ActionRemovePest, Handler: checkpointActionHandler{action: farm.CheckpointRemovePest}},
		{Type: farm.ActionSteal, Handler: stealHandler{}},
		{Type: farm.ActionThrowPest, Handler: throwPestHandler{}},
		{Type: farm.ActionFeed, Handler: feedHandler{}},
		{Type: farm.ActionCollect, Handler: collectHandler{}},
		{Type: farm.ActionCure, Handler: checkpointActionHandler{action: farm.CheckpointCure}},
		{Type: farm.ActionStartProduction, Handler: startProductionHandler{}},
		{Type: farm.ActionCollectProduction, Handler: collectProductionHandler{}},
		{Type: farm.ActionPlow, Handler: plowHandler{}},
		{Type: farm.ActionBuyPlot, Handler: buyPlotHandler{}},
		{Type: farm.ActionBuy, Handler: buyHandler{}},
		{Type: farm.ActionLoan, Handler: bankHandler{op: bankLoan}},
		{Type: farm.ActionRepay, Handler: bankHandler{op: bankRepay}},
		{Type: farm.ActionDeposit, Handler: bankHandler{op: bankDeposit}},
		{Type: farm.ActionWithdraw, Handler: bankHandler{op: bankWithdraw}},
	}
}

func actionParamValidators() map[farm.ActionType]func(Intent) bool {
	requireObject := func(intent Intent) bool { return intent.ObjectID != "" }
	requireAmount := func(intent Intent) bool { return intent.Amount > 0 }
	return map[farm.ActionType]func(Intent) bool{
		farm.ActionPlant:             func(intent Intent) bool { return intent.Code != "" },
		farm.ActionHarvest:           requireObject,
		farm.ActionWater:             requireObject,
		farm.ActionRemovePest:        requireObject,
		farm.ActionSteal:             requireObject,
		farm.ActionThrowPest:         requireObject,
		farm.ActionFeed:              requireObject,
		farm.ActionCollect:           requireObject,
		farm.ActionCure:              requireObject,
		farm.ActionStartProduction:   func(intent Intent) bool { return intent.ObjectID != "" && intent.RecipeID != "" },
		farm.ActionCollectProduction: requireObject,
		farm.ActionPlow:              requireObject,
		farm.ActionBuyPlot:           func(Intent) bool { return true },
		farm.ActionBuy:               func(intent Intent) bool { return intent.Code != "" },
		farm.ActionLoan:              requireAmount,
		farm.ActionRepay:             requireAmount,
		farm.ActionDeposit:           requireAmount,
		farm.ActionWithdraw:          requireAmount,
	}
}

// Registry maps each verb to its handler and accumulates the cross-cutting
// hooks modules register against it. The whole action/hook graph is fixed at
// startup: RegisterHook is rejected after Finalize, and hook ordering is
// computed exactly once.
type Registry struct {
	specs     map[farm.ActionType]ActionSpec
	hooks     map[farm.ActionType][]Hook
	sorted    map[farm.ActionType][]Hook
	anomalies []string
	finalized bool
}

func NewRegistry() *Registry {
	r := &Registry{
		specs:  map[farm.ActionType]ActionSpec{},
		hooks:  map[farm.ActionType][]Hook{},
		sorted: map[farm.ActionType][]Hook{},
	}
	for _, spec := range actionSpecs() {
		r.specs[spec.Type] = spec
	}
	return r
}

func (r *Registry) RegisterHook(h Hook) error {
	if r.finalized {
		return fmt.Errorf("hook registry already finalized")
	}
	if _, ok := r.specs[h.Action]; !ok {
		return fmt.Errorf("hook %q targets unknown action %q", h.Owner, h.Action)
	}
	if h.Owner == "" {
		return fmt.Errorf("hook on %q needs an owner name", h.Action)
	}
	r.hooks[h.Action] = append(r.hooks[h.Action], h)
	return nil
}

// Finalize sorts every action's hooks by their declared constraints. A cyclic
// constraint set falls back to registration order; the returned anomaly list
// names the affected actions so wiring mistakes surface at startup.
func (r *Registry) Finalize() []string {
	if r.finalized {
		return r.anomalies
	}
	for actionType, hooks := range r.hooks {
		sorted, cyclic := sortHooks(hooks)
		r.sorted[actionType] = sorted
		if cyclic {
			r.anomalies = append(r.anomalies, fmt.Sprintf("hook constraint cycle on action %q, using registration order", actionType))
		}
	}
	r.finalized = true
	return r.anomalies
}

func (r *Registry) Spec(t farm.ActionType) (ActionSpec, bool) {
	spec, ok := r.specs[t]
	return spec, ok
}

func (r *Registry) Hooks(t farm.ActionType) []Hook {
	if r.finalized {
		return r.sorted[t]
	}
	return r.hooks[t]
}

// DefaultRegistry wires the built-in cross-cutting hooks and finalizes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, h := range GuardHooks() {
		if err := r.RegisterHook(h); err != nil {
			panic(err)
		}
	}
	r.Finalize()
	return r
}

func isSupportedActionType(t farm.ActionType) bool {
	_, ok := actionParamValidators()[t]
	return ok
}
