package action

import (
	"context"
	"errors"
	"math/rand"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

func defaultRoll() float64 { return rand.Float64() }

func (ac *ActionContext) newObjectID() string {
	return "obj-" + ac.In.PlayerID + "-" + ac.In.IdempotencyKey
}

func (ac *ActionContext) elapsedSeconds() int {
	return int(ac.In.NowAt.Sub(ac.View.Object.CreatedAt).Seconds())
}

// planActorSave stages a versioned write of the acting player. The expected
// version is the one the state was loaded with; the saved copy bumps it.
func (ac *ActionContext) planActorSave(p farm.Player) {
	ac.Plan.ActorVersion = ac.View.Actor.Version
	p.Version = ac.View.Actor.Version + 1
	ac.Plan.SaveActor = &p
}

func (ac *ActionContext) planOwnerSave(p farm.Player) {
	ac.Plan.OwnerVersion = ac.View.Owner.Version
	p.Version = ac.View.Owner.Version + 1
	ac.Plan.SaveOwner = &p
}

func (ac *ActionContext) planObjectSave(obj farm.Object) {
	ac.Plan.ObjectVersion = ac.View.Object.Version
	obj.Version = ac.View.Object.Version + 1
	ac.Plan.SaveObject = &obj
}

func (ac *ActionContext) appendEvent(eventType string, payload map[string]any) {
	ac.Plan.Events = append(ac.Plan.Events, farm.DomainEvent{
		Type:       eventType,
		OccurredAt: ac.In.NowAt,
		Payload:    payload,
	})
}

func requireOwnedObject(ac *ActionContext, kind farm.Kind) error {
	if ac.View.Object == nil {
		return ports.ErrNotFound
	}
	if ac.View.Object.Kind != kind {
		return ErrInvalidActionParams
	}
	if ac.View.Object.OwnerID != ac.In.PlayerID {
		return ErrNotOwner
	}
	return nil
}

func requireNeighborObject(ctx context.Context, uc UseCase, ac *ActionContext, kind farm.Kind) error {
	if ac.View.Object == nil {
		return ports.ErrNotFound
	}
	if ac.View.Object.Kind != kind {
		return ErrInvalidActionParams
	}
	if ac.View.Object.OwnerID == ac.In.PlayerID {
		return ErrOwnObject
	}
	return requireNeighbors(ctx, uc, ac.In.PlayerID, ac.View.Object.OwnerID)
}

func requireNeighbors(ctx context.Context, uc UseCase, playerID, otherID string) error {
	if uc.Friends == nil {
		return nil
	}
	ok, err := uc.Friends.AreNeighbors(ctx, playerID, otherID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotNeighbors
	}
	return nil
}

// ensureDailyLimit rejects once the actor has hit the per-owner cap for this
// verb today. The count includes only already-logged actions, so the check
// runs before the plan logs the current one.
func ensureDailyLimit(ctx context.Context, uc UseCase, ac *ActionContext, verb farm.ActionType, limit int) error {
	count, err := uc.NeighborLog.CountOnDay(ctx, ac.In.PlayerID, ac.View.Object.OwnerID, verb, ac.In.NowAt)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return err
	}
	if count >= limit {
		return &DailyLimitError{Verb: verb, Limit: limit}
	}
	return nil
}

func (ac *ActionContext) planNeighborLog(verb farm.ActionType) {
	ac.Plan.NeighborLog = &ports.NeighborActionEntry{
		ActorID:    ac.In.PlayerID,
		OwnerID:    ac.View.Object.OwnerID,
		Verb:       verb,
		OccurredAt: ac.In.NowAt,
	}
}

// pendingCheckpoint finds the due unresolved checkpoint matching the wanted
// action tag, if any.
func pendingCheckpoint(ac *ActionContext, want farm.CheckpointAction) (farm.Checkpoint, bool) {
	elapsed := ac.elapsedSeconds()
	for _, cp := range ac.View.Checkpoints {
		if cp.Action != want || cp.Done() || cp.TimeOffset > elapsed {
			continue
		}
		if cp.HasDeadline() && elapsed > cp.Deadline {
			continue
		}
		return cp, true
	}
	return farm.Checkpoint{}, false
}
