package action

import (
	"context"
	"errors"
	"strings"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

func (u UseCase) ValidateRequest(req Request) (ActionContext, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)

	if req.PlayerID == "" || req.IdempotencyKey == "" || !isSupportedActionType(req.Intent.Type) {
		return ActionContext{}, ErrInvalidRequest
	}
	if !actionParamValidators()[req.Intent.Type](req.Intent) {
		return ActionContext{}, ErrInvalidActionParams
	}

	return ActionContext{
		In: ActionInput{
			Req:            req,
			PlayerID:       req.PlayerID,
			IdempotencyKey: req.IdempotencyKey,
		},
	}, nil
}

func (u UseCase) ReplayIdempotent(ctx context.Context, ac *ActionContext) (Response, bool, error) {
	exec, err := u.Executions.GetByIdempotencyKey(ctx, ac.In.PlayerID, ac.In.IdempotencyKey)
	if err == nil && exec != nil {
		return Response{Result: resultFromExecution(*exec), Replayed: true}, true, nil
	}
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return Response{}, false, err
	}
	return Response{}, false, nil
}

func (u UseCase) ResolveSpec(ac *ActionContext) error {
	spec, ok := u.Registry.Spec(ac.In.Req.Intent.Type)
	if !ok {
		return ErrInvalidRequest
	}
	ac.View.Spec = spec
	ac.View.Hooks = u.Registry.Hooks(spec.Type)
	return nil
}

// BuildContext loads everything the hooks and handler read: the acting player,
// and, when the intent targets an object, that object with its checkpoint set,
// its config, its derived state and its owner.
func (u UseCase) BuildContext(ctx context.Context, ac *ActionContext) error {
	actor, err := u.Players.GetByID(ctx, ac.In.PlayerID)
	if err != nil {
		return err
	}
	ac.View.Actor = actor

	objectID := ac.In.Req.Intent.ObjectID
	if objectID == "" {
		return nil
	}

	obj, err := u.Objects.GetByID(ctx, objectID)
	if err != nil {
		return err
	}
	checkpoints, err := u.Checkpoints.ListByObjectID(ctx, objectID)
	if err != nil {
		return err
	}
	ac.View.Object = &obj
	ac.View.Checkpoints = checkpoints

	cfg, ok := u.Catalog.Lookup(obj.Kind, obj.Code)
	if !ok {
		return ErrUnknownCode
	}
	ac.View.Config = cfg
	ac.View.HasConfig = true
	ac.View.Derived = farm.Derive(obj.CreatedAt, cfg, checkpoints, ac.In.NowAt)

	if obj.OwnerID != ac.In.PlayerID {
		owner, err := u.Players.GetByID(ctx, obj.OwnerID)
		if err != nil {
			return err
		}
		ac.View.Owner = &owner
	}
	return nil
}

// RunBeforeHooks executes the sorted before-hooks. The first short-circuit
// decision stops the pipeline: later hooks and the handler never run and the
// hook's result becomes the invocation's result.
func (u UseCase) RunBeforeHooks(ctx context.Context, ac *ActionContext) (bool, error) {
	for _, h := range ac.View.Hooks {
		if h.Before == nil {
			continue
		}
		decision, err := h.Before(ctx, u, ac)
		if err != nil {
			return false, err
		}
		if result, stop := decision.ShortCircuits(); stop {
			ac.Tmp.Result = result
			ac.Tmp.ShortCircuited = true
			return true, nil
		}
	}
	return false, nil
}

// RunAfterHooks lets each sorted after-hook receive and replace the handler's
// result in turn.
func (u UseCase) RunAfterHooks(ctx context.Context, ac *ActionContext) error {
	for _, h := range ac.View.Hooks {
		if h.After == nil {
			continue
		}
		next, err := h.After(ctx, u, ac, ac.Tmp.Result)
		if err != nil {
			return err
		}
		ac.Tmp.Result = next
	}
	return nil
}

func (u UseCase) Persist(ctx context.Context, ac *ActionContext) error {
	if ac.Plan.SaveActor != nil {
		if err := u.Players.SaveWithVersion(ctx, *ac.Plan.SaveActor, ac.Plan.ActorVersion); err != nil {
			return err
		}
	}
	if ac.Plan.SaveOwner != nil {
		if err := u.Players.SaveWithVersion(ctx, *ac.Plan.SaveOwner, ac.Plan.OwnerVersion); err != nil {
			return err
		}
	}
	if ac.Plan.SaveObject != nil {
		if err := u.Objects.SaveWithVersion(ctx, *ac.Plan.SaveObject, ac.Plan.ObjectVersion); err != nil {
			return err
		}
	}
	if ac.Plan.CreateObject != nil {
		if err := u.Objects.Create(ctx, *ac.Plan.CreateObject); err != nil {
			return err
		}
		if len(ac.Plan.CreateCheckpoints) > 0 {
			if err := u.Checkpoints.CreateBatch(ctx, ac.Plan.CreateObject.ID, ac.Plan.CreateCheckpoints); err != nil {
				return err
			}
		}
	}
	if ac.Plan.InsertCheckpoint != nil {
		if err := u.Checkpoints.Insert(ctx, *ac.Plan.InsertCheckpoint); err != nil {
			return err
		}
	}
	if ac.Plan.DoneCheckpointID != 0 {
		if err := u.Checkpoints.MarkDone(ctx, ac.Plan.DoneCheckpointID, ac.In.PlayerID, ac.In.NowAt); err != nil {
			return err
		}
	}
	if ac.Plan.DeleteObjectID != "" {
		if err := u.Checkpoints.DeleteByObjectID(ctx, ac.Plan.DeleteObjectID); err != nil {
			return err
		}
		if err := u.Objects.Delete(ctx, ac.Plan.DeleteObjectID); err != nil {
			return err
		}
	}
	if ac.Plan.NeighborLog != nil {
		if err := u.NeighborLog.Log(ctx, *ac.Plan.NeighborLog); err != nil {
			return err
		}
	}
	if len(ac.Plan.Events) > 0 {
		for i := range ac.Plan.Events {
			if ac.Plan.Events[i].Payload == nil {
				ac.Plan.Events[i].Payload = map[string]any{}
			}
			ac.Plan.Events[i].Payload["player_id"] = ac.In.PlayerID
		}
		if err := u.Events.Append(ctx, ac.In.PlayerID, ac.Plan.Events); err != nil {
			return err
		}
	}

	exec := ports.ActionExecutionRecord{
		PlayerID:       ac.In.PlayerID,
		IdempotencyKey: ac.In.IdempotencyKey,
		Verb:           string(ac.In.Req.Intent.Type),
		Result: ports.ActionResult{
			ResultCode: ac.Tmp.Result.Code,
			Payload:    resultToPayload(ac.Tmp.Result),
		},
		AppliedAt: ac.In.NowAt,
	}
	return u.Executions.SaveExecution(ctx, exec)
}

func (u UseCase) BuildResponse(ac *ActionContext) Response {
	out := Response{Result: ac.Tmp.Result, Events: ac.Plan.Events}
	if ac.Plan.SaveActor != nil {
		actor := *ac.Plan.SaveActor
		out.Player = &actor
	}
	return out
}
