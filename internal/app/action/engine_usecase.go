package action

import (
	"context"
	"errors"
	"time"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

var (
	ErrInvalidRequest      = errors.New("invalid action request")
	ErrInvalidActionParams = errors.New("invalid action params")
	ErrUnknownCode         = errors.New("unknown type code")
	ErrNotOwner            = errors.New("not the owner")
	ErrOwnObject           = errors.New("cannot target own object")
	ErrNotNeighbors        = errors.New("players are not neighbors")
	ErrLevelTooLow         = errors.New("player level too low")
	ErrNotReady            = errors.New("object not ready")
	ErrAlreadyRipe         = errors.New("object already ripe")
	ErrWithered            = errors.New("object withered")
	ErrNoPendingAction     = errors.New("no pending action of this kind")
	ErrAlreadyHasPest      = errors.New("object already has an active pest")
	ErrNothingToSteal      = errors.New("nothing left to steal")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInsufficientItems   = errors.New("insufficient items")
	ErrDailyLimitReached   = errors.New("daily limit reached")
	ErrPlotOccupied        = errors.New("position already occupied")
	ErrPlotNotPlowed       = errors.New("plot not plowed")
	ErrPlotAlreadyPlowed   = errors.New("plot already plowed")
	ErrUnknownRecipe       = errors.New("unknown recipe")
	ErrFactoryBusy         = errors.New("factory already producing")
)

// DailyLimitError wraps ErrDailyLimitReached with the cap that was hit.
type DailyLimitError struct {
	Verb  farm.ActionType
	Limit int
}

func (e *DailyLimitError) Error() string { return ErrDailyLimitReached.Error() }

func (e *DailyLimitError) Unwrap() error { return ErrDailyLimitReached }

// NotReadyError wraps ErrNotReady with the derived state at check time.
type NotReadyError struct {
	State farm.DerivedState
}

func (e *NotReadyError) Error() string { return ErrNotReady.Error() }

func (e *NotReadyError) Unwrap() error { return ErrNotReady }

type UseCase struct {
	TxManager   ports.TxManager
	Objects     ports.ObjectRepository
	Checkpoints ports.CheckpointRepository
	Players     ports.PlayerRepository
	NeighborLog ports.NeighborLogRepository
	Friends     ports.FriendRepository
	Executions  ports.ExecutionRepository
	Events      ports.EventRepository
	Registry    *Registry
	Catalog     *farm.Catalog
	Metrics     ports.ActionMetrics
	Now         func() time.Time
	Rand        func() float64
}

// Execute runs one action invocation: idempotent replay, context building,
// sorted before-hooks, the verb handler, sorted after-hooks, then a single
// persistence pass, all inside one storage transaction.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	ac, err := u.ValidateRequest(req)
	if err != nil {
		return Response{}, err
	}

	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	ac.In.NowAt = nowFn()

	var out Response
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		replay, ok, err := u.ReplayIdempotent(txCtx, &ac)
		if err != nil {
			return err
		}
		if ok {
			out = replay
			return nil
		}
		if err := u.ResolveSpec(&ac); err != nil {
			return err
		}
		if err := u.BuildContext(txCtx, &ac); err != nil {
			return err
		}
		stopped, err := u.RunBeforeHooks(txCtx, &ac)
		if err != nil {
			return err
		}
		if !stopped {
			if err := ac.View.Spec.Handler.Precheck(txCtx, u, &ac); err != nil {
				return err
			}
			if err := ac.View.Spec.Handler.Execute(txCtx, u, &ac); err != nil {
				return err
			}
			if err := u.RunAfterHooks(txCtx, &ac); err != nil {
				return err
			}
		}
		if err := u.Persist(txCtx, &ac); err != nil {
			return err
		}
		out = u.BuildResponse(&ac)
		return nil
	})
	if err != nil {
		if u.Metrics != nil {
			if errors.Is(err, ports.ErrConflict) {
				u.Metrics.RecordConflict()
			} else {
				u.Metrics.RecordFailure()
			}
		}
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordSuccess(out.Result.Code)
	}
	return out, nil
}

func (u UseCase) roll() float64 {
	if u.Rand != nil {
		return u.Rand()
	}
	return defaultRoll()
}
