package ports

import (
	"context"
	"time"

	"farmstead/internal/domain/farm"
)

type ObjectRepository interface {
	GetByID(ctx context.Context, objectID string) (farm.Object, error)
	ListByOwner(ctx context.Context, ownerID string) ([]farm.Object, error)
	ListByOwnerKind(ctx context.Context, ownerID string, kind farm.Kind) ([]farm.Object, error)
	Create(ctx context.Context, obj farm.Object) error
	// SaveWithVersion writes the object state iff the stored version still
	// matches; a lost race surfaces as ErrConflict.
	SaveWithVersion(ctx context.Context, obj farm.Object, expectedVersion int64) error
	Delete(ctx context.Context, objectID string) error
}

type CheckpointRepository interface {
	ListByObjectID(ctx context.Context, objectID string) ([]farm.Checkpoint, error)
	CreateBatch(ctx context.Context, objectID string, checkpoints []farm.Checkpoint) error
	Insert(ctx context.Context, checkpoint farm.Checkpoint) error
	MarkDone(ctx context.Context, checkpointID int64, doneBy string, doneAt time.Time) error
	DeleteByObjectID(ctx context.Context, objectID string) error
}

type PlayerRepository interface {
	GetByID(ctx context.Context, playerID string) (farm.Player, error)
	SaveWithVersion(ctx context.Context, player farm.Player, expectedVersion int64) error
}

// NeighborActionEntry is one actor-to-owner social action, logged for the rolling
// per-day limits (steal 3/day, throw_pest 2/day per neighbor).
type NeighborActionEntry struct {
	ActorID    string
	OwnerID    string
	Verb       farm.ActionType
	OccurredAt time.Time
}

type NeighborLogRepository interface {
	Log(ctx context.Context, entry NeighborActionEntry) error
	CountOnDay(ctx context.Context, actorID, ownerID string, verb farm.ActionType, day time.Time) (int, error)
}

type FriendRepository interface {
	AreNeighbors(ctx context.Context, playerID, otherID string) (bool, error)
}

type ActionResult struct {
	ResultCode farm.ResultCode
	Payload    map[string]any
}

type ActionExecutionRecord struct {
	PlayerID       string
	IdempotencyKey string
	Verb           string
	Result         ActionResult
	AppliedAt      time.Time
}

type ExecutionRepository interface {
	GetByIdempotencyKey(ctx context.Context, playerID, key string) (*ActionExecutionRecord, error)
	SaveExecution(ctx context.Context, execution ActionExecutionRecord) error
}

type EventRepository interface {
	Append(ctx context.Context, playerID string, events []farm.DomainEvent) error
	ListByPlayerID(ctx context.Context, playerID string, limit int) ([]farm.DomainEvent, error)
}
