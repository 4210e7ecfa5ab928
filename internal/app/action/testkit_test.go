package action

import (
	"context"
	"time"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubPlayers struct {
	byID map[string]farm.Player
}

func (r *stubPlayers) GetByID(_ context.Context, playerID string) (farm.Player, error) {
	p, ok := r.byID[playerID]
	if !ok {
		return farm.Player{}, ports.ErrNotFound
	}
	return p, nil
}

func (r *stubPlayers) SaveWithVersion(_ context.Context, p farm.Player, expectedVersion int64) error {
	current, ok := r.byID[p.ID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.byID[p.ID] = p
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byID[p.ID] = p
	return nil
}

type stubObjects struct {
	byID map[string]farm.Object
}

func (r *stubObjects) GetByID(_ context.Context, objectID string) (farm.Object, error) {
	obj, ok := r.byID[objectID]
	if !ok {
		return farm.Object{}, ports.ErrNotFound
	}
	return obj, nil
}

func (r *stubObjects) ListByOwner(_ context.Context, ownerID string) ([]farm.Object, error) {
	out := []farm.Object{}
	for _, obj := range r.byID {
		if obj.OwnerID == ownerID {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (r *stubObjects) ListByOwnerKind(ctx context.Context, ownerID string, kind farm.Kind) ([]farm.Object, error) {
	all, _ := r.ListByOwner(ctx, ownerID)
	out := []farm.Object{}
	for _, obj := range all {
		if obj.Kind == kind {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (r *stubObjects) Create(_ context.Context, obj farm.Object) error {
	if _, exists := r.byID[obj.ID]; exists {
		return ports.ErrConflict
	}
	r.byID[obj.ID] = obj
	return nil
}

func (r *stubObjects) SaveWithVersion(_ context.Context, obj farm.Object, expectedVersion int64) error {
	current, ok := r.byID[obj.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byID[obj.ID] = obj
	return nil
}

func (r *stubObjects) Delete(_ context.Context, objectID string) error {
	if _, ok := r.byID[objectID]; !ok {
		return ports.ErrNotFound
	}
	delete(r.byID, objectID)
	return nil
}

type stubCheckpoints struct {
	byObject map[string][]farm.Checkpoint
	nextID   int64
}

func (r *stubCheckpoints) ListByObjectID(_ context.Context, objectID string) ([]farm.Checkpoint, error) {
	out := make([]farm.Checkpoint, len(r.byObject[objectID]))
	copy(out, r.byObject[objectID])
	return out, nil
}

func (r *stubCheckpoints) CreateBatch(_ context.Context, objectID string, cps []farm.Checkpoint) error {
	for _, cp := range cps {
		r.nextID++
		cp.ID = r.nextID
		cp.ObjectID = objectID
		r.byObject[objectID] = append(r.byObject[objectID], cp)
	}
	return nil
}

func (r *stubCheckpoints) Insert(_ context.Context, cp farm.Checkpoint) error {
	r.nextID++
	cp.ID = r.nextID
	r.byObject[cp.ObjectID] = append(r.byObject[cp.ObjectID], cp)
	return nil
}

func (r *stubCheckpoints) MarkDone(_ context.Context, checkpointID int64, doneBy string, doneAt time.Time) error {
	for objectID, cps := range r.byObject {
		for i := range cps {
			if cps[i].ID == checkpointID {
				cps[i].MarkDone(doneBy, doneAt)
				r.byObject[objectID] = cps
				return nil
			}
		}
	}
	return ports.ErrNotFound
}

func (r *stubCheckpoints) DeleteByObjectID(_ context.Context, objectID string) error {
	delete(r.byObject, objectID)
	return nil
}

type stubNeighborLog struct {
	entries []ports.NeighborActionEntry
}

func (r *stubNeighborLog) Log(_ context.Context, entry ports.NeighborActionEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubNeighborLog) CountOnDay(_ context.Context, actorID, ownerID string, verb farm.ActionType, day time.Time) (int, error) {
	count := 0
	for _, e := range r.entries {
		if e.ActorID == actorID && e.OwnerID == ownerID && e.Verb == verb &&
			e.OccurredAt.UTC().Truncate(24*time.Hour).Equal(day.UTC().Truncate(24*time.Hour)) {
			count++
		}
	}
	return count, nil
}

type stubFriends struct {
	pairs map[string]bool
}

func friendKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

func (r *stubFriends) AreNeighbors(_ context.Context, a, b string) (bool, error) {
	return r.pairs[friendKey(a, b)], nil
}

type stubExecutions struct {
	byKey map[string]ports.ActionExecutionRecord
}

func (r *stubExecutions) GetByIdempotencyKey(_ context.Context, playerID, key string) (*ports.ActionExecutionRecord, error) {
	exec, ok := r.byKey[playerID+"|"+key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := exec
	return &out, nil
}

func (r *stubExecutions) SaveExecution(_ context.Context, exec ports.ActionExecutionRecord) error {
	r.byKey[exec.PlayerID+"|"+exec.IdempotencyKey] = exec
	return nil
}

type stubEvents struct {
	byPlayer map[string][]farm.DomainEvent
}

func (r *stubEvents) Append(_ context.Context, playerID string, events []farm.DomainEvent) error {
	r.byPlayer[playerID] = append(r.byPlayer[playerID], events...)
	return nil
}

func (r *stubEvents) ListByPlayerID(_ context.Context, playerID string, limit int) ([]farm.DomainEvent, error) {
	events := r.byPlayer[playerID]
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	out := make([]farm.DomainEvent, len(events))
	copy(out, events)
	return out, nil
}

type fixture struct {
	players     *stubPlayers
	objects     *stubObjects
	checkpoints *stubCheckpoints
	neighborLog *stubNeighborLog
	friends     *stubFriends
	executions  *stubExecutions
	events      *stubEvents
	now         time.Time
	uc          UseCase
}

func newFixture() *fixture {
	f := &fixture{
		players:     &stubPlayers{byID: map[string]farm.Player{}},
		objects:     &stubObjects{byID: map[string]farm.Object{}},
		checkpoints: &stubCheckpoints{byObject: map[string][]farm.Checkpoint{}},
		neighborLog: &stubNeighborLog{},
		friends:     &stubFriends{pairs: map[string]bool{}},
		executions:  &stubExecutions{byKey: map[string]ports.ActionExecutionRecord{}},
		events:      &stubEvents{byPlayer: map[string][]farm.DomainEvent{}},
		now:         time.Unix(1_700_000_000, 0),
	}
	f.uc = UseCase{
		TxManager:   stubTxManager{},
		Objects:     f.objects,
		Checkpoints: f.checkpoints,
		Players:     f.players,
		NeighborLog: f.neighborLog,
		Friends:     f.friends,
		Executions:  f.executions,
		Events:      f.events,
		Registry:    DefaultRegistry(),
		Catalog:     farm.DefaultCatalog(),
		Now:         func() time.Time { return f.now },
		Rand:        func() float64 { return 0.99 },
	}
	return f
}

func (f *fixture) seedPlayer(p farm.Player) {
	if p.Version == 0 {
		p.Version = 1
	}
	f.players.byID[p.ID] = p
}

func (f *fixture) seedObject(obj farm.Object, cps ...farm.Checkpoint) {
	if obj.Version == 0 {
		obj.Version = 1
	}
	f.objects.byID[obj.ID] = obj
	for _, cp := range cps {
		cp.ObjectID = obj.ID
		f.checkpoints.nextID++
		if cp.ID == 0 {
			cp.ID = f.checkpoints.nextID
		}
		f.checkpoints.byObject[obj.ID] = append(f.checkpoints.byObject[obj.ID], cp)
	}
}

func (f *fixture) befriend(a, b string) {
	f.friends.pairs[friendKey(a, b)] = true
}

// readyCrop seeds a fully grown wheat crop owned by ownerID.
func (f *fixture) readyCrop(id, ownerID string, yield, stolen int) {
	cfg, _ := f.uc.Catalog.Lookup(farm.KindCrop, "wheat")
	createdAt := f.now.Add(-time.Duration(cfg.TotalStageTime()+10) * time.Second)
	f.seedObject(farm.Object{
		ID:        id,
		OwnerID:   ownerID,
		Kind:      farm.KindCrop,
		Code:      "wheat",
		CreatedAt: createdAt,
		State:     farm.ObjectState{Crop: &farm.CropState{Yield: yield, Stolen: stolen}},
	}, farm.Checkpoint{
		TimeOffset: cfg.TotalStageTime(),
		Action:     farm.CheckpointHarvest,
		Deadline:   cfg.TotalStageTime() + cfg.WitherTime,
	})
}
