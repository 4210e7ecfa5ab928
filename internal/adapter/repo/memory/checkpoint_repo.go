package memory

import (
	"context"
	"time"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

type CheckpointRepo struct {
	store *Store
}

func NewCheckpointRepo(store *Store) CheckpointRepo {
	return CheckpointRepo{store: store}
}

func (r CheckpointRepo) ListByObjectID(_ context.Context, objectID string) ([]farm.Checkpoint, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	src := r.store.checkpoints[objectID]
	out := make([]farm.Checkpoint, len(src))
	copy(out, src)
	return out, nil
}

func (r CheckpointRepo) CreateBatch(_ context.Context, objectID string, checkpoints []farm.Checkpoint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, cp := range checkpoints {
		r.store.nextCheckpointID++
		cp.ID = r.store.nextCheckpointID
		cp.ObjectID = objectID
		r.store.checkpoints[objectID] = append(r.store.checkpoints[objectID], cp)
	}
	return nil
}

func (r CheckpointRepo) Insert(_ context.Context, checkpoint farm.Checkpoint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextCheckpointID++
	checkpoint.ID = r.store.nextCheckpointID
	r.store.checkpoints[checkpoint.ObjectID] = append(r.store.checkpoints[checkpoint.ObjectID], checkpoint)
	return nil
}

func (r CheckpointRepo) MarkDone(_ context.Context, checkpointID int64, doneBy string, doneAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for objectID, cps := range r.store.checkpoints {
		for i := range cps {
			if cps[i].ID == checkpointID {
				cps[i].MarkDone(doneBy, doneAt)
				r.store.checkpoints[objectID] = cps
				return nil
			}
		}
	}
	return ports.ErrNotFound
}

func (r CheckpointRepo) DeleteByObjectID(_ context.Context, objectID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.checkpoints, objectID)
	return nil
}
