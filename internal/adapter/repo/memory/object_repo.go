package memory

import (
	"context"
	"sort"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

type ObjectRepo struct {
	store *Store
}

func NewObjectRepo(store *Store) ObjectRepo {
	return ObjectRepo{store: store}
}

func (r ObjectRepo) GetByID(_ context.Context, objectID string) (farm.Object, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	obj, ok := r.store.objects[objectID]
	if !ok {
		return farm.Object{}, ports.ErrNotFound
	}
	return obj, nil
}

func (r ObjectRepo) ListByOwner(_ context.Context, ownerID string) ([]farm.Object, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []farm.Object{}
	for _, obj := range r.store.objects {
		if obj.OwnerID == ownerID {
			out = append(out, obj)
		}
	}
	sortObjects(out)
	return out, nil
}

func (r ObjectRepo) ListByOwnerKind(ctx context.Context, ownerID string, kind farm.Kind) ([]farm.Object, error) {
	all, _ := r.ListByOwner(ctx, ownerID)
	out := []farm.Object{}
	for _, obj := range all {
		if obj.Kind == kind {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (r ObjectRepo) Create(_ context.Context, obj farm.Object) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.objects[obj.ID]; exists {
		return ports.ErrConflict
	}
	r.store.objects[obj.ID] = obj
	return nil
}

func (r ObjectRepo) SaveWithVersion(_ context.Context, obj farm.Object, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.objects[obj.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.objects[obj.ID] = obj
	return nil
}

func (r ObjectRepo) Delete(_ context.Context, objectID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.objects[objectID]; !ok {
		return ports.ErrNotFound
	}
	delete(r.store.objects, objectID)
	return nil
}

// map iteration order leaks into responses otherwise
func sortObjects(objects []farm.Object) {
	sort.Slice(objects, func(i, j int) bool {
		if objects[i].CreatedAt.Equal(objects[j].CreatedAt) {
			return objects[i].ID < objects[j].ID
		}
		return objects[i].CreatedAt.Before(objects[j].CreatedAt)
	})
}
