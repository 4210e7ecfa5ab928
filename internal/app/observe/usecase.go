package observe

import (
	"context"
	"errors"
	"strings"
	"time"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

var (
	ErrInvalidRequest = errors.New("invalid observe request")
	ErrNotNeighbors   = errors.New("players are not neighbors")
)

// UseCase lists a farm and derives the current lifecycle state of every
// object on it. Observation is strictly read-only: a withered crop stays in
// storage until an action touches it.
type UseCase struct {
	Objects     ports.ObjectRepository
	Checkpoints ports.CheckpointRepository
	Friends     ports.FriendRepository
	Catalog     *farm.Catalog
	Now         func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	viewerID := strings.TrimSpace(req.ViewerID)
	if viewerID == "" {
		return Response{}, ErrInvalidRequest
	}
	ownerID := strings.TrimSpace(req.OwnerID)
	if ownerID == "" {
		ownerID = viewerID
	}
	if ownerID != viewerID && u.Friends != nil {
		ok, err := u.Friends.AreNeighbors(ctx, viewerID, ownerID)
		if err != nil {
			return Response{}, err
		}
		if !ok {
			return Response{}, ErrNotNeighbors
		}
	}

	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn()

	rows, err := u.Objects.ListByOwner(ctx, ownerID)
	if err != nil {
		return Response{}, err
	}

	objects := make([]ObservedObject, 0, len(rows))
	for _, obj := range rows {
		cfg, ok := u.Catalog.Lookup(obj.Kind, obj.Code)
		if !ok {
			// rows for retired catalog codes stay out of the view
			continue
		}
		checkpoints, err := u.Checkpoints.ListByObjectID(ctx, obj.ID)
		if err != nil {
			return Response{}, err
		}
		objects = append(objects, ObservedObject{
			Object:  obj,
			Derived: farm.Derive(obj.CreatedAt, cfg, checkpoints, now),
		})
	}

	return Response{OwnerID: ownerID, Objects: objects, ServerTime: now}, nil
}
