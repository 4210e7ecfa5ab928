package replay

import (
	"context"
	"errors"
	"strings"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

var ErrInvalidRequest = errors.New("invalid replay request")

// UseCase reads back a player's audit trail. Events are append-only and never
// interpreted by the engine; this is purely for inspection and support.
type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.PlayerID) == "" {
		return Response{}, ErrInvalidRequest
	}
	events, err := u.Events.ListByPlayerID(ctx, req.PlayerID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)

	summary := map[string]int{}
	for _, evt := range events {
		summary[evt.Type]++
	}
	return Response{Events: events, Summary: summary}, nil
}

func filterByTimeWindow(events []farm.DomainEvent, from, to int64) []farm.DomainEvent {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]farm.DomainEvent, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}
