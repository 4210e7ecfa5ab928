package gormrepo

import (
	"context"
	"encoding/json"

	"farmstead/internal/adapter/repo/gorm/model"
	"farmstead/internal/domain/farm"

	"gorm.io/gorm"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, playerID string, events []farm.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.DomainEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.DomainEvent{
			PlayerID:   playerID,
			Type:       e.Type,
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

func (r EventRepo) ListByPlayerID(ctx context.Context, playerID string, limit int) ([]farm.DomainEvent, error) {
	rows := []model.DomainEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where("player_id = ?", playerID).
		Order("occurred_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]farm.DomainEvent, 0, len(rows))
	for _, m := range rows {
		evt := farm.DomainEvent{
			Type:       m.Type,
			OccurredAt: m.OccurredAt,
		}
		if len(m.Payload) > 0 {
			if err := json.Unmarshal(m.Payload, &evt.Payload); err != nil {
				return nil, err
			}
		}
		out = append(out, evt)
	}
	return out, nil
}
