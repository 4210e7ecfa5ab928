package gormrepo

import (
	"context"
	"time"

	"farmstead/internal/adapter/repo/gorm/model"
	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"

	"gorm.io/gorm"
)

type NeighborLogRepo struct {
	db *gorm.DB
}

func NewNeighborLogRepo(db *gorm.DB) NeighborLogRepo {
	return NeighborLogRepo{db: db}
}

func (r NeighborLogRepo) Log(ctx context.Context, entry ports.NeighborActionEntry) error {
	m := model.NeighborActionLog{
		ActorID:    entry.ActorID,
		OwnerID:    entry.OwnerID,
		Verb:       string(entry.Verb),
		OccurredAt: entry.OccurredAt,
	}
	return getDBFromCtx(ctx, r.db).Create(&m).Error
}

// CountOnDay counts the actor's logged actions of one verb against one owner
// within the UTC day containing the given instant.
func (r NeighborLogRepo) CountOnDay(ctx context.Context, actorID, ownerID string, verb farm.ActionType, day time.Time) (int, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int64
	err := getDBFromCtx(ctx, r.db).Model(&model.NeighborActionLog{}).
		Where("actor_id = ? AND owner_id = ? AND verb = ? AND occurred_at >= ? AND occurred_at < ?",
			actorID, ownerID, string(verb), dayStart, dayEnd).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
