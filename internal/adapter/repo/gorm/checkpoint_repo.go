package gormrepo

import (
	"context"
	"time"

	"farmstead/internal/adapter/repo/gorm/model"
	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"

	"gorm.io/gorm"
)

type CheckpointRepo struct {
	db *gorm.DB
}

func NewCheckpointRepo(db *gorm.DB) CheckpointRepo {
	return CheckpointRepo{db: db}
}

func (r CheckpointRepo) ListByObjectID(ctx context.Context, objectID string) ([]farm.Checkpoint, error) {
	var rows []model.Checkpoint
	err := getDBFromCtx(ctx, r.db).
		Where("object_id = ?", objectID).
		Order("time_offset ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]farm.Checkpoint, 0, len(rows))
	for _, m := range rows {
		out = append(out, checkpointFromModel(m))
	}
	return out, nil
}

func (r CheckpointRepo) CreateBatch(ctx context.Context, objectID string, checkpoints []farm.Checkpoint) error {
	if len(checkpoints) == 0 {
		return nil
	}
	rows := make([]model.Checkpoint, 0, len(checkpoints))
	for _, cp := range checkpoints {
		cp.ObjectID = objectID
		rows = append(rows, checkpointToModel(cp))
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

func (r CheckpointRepo) Insert(ctx context.Context, checkpoint farm.Checkpoint) error {
	m := checkpointToModel(checkpoint)
	return getDBFromCtx(ctx, r.db).Create(&m).Error
}

func (r CheckpointRepo) MarkDone(ctx context.Context, checkpointID int64, doneBy string, doneAt time.Time) error {
	res := getDBFromCtx(ctx, r.db).Model(&model.Checkpoint{}).
		Where("id = ? AND done_at_unix = 0", checkpointID).
		Updates(map[string]any{
			"done_at_unix": doneAt.Unix(),
			"done_by":      doneBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r CheckpointRepo) DeleteByObjectID(ctx context.Context, objectID string) error {
	return getDBFromCtx(ctx, r.db).Where("object_id = ?", objectID).Delete(&model.Checkpoint{}).Error
}

func checkpointToModel(cp farm.Checkpoint) model.Checkpoint {
	return model.Checkpoint{
		ID:         cp.ID,
		ObjectID:   cp.ObjectID,
		TimeOffset: int32(cp.TimeOffset),
		Action:     string(cp.Action),
		Deadline:   int32(cp.Deadline),
		DoneAtUnix: cp.DoneAtUnix,
		DoneBy:     cp.DoneBy,
	}
}

func checkpointFromModel(m model.Checkpoint) farm.Checkpoint {
	return farm.Checkpoint{
		ID:         m.ID,
		ObjectID:   m.ObjectID,
		TimeOffset: int(m.TimeOffset),
		Action:     farm.CheckpointAction(m.Action),
		Deadline:   int(m.Deadline),
		DoneAtUnix: m.DoneAtUnix,
		DoneBy:     m.DoneBy,
	}
}
