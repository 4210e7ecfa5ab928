package gormrepo

import (
	"context"
	"encoding/json"
	"errors"

	"farmstead/internal/adapter/repo/gorm/model"
	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"

	"gorm.io/gorm"
)

type ActionExecutionRepo struct {
	db *gorm.DB
}

func NewActionExecutionRepo(db *gorm.DB) ActionExecutionRepo {
	return ActionExecutionRepo{db: db}
}

func (r ActionExecutionRepo) GetByIdempotencyKey(ctx context.Context, playerID, key string) (*ports.ActionExecutionRecord, error) {
	var m model.ActionExecution
	err := getDBFromCtx(ctx, r.db).
		Where("player_id = ? AND idempotency_key = ?", playerID, key).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}

	record := ports.ActionExecutionRecord{
		PlayerID:       m.PlayerID,
		IdempotencyKey: m.IdempotencyKey,
		Verb:           m.Verb,
		Result: ports.ActionResult{
			ResultCode: farm.ResultCode(m.ResultCode),
		},
		AppliedAt: m.AppliedAt,
	}
	if len(m.Payload) > 0 {
		if err := json.Unmarshal(m.Payload, &record.Result.Payload); err != nil {
			return nil, err
		}
	}
	return &record, nil
}

func (r ActionExecutionRepo) SaveExecution(ctx context.Context, execution ports.ActionExecutionRecord) error {
	payload, err := json.Marshal(execution.Result.Payload)
	if err != nil {
		return err
	}
	m := model.ActionExecution{
		PlayerID:       execution.PlayerID,
		IdempotencyKey: execution.IdempotencyKey,
		Verb:           execution.Verb,
		ResultCode:     string(execution.Result.ResultCode),
		Payload:        payload,
		AppliedAt:      execution.AppliedAt,
	}
	return getDBFromCtx(ctx, r.db).Create(&m).Error
}
