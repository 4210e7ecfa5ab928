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

type PlayerRepo struct {
	db *gorm.DB
}

func NewPlayerRepo(db *gorm.DB) PlayerRepo {
	return PlayerRepo{db: db}
}

func (r PlayerRepo) GetByID(ctx context.Context, playerID string) (farm.Player, error) {
	var m model.Player
	if err := getDBFromCtx(ctx, r.db).Where("player_id = ?", playerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return farm.Player{}, ports.ErrNotFound
		}
		return farm.Player{}, err
	}
	return playerFromModel(m)
}

func (r PlayerRepo) SaveWithVersion(ctx context.Context, player farm.Player, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)
	inventory, err := json.Marshal(player.Inventory)
	if err != nil {
		return err
	}

	if expectedVersion == 0 {
		m := model.Player{
			PlayerID:   player.ID,
			Coins:      int32(player.Coins),
			Experience: int32(player.Experience),
			Level:      int32(player.Level),
			Inventory:  inventory,
			Savings:    int32(player.Savings),
			Debt:       int32(player.Debt),
			Version:    player.Version,
			UpdatedAt:  player.UpdatedAt,
		}
		return db.Create(&m).Error
	}

	updates := map[string]any{
		"coins":      int32(player.Coins),
		"experience": int32(player.Experience),
		"level":      int32(player.Level),
		"inventory":  inventory,
		"savings":    int32(player.Savings),
		"debt":       int32(player.Debt),
		"version":    player.Version,
		"updated_at": player.UpdatedAt,
	}
	res := db.Model(&model.Player{}).
		Where("player_id = ? AND version = ?", player.ID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func playerFromModel(m model.Player) (farm.Player, error) {
	player := farm.Player{
		ID:         m.PlayerID,
		Coins:      int(m.Coins),
		Experience: int(m.Experience),
		Level:      int(m.Level),
		Savings:    int(m.Savings),
		Debt:       int(m.Debt),
		Version:    m.Version,
		UpdatedAt:  m.UpdatedAt,
	}
	if len(m.Inventory) > 0 {
		if err := json.Unmarshal(m.Inventory, &player.Inventory); err != nil {
			return farm.Player{}, err
		}
	}
	return player, nil
}
