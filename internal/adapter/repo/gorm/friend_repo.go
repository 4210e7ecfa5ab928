package gormrepo

import (
	"context"

	"farmstead/internal/adapter/repo/gorm/model"

	"gorm.io/gorm"
)

// FriendRepo reads the friendship edge table. Rows are stored once per pair in
// either direction; the lookup checks both.
type FriendRepo struct {
	db *gorm.DB
}

func NewFriendRepo(db *gorm.DB) FriendRepo {
	return FriendRepo{db: db}
}

func (r FriendRepo) AreNeighbors(ctx context.Context, playerID, otherID string) (bool, error) {
	var count int64
	err := getDBFromCtx(ctx, r.db).Model(&model.Friend{}).
		Where("(player_id = ? AND friend_id = ?) OR (player_id = ? AND friend_id = ?)",
			playerID, otherID, otherID, playerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
