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

type ObjectRepo struct {
	db *gorm.DB
}

func NewObjectRepo(db *gorm.DB) ObjectRepo {
	return ObjectRepo{db: db}
}

func (r ObjectRepo) GetByID(ctx context.Context, objectID string) (farm.Object, error) {
	var m model.GameObject
	if err := getDBFromCtx(ctx, r.db).Where("object_id = ?", objectID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return farm.Object{}, ports.ErrNotFound
		}
		return farm.Object{}, err
	}
	return objectFromModel(m)
}

func (r ObjectRepo) ListByOwner(ctx context.Context, ownerID string) ([]farm.Object, error) {
	var rows []model.GameObject
	if err := getDBFromCtx(ctx, r.db).Where("owner_id = ?", ownerID).Order("created_at ASC, object_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return objectsFromModels(rows)
}

func (r ObjectRepo) ListByOwnerKind(ctx context.Context, ownerID string, kind farm.Kind) ([]farm.Object, error) {
	var rows []model.GameObject
	err := getDBFromCtx(ctx, r.db).
		Where("owner_id = ? AND kind = ?", ownerID, string(kind)).
		Order("created_at ASC, object_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return objectsFromModels(rows)
}

func (r ObjectRepo) Create(ctx context.Context, obj farm.Object) error {
	m, err := objectToModel(obj)
	if err != nil {
		return err
	}
	return getDBFromCtx(ctx, r.db).Create(&m).Error
}

func (r ObjectRepo) SaveWithVersion(ctx context.Context, obj farm.Object, expectedVersion int64) error {
	state, err := json.Marshal(obj.State)
	if err != nil {
		return err
	}
	res := getDBFromCtx(ctx, r.db).Model(&model.GameObject{}).
		Where("object_id = ? AND version = ?", obj.ID, expectedVersion).
		Updates(map[string]any{
			"state":   state,
			"version": obj.Version,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r ObjectRepo) Delete(ctx context.Context, objectID string) error {
	res := getDBFromCtx(ctx, r.db).Where("object_id = ?", objectID).Delete(&model.GameObject{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func objectToModel(obj farm.Object) (model.GameObject, error) {
	state, err := json.Marshal(obj.State)
	if err != nil {
		return model.GameObject{}, err
	}
	return model.GameObject{
		ObjectID:  obj.ID,
		OwnerID:   obj.OwnerID,
		Kind:      string(obj.Kind),
		Code:      obj.Code,
		X:         int32(obj.X),
		Y:         int32(obj.Y),
		CreatedAt: obj.CreatedAt,
		State:     state,
		Version:   obj.Version,
	}, nil
}

func objectFromModel(m model.GameObject) (farm.Object, error) {
	obj := farm.Object{
		ID:        m.ObjectID,
		OwnerID:   m.OwnerID,
		Kind:      farm.Kind(m.Kind),
		Code:      m.Code,
		X:         int(m.X),
		Y:         int(m.Y),
		CreatedAt: m.CreatedAt,
		Version:   m.Version,
	}
	if len(m.State) > 0 {
		if err := json.Unmarshal(m.State, &obj.State); err != nil {
			return farm.Object{}, err
		}
	}
	return obj, nil
}

func objectsFromModels(rows []model.GameObject) ([]farm.Object, error) {
	out := make([]farm.Object, 0, len(rows))
	for _, m := range rows {
		obj, err := objectFromModel(m)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}
