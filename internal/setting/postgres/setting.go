package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	errors "github.com/frahmantamala/association-management/internal"
	settingDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/setting"
	"github.com/frahmantamala/association-management/internal/setting"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) setting.RepositoryAPI {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) GetAll(ctx context.Context) ([]*settingDatamodel.Setting, error) {
	var settings []*settingDatamodel.Setting
	err := r.db.WithContext(ctx).Order("categoria ASC").Order("chave ASC").Find(&settings).Error
	return settings, err
}

func (r *SettingRepository) GetByKey(ctx context.Context, key string) (*settingDatamodel.Setting, error) {
	var st settingDatamodel.Setting
	err := r.db.WithContext(ctx).Where("chave = ?", key).First(&st).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrSettingNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *SettingRepository) UpdateValue(ctx context.Context, key, value string) error {
	result := r.db.WithContext(ctx).Model(&settingDatamodel.Setting{}).
		Where("chave = ?", key).
		Updates(map[string]interface{}{
			"valor":      value,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrSettingNotFound
	}
	return nil
}

func (r *SettingRepository) CreateIfMissing(ctx context.Context, st *settingDatamodel.Setting) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "chave"}}, DoNothing: true}).
		Create(st)
	return result.RowsAffected > 0, result.Error
}
