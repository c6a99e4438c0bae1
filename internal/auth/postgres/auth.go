package postgres

import (
	"context"
	stderrors "errors"
	"strings"

	"gorm.io/gorm"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/auth"
	userDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*userDatamodel.Profile, error) {
	var profile userDatamodel.Profile
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&profile).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*userDatamodel.Profile, error) {
	var profile userDatamodel.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &profile, nil
}
