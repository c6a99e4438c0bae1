package postgres

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"gorm.io/gorm"

	errors "github.com/frahmantamala/association-management/internal"
	userDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/user"
	"github.com/frahmantamala/association-management/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context, filter user.Filter) ([]*userDatamodel.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&userDatamodel.Profile{})

	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(COALESCE(nome, '')) LIKE ?", like, like)
	}
	if filter.Perfil != "" {
		query = query.Where("perfil = ?", filter.Perfil)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []*userDatamodel.Profile
	q := query.Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := q.Find(&profiles).Error
	return profiles, total, err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.Profile, error) {
	var p userDatamodel.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.Profile, error) {
	var p userDatamodel.Profile
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&p).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *UserRepository) Create(ctx context.Context, p *userDatamodel.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *UserRepository) Update(ctx context.Context, p *userDatamodel.Profile) error {
	p.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userDatamodel.Profile{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}
