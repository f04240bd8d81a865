package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/staffroom/logbook-api/internal/models"
	"github.com/staffroom/logbook-api/internal/rowmap"
)

// UserRepository persists staff profiles in the hosted users table.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, user models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user models.User) error {
	row := rowmap.UserToRow(user)
	return r.db.WithContext(ctx).Table("users").Create(&row).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	var rows []rowmap.Row
	err := r.db.WithContext(ctx).Table("users").Where("id = ?", id).Limit(1).Find(&rows).Error
	if err != nil {
		return models.User{}, err
	}
	if len(rows) == 0 {
		return models.User{}, ErrNotFound
	}
	return rowmap.UserFromRow(rows[0]), nil
}

// GetByEmail matches the email case-insensitively, mirroring the hosted
// store's lookup semantics.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var rows []rowmap.Row
	err := r.db.WithContext(ctx).Table("users").
		Where("LOWER(email) = LOWER(?)", email).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return models.User{}, err
	}
	if len(rows) == 0 {
		return models.User{}, ErrNotFound
	}
	return rowmap.UserFromRow(rows[0]), nil
}

func (r *userRepository) Update(ctx context.Context, user models.User) error {
	row := rowmap.UserToRow(user)
	delete(row, "id")

	result := r.db.WithContext(ctx).Table("users").Where("id = ?", user.ID).Updates(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
