package repository

import (
	"strings"

	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	return r.db.Create(user).Error
}

func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	return r.findOne(r.db.Where("id = ?", id))
}

// FindByEmail matches case-insensitively; emails are stored lower-cased.
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	return r.findOne(r.db.Where("email = ?", normalizeEmail(email)))
}

// UpdateRole sets or clears (nil) the user's role. A missing user yields
// gorm.ErrRecordNotFound.
func (r *GormUserRepository) UpdateRole(id uint64, role *string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormUserRepository) findOne(query *gorm.DB) (*models.User, error) {
	var user models.User
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
