package repository

import (
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormScreenSessionRepository is a GORM implementation of ScreenSessionRepository
type GormScreenSessionRepository struct {
	db *gorm.DB
}

func NewScreenSessionRepository(db *gorm.DB) ScreenSessionRepository {
	return &GormScreenSessionRepository{db: db}
}

func (r *GormScreenSessionRepository) Create(session *models.ScreenSession) error {
	return r.db.Create(session).Error
}

func (r *GormScreenSessionRepository) FindByID(id string) (*models.ScreenSession, error) {
	var session models.ScreenSession
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormScreenSessionRepository) Update(session *models.ScreenSession) error {
	return r.db.Save(session).Error
}
