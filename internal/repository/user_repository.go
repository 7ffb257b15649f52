package repository

import (
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) ListUsernames(excludeUsername string) ([]string, error) {
	var usernames []string
	q := r.db.Model(&models.User{}).Order("username ASC")
	if excludeUsername != "" {
		q = q.Where("username <> ?", excludeUsername)
	}
	err := q.Pluck("username", &usernames).Error
	return usernames, err
}
