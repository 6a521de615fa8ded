package fakers

import (
	"math/rand"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/teleshop-app/teleshop/app/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func UserFaker(db *gorm.DB) (*models.User, error) {
	user := &models.User{
		ID:         uuid.New().String(),
		TelegramID: rand.Int63n(900000000) + 100000000,
		FirstName:  faker.FirstName(),
		LastName:   faker.LastName(),
		Username:   faker.Username(),
		Role:       models.RoleCustomer,
	}
	if err := db.FirstOrCreate(user, "telegram_id = ?", user.TelegramID).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// AdminFaker seeds the platform admin with a bcrypt-hashed password.
func AdminFaker(db *gorm.DB, password string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		ID:        uuid.New().String(),
		FirstName: "Admin",
		Username:  "admin",
		Password:  string(hashed),
		Role:      models.RoleAdmin,
	}
	if err := db.FirstOrCreate(admin, "username = ? AND role = ?", "admin", models.RoleAdmin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}
