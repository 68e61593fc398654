package bootstrap

import (
	"log"

	"github.com/btlam02/gis-app/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Bridge{},
		&entity.BridgeSegment{},
	)
}

// SeedAdminUser creates the development admin account if it is missing. Only
// called when APP_ENV=development.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", "admin@example.com").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	fullName := "Administrator"
	adminUser := entity.User{
		Email:        "admin@example.com",
		FullName:     &fullName,
		Role:         entity.RoleAdmin,
		PasswordHash: string(hashedPasswordBytes),
		IsActive:     true,
		IsStaff:      true,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	log.Println("   Email: admin@example.com")
	log.Println("   Password: admin123")

	return nil
}
