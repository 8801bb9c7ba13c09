package seeds

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	userModel "sekolahku_backend/internals/features/users/model"
)

// SeedAdminUser creates the back-office operator account from env
// (ADMIN_USERNAME / ADMIN_PASSWORD) when it does not exist yet.
func SeedAdminUser(db *gorm.DB) {
	username := configs.GetEnvOr("ADMIN_USERNAME", "admin")
	password := configs.GetEnv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ℹ️ ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var existing userModel.UserModel
	if err := db.Where("user_username = ?", username).First(&existing).Error; err == nil {
		log.Printf("ℹ️ User '%s' already exists, skipped.", username)
		return
	}

	// 🔐 hash before storing
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ Hash password failed for '%s': %v", username, err)
		return
	}

	user := userModel.UserModel{
		UserUsername:     username,
		UserPasswordHash: string(hashed),
		UserRole:         userModel.UserRoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("❌ Seed admin failed: %v", err)
		return
	}
	log.Printf("✅ Admin user '%s' created.", username)
}
