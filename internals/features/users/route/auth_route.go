package route

import (
	authController "sekolahku_backend/internals/features/users/controller"
	"sekolahku_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
Auth routes: login is public (rate limited), /me requires the JWT guard
which is installed by the caller on the protected group.
*/
func AuthPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := authController.NewAuthController(db)
	r.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
}

func AuthProtectedRoutes(r fiber.Router, db *gorm.DB) {
	ctl := authController.NewAuthController(db)
	r.Get("/me", ctl.Me)
}
