// file: internals/route/index.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	paymentRoute "sekolahku_backend/internals/features/payments/route"
	reportRoute "sekolahku_backend/internals/features/reports/route"
	studentRoute "sekolahku_backend/internals/features/students/route"
	userRoute "sekolahku_backend/internals/features/users/route"
	authMiddleware "sekolahku_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	BaseRoutes(app, db)

	api := app.Group("/api")

	// public
	userRoute.AuthPublicRoutes(api.Group("/auth"), db)

	// everything else requires the JWT guard; it hydrates the actor id
	// the ledger stamps on every write
	protected := api.Group("", authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret: configs.JWTSecret,
	}))

	userRoute.AuthProtectedRoutes(protected.Group("/auth"), db)
	studentRoute.StudentAdminRoutes(protected.Group("/students"), db)
	paymentRoute.PaymentAdminRoutes(protected.Group("/payments"), db)
	reportRoute.ReportAdminRoutes(protected, db)
}
