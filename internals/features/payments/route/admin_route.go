package route

import (
	paymentController "sekolahku_backend/internals/features/payments/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
Admin routes: Payments (list + create + reverse)
Mounted under the authenticated group, eg. PaymentAdminRoutes(api.Group("/payments"), db)
*/
func PaymentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentController.NewPaymentController(db)

	r.Get("/", ctl.ListPayments)
	r.Post("/", ctl.CreatePayment)
	r.Post("/:id/reverse", ctl.ReversePayment)
}
