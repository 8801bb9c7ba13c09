package route

import (
	studentController "sekolahku_backend/internals/features/students/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
Admin routes: Students (master data + fee + balances + import)
Mounted under the authenticated group, eg. StudentAdminRoutes(api.Group("/students"), db)
*/
func StudentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := studentController.NewStudentController(db)

	r.Get("/", ctl.ListStudents)
	r.Post("/", ctl.CreateStudent)
	r.Post("/import", ctl.ImportStudents)
	r.Get("/balances", ctl.ListStudentBalances)
	r.Get("/:id", ctl.GetStudent)
	r.Patch("/:id", ctl.PatchStudent)
	r.Get("/:id/balance", ctl.GetStudentBalance)
	r.Get("/:id/fee", ctl.GetStudentFee)
	r.Patch("/:id/fee", ctl.PatchStudentFee)
}
