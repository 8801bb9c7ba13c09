package route

import (
	reportController "sekolahku_backend/internals/features/reports/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
Admin routes: Reports + CSV export
Mounted under the authenticated group.
*/
func ReportAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := reportController.NewReportController(db)

	reports := r.Group("/reports")
	reports.Get("/summary", ctl.Summary)
	reports.Get("/pending", ctl.Pending)
	reports.Get("/daily", ctl.Daily)

	export := r.Group("/export")
	export.Get("/students.csv", ctl.ExportStudentsCSV)
	export.Get("/payments.csv", ctl.ExportPaymentsCSV)
	export.Get("/pending.csv", ctl.ExportPendingCSV)
}
