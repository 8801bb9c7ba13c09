// file: internals/features/students/controller/student_import_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	svc "sekolahku_backend/internals/features/students/service"
	helper "sekolahku_backend/internals/helpers"
)

// POST /students/import?mode=upsert|create_only&atomic=true|false
//
// Multipart upload, .xlsx only, first worksheet; header in row 1. Columns
// are matched by alias (code may be labeled "roll no.", "id", ...).
// Note: under atomic=true a create_only re-import of existing codes
// discards the whole batch; use atomic=false to get the per-row
// "already exists" report with the rest committed.
func (h *StudentController) ImportStudents(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	mode, ok := svc.ParseImportMode(c.Query("mode", string(svc.ImportModeUpsert)))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "mode must be upsert or create_only")
	}
	atomic := c.QueryBool("atomic", true)

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
		return helper.JsonError(c, fiber.StatusUnsupportedMediaType, "Only .xlsx files are supported")
	}

	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "cannot read upload: "+err.Error())
	}
	defer f.Close()

	wb, err := excelize.OpenReader(f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Invalid Excel file")
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Excel file is empty")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Invalid Excel file")
	}
	if len(rows) == 0 {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Excel file is empty")
	}

	sheet := svc.ImportSheet{
		Header:       rows[0],
		Rows:         rows[1:],
		FirstDataRow: 2,
	}

	res, err := svc.Import(c.Context(), h.DB, actorID, sheet, mode, atomic)
	if err != nil {
		var missing *svc.MissingColumnsError
		switch {
		case errors.As(err, &missing):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity,
				"Missing required columns: "+strings.Join(missing.Missing, ", "))
		case errors.Is(err, svc.ErrImportAborted):
			return helper.JsonErrorWithDetails(c, fiber.StatusUnprocessableEntity,
				"Import rolled back, nothing committed", res.Errors)
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.JsonOK(c, "Import finished", res)
}
