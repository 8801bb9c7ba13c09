// file: internals/features/students/controller/student_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "sekolahku_backend/internals/features/students/dto"
	model "sekolahku_backend/internals/features/students/model"
	helper "sekolahku_backend/internals/helpers"

	paymentSvc "sekolahku_backend/internals/features/payments/service"
)

/* =======================================================================
   Controller
======================================================================= */

type StudentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =======================================================================
   Handlers — master data
======================================================================= */

// POST /students
func (h *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req dto.StudentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	code := strings.TrimSpace(req.StudentCode)

	var cnt int64
	if err := h.DB.WithContext(c.Context()).Model(&model.StudentModel{}).
		Where("student_code = ?", code).Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if cnt > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "student_code already exists")
	}

	m := model.StudentModel{
		StudentCode:      code,
		StudentName:      strings.TrimSpace(req.StudentName),
		StudentClassName: req.StudentClassName,
		StudentSection:   req.StudentSection,
	}

	// student + zero fee expectation in one tx
	err := h.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return tx.Create(&model.StudentFeeModel{
			StudentFeeStudentID: m.StudentID,
		}).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "create student failed: "+err.Error())
	}
	return helper.JsonOKWithCode(c, fiber.StatusCreated, "Student created", dto.FromModel(&m))
}

// GET /students
func (h *StudentController) ListStudents(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 50, 200)

	q := h.DB.WithContext(c.Context()).Model(&model.StudentModel{})
	if v := strings.TrimSpace(c.Query("search")); v != "" {
		s := "%" + strings.ToLower(v) + "%"
		q = q.Where("LOWER(student_code) LIKE ? OR LOWER(student_name) LIKE ?", s, s)
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		if !model.IsValidStudentStatus(v) {
			return helper.JsonError(c, fiber.StatusBadRequest, "status must be active or inactive")
		}
		q = q.Where("student_status = ?", v)
	}
	if v := strings.TrimSpace(c.Query("class_name")); v != "" {
		q = q.Where("student_class_name = ?", v)
	}
	if v := strings.TrimSpace(c.Query("section")); v != "" {
		q = q.Where("student_section = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	var items []model.StudentModel
	if err := q.Order("student_code").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&items).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "OK", dto.FromModels(items),
		helper.BuildPagination(paging.Page, paging.PerPage, total, len(items)))
}

// GET /students/balances
func (h *StudentController) ListStudentBalances(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 50, 200)

	var f paymentSvc.ListBalancesFilter
	if v := strings.TrimSpace(c.Query("search")); v != "" {
		f.Search = &v
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		if !model.IsValidStudentStatus(v) {
			return helper.JsonError(c, fiber.StatusBadRequest, "status must be active or inactive")
		}
		f.Status = &v
	}
	if v := strings.TrimSpace(c.Query("class_name")); v != "" {
		f.ClassName = &v
	}
	if v := strings.TrimSpace(c.Query("section")); v != "" {
		f.Section = &v
	}

	items, total, err := paymentSvc.ListStudentBalances(c.Context(), h.DB, f, paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "OK", items,
		helper.BuildPagination(paging.Page, paging.PerPage, total, len(items)))
}

// GET /students/:id
func (h *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id is not valid")
	}
	var m model.StudentModel
	if err := h.DB.WithContext(c.Context()).
		First(&m, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", dto.FromModel(&m))
}

// GET /students/:id/balance
func (h *StudentController) GetStudentBalance(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id is not valid")
	}
	bal, err := paymentSvc.GetStudentBalance(c.Context(), h.DB, id)
	if err != nil {
		if errors.Is(err, paymentSvc.ErrStudentNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", bal)
}

// PATCH /students/:id
func (h *StudentController) PatchStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id is not valid")
	}

	var req dto.StudentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m model.StudentModel
	if err := h.DB.WithContext(c.Context()).
		First(&m, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	updates := map[string]any{}
	if req.StudentName != nil {
		updates["student_name"] = strings.TrimSpace(*req.StudentName)
	}
	if req.StudentClassName != nil {
		updates["student_class_name"] = req.StudentClassName
	}
	if req.StudentSection != nil {
		updates["student_section"] = req.StudentSection
	}
	if req.StudentStatus != nil {
		updates["student_status"] = *req.StudentStatus
	}
	if len(updates) > 0 {
		if err := h.DB.WithContext(c.Context()).Model(&m).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.JsonOK(c, "Student updated", dto.FromModel(&m))
}

/* =======================================================================
   Handlers — fee expectation
======================================================================= */

// GET /students/:id/fee — lazily creates the zero row on first access
func (h *StudentController) GetStudentFee(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id is not valid")
	}

	var cnt int64
	if err := h.DB.WithContext(c.Context()).Model(&model.StudentModel{}).
		Where("student_id = ?", id).Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if cnt == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}

	var fee model.StudentFeeModel
	err = h.DB.WithContext(c.Context()).
		First(&fee, "student_fee_student_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fee = model.StudentFeeModel{StudentFeeStudentID: id}
		if err := h.DB.WithContext(c.Context()).Create(&fee).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	} else if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", dto.FeeFromModel(&fee))
}

// PATCH /students/:id/fee — overwrite in place, last writer wins
func (h *StudentController) PatchStudentFee(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id is not valid")
	}

	var req dto.StudentFeeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if req.StudentFeeExpectedAmount.IsNegative() {
		return helper.JsonError(c, fiber.StatusBadRequest, "expected fee must be >= 0")
	}

	var cnt int64
	if err := h.DB.WithContext(c.Context()).Model(&model.StudentModel{}).
		Where("student_id = ?", id).Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if cnt == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}

	now := time.Now()
	var fee model.StudentFeeModel
	err = h.DB.WithContext(c.Context()).
		First(&fee, "student_fee_student_id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fee = model.StudentFeeModel{
			StudentFeeStudentID:      id,
			StudentFeeExpectedAmount: req.StudentFeeExpectedAmount,
			StudentFeeUpdatedAt:      &now,
			StudentFeeUpdatedBy:      &actorID,
		}
		if err := h.DB.WithContext(c.Context()).Create(&fee).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	case err != nil:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	default:
		if err := h.DB.WithContext(c.Context()).Model(&fee).Updates(map[string]any{
			"student_fee_expected_amount": req.StudentFeeExpectedAmount,
			"student_fee_updated_at":      now,
			"student_fee_updated_by":      actorID,
		}).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		fee.StudentFeeExpectedAmount = req.StudentFeeExpectedAmount
		fee.StudentFeeUpdatedAt = &now
		fee.StudentFeeUpdatedBy = &actorID
	}
	return helper.JsonOK(c, "Fee updated", dto.FeeFromModel(&fee))
}
