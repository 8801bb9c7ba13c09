package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/students/model"
)

/* =========================================================
   REQUEST DTOs
========================================================= */

type StudentCreateRequest struct {
	StudentCode      string  `json:"student_code" validate:"required,max=50"`
	StudentName      string  `json:"student_name" validate:"required,max=200"`
	StudentClassName *string `json:"student_class_name,omitempty" validate:"omitempty,max=100"`
	StudentSection   *string `json:"student_section,omitempty" validate:"omitempty,max=50"`
}

// PATCH: pointers so we only touch fields the client sent.
// student_code is immutable, deliberately absent here.
type StudentUpdateRequest struct {
	StudentName      *string `json:"student_name,omitempty" validate:"omitempty,max=200"`
	StudentClassName *string `json:"student_class_name,omitempty" validate:"omitempty,max=100"`
	StudentSection   *string `json:"student_section,omitempty" validate:"omitempty,max=50"`
	StudentStatus    *string `json:"student_status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type StudentFeeUpdateRequest struct {
	StudentFeeExpectedAmount decimal.Decimal `json:"student_fee_expected_amount"`
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type StudentResponse struct {
	StudentID        uuid.UUID `json:"student_id"`
	StudentCode      string    `json:"student_code"`
	StudentName      string    `json:"student_name"`
	StudentClassName *string   `json:"student_class_name,omitempty"`
	StudentSection   *string   `json:"student_section,omitempty"`
	StudentStatus    string    `json:"student_status"`
	StudentCreatedAt time.Time `json:"student_created_at"`
	StudentUpdatedAt time.Time `json:"student_updated_at"`
}

func FromModel(m *model.StudentModel) StudentResponse {
	return StudentResponse{
		StudentID:        m.StudentID,
		StudentCode:      m.StudentCode,
		StudentName:      m.StudentName,
		StudentClassName: m.StudentClassName,
		StudentSection:   m.StudentSection,
		StudentStatus:    m.StudentStatus,
		StudentCreatedAt: m.StudentCreatedAt,
		StudentUpdatedAt: m.StudentUpdatedAt,
	}
}

func FromModels(ms []model.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromModel(&ms[i]))
	}
	return out
}

type StudentFeeResponse struct {
	StudentFeeStudentID      uuid.UUID       `json:"student_fee_student_id"`
	StudentFeeExpectedAmount decimal.Decimal `json:"student_fee_expected_amount"`
	StudentFeeUpdatedAt      *time.Time      `json:"student_fee_updated_at,omitempty"`
	StudentFeeUpdatedBy      *uuid.UUID      `json:"student_fee_updated_by,omitempty"`
}

func FeeFromModel(m *model.StudentFeeModel) StudentFeeResponse {
	return StudentFeeResponse{
		StudentFeeStudentID:      m.StudentFeeStudentID,
		StudentFeeExpectedAmount: m.StudentFeeExpectedAmount,
		StudentFeeUpdatedAt:      m.StudentFeeUpdatedAt,
		StudentFeeUpdatedBy:      m.StudentFeeUpdatedBy,
	}
}
