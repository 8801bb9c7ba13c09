package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StudentFeeModel: one-to-one fee expectation per student. Overwritten in
// place by manual edits or the importer — last writer wins, no history.
type StudentFeeModel struct {
	StudentFeeStudentID uuid.UUID `gorm:"column:student_fee_student_id;type:uuid;primaryKey" json:"student_fee_student_id"`

	StudentFeeExpectedAmount decimal.Decimal `gorm:"column:student_fee_expected_amount;type:numeric(12,2);not null;check:ck_student_fee_expected_nonnegative,student_fee_expected_amount >= 0" json:"student_fee_expected_amount"`

	StudentFeeUpdatedAt *time.Time `gorm:"column:student_fee_updated_at" json:"student_fee_updated_at,omitempty"`
	StudentFeeUpdatedBy *uuid.UUID `gorm:"column:student_fee_updated_by;type:uuid" json:"student_fee_updated_by,omitempty"`
}

func (StudentFeeModel) TableName() string { return "student_fee" }
