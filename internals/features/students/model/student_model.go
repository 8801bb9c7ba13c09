package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	StudentStatusActive   = "active"
	StudentStatusInactive = "inactive"
)

func IsValidStudentStatus(s string) bool {
	return s == StudentStatusActive || s == StudentStatusInactive
}

/* ===================== Model ===================== */

// StudentModel: master record. student_code is assigned once and unique for
// the system's lifetime; everything else but the id is mutable.
type StudentModel struct {
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`

	StudentCode string `gorm:"column:student_code;type:varchar(50);not null;uniqueIndex" json:"student_code"`
	StudentName string `gorm:"column:student_name;type:varchar(200);not null" json:"student_name"`

	StudentClassName *string `gorm:"column:student_class_name;type:varchar(100)" json:"student_class_name,omitempty"`
	StudentSection   *string `gorm:"column:student_section;type:varchar(50)" json:"student_section,omitempty"`

	StudentStatus string `gorm:"column:student_status;type:varchar(16);not null;default:'active'" json:"student_status"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
}

func (StudentModel) TableName() string { return "students" }

func (s *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if s.StudentID == uuid.Nil {
		s.StudentID = uuid.New()
	}
	if s.StudentStatus == "" {
		s.StudentStatus = StudentStatusActive
	}
	return nil
}
