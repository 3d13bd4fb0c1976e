package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfile holds the anthropometrics and clinical classification used to
// personalise nutrition targets.
type UserProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Age      int      `gorm:"column:age;not null" json:"age"`
	WeightKg float64  `gorm:"column:weight_kg;not null" json:"weight_kg"`
	HeightCm *float64 `gorm:"column:height_cm" json:"height_cm,omitempty"`
	Gender   string   `gorm:"column:gender;not null;default:other" json:"gender"`

	// DiseaseType is free-form (crohns, uc, ibs, unspecified, ...).
	DiseaseType string `gorm:"column:disease_type" json:"disease_type"`
	// DiagnosisSeverity is the clinician-reported severity, used only when the
	// patient has no journal entries to assess.
	DiagnosisSeverity *string `gorm:"column:diagnosis_severity" json:"diagnosis_severity,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserProfile) TableName() string { return "user_profile" }

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
