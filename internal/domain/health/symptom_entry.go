package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SymptomEntry is one day of the patient's symptom journal. Every measurement is
// nullable; a missing value means the patient did not record it that day.
type SymptomEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uidx_symptom_entry_user_date" json:"user_id"`
	EntryDate time.Time `gorm:"type:date;not null;uniqueIndex:uidx_symptom_entry_user_date;index" json:"entry_date"`

	BloodPresent   *bool `gorm:"column:blood_present" json:"blood_present"`
	MucusPresent   *bool `gorm:"column:mucus_present" json:"mucus_present"`
	PainSeverity   *int  `gorm:"column:pain_severity" json:"pain_severity"`
	UrgencyLevel   *int  `gorm:"column:urgency_level" json:"urgency_level"`
	StressLevel    *int  `gorm:"column:stress_level" json:"stress_level"`
	FatigueLevel   *int  `gorm:"column:fatigue_level" json:"fatigue_level"`
	SleepQuality   *int  `gorm:"column:sleep_quality" json:"sleep_quality"`
	BowelFrequency *int  `gorm:"column:bowel_frequency" json:"bowel_frequency"`

	Notes string `gorm:"column:notes" json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SymptomEntry) TableName() string { return "symptom_entry" }

func (e *SymptomEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
