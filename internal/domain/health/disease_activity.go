package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DiseaseActivityState is the single "current" assessment per user. It is
// overwritten on every assessment.
type DiseaseActivityState struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Level          string    `gorm:"column:level;not null" json:"level"`
	Confidence     float64   `gorm:"column:confidence;not null" json:"confidence"`
	DataQuality    float64   `gorm:"column:data_quality;not null" json:"data_quality"`
	DaysOfData     int       `gorm:"column:days_of_data;not null" json:"days_of_data"`
	Source         string    `gorm:"column:source;not null" json:"source"`
	AssessmentDate time.Time `gorm:"column:assessment_date;not null" json:"assessment_date"`
	// HistoryID points at the history row written in the same transaction.
	HistoryID uuid.UUID `gorm:"type:uuid;column:history_id" json:"history_id"`

	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (DiseaseActivityState) TableName() string { return "disease_activity_state" }

// DiseaseActivityHistory is the append-only log of every assessment computed.
// Rows are never updated or deleted.
type DiseaseActivityHistory struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_activity_history_user_date,priority:1" json:"user_id"`
	Level          string         `gorm:"column:level;not null" json:"level"`
	Confidence     float64        `gorm:"column:confidence;not null" json:"confidence"`
	DataQuality    float64        `gorm:"column:data_quality;not null" json:"data_quality"`
	DaysOfData     int            `gorm:"column:days_of_data;not null" json:"days_of_data"`
	Source         string         `gorm:"column:source;not null" json:"source"`
	AssessmentDate time.Time      `gorm:"column:assessment_date;not null;index:idx_activity_history_user_date,priority:2,sort:desc" json:"assessment_date"`
	Details        datatypes.JSON `gorm:"column:details" json:"details,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (DiseaseActivityHistory) TableName() string { return "disease_activity_history" }

func (h *DiseaseActivityHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Models lists every table this service migrates.
func Models() []any {
	return []any{
		&SymptomEntry{},
		&UserProfile{},
		&DiseaseActivityState{},
		&DiseaseActivityHistory{},
	}
}
