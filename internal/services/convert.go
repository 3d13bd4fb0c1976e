package services

import (
	"encoding/json"

	"github.com/google/uuid"

	types "github.com/yungbote/ibdtrack-backend/internal/domain/health"
	"github.com/yungbote/ibdtrack-backend/internal/modules/activity"
	"github.com/yungbote/ibdtrack-backend/internal/modules/nutrition"
	"gorm.io/datatypes"
)

func symptomRecords(entries []*types.SymptomEntry) []activity.SymptomRecord {
	out := make([]activity.SymptomRecord, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		out = append(out, activity.SymptomRecord{
			Date:           e.EntryDate,
			BloodPresent:   e.BloodPresent,
			MucusPresent:   e.MucusPresent,
			PainSeverity:   e.PainSeverity,
			UrgencyLevel:   e.UrgencyLevel,
			StressLevel:    e.StressLevel,
			FatigueLevel:   e.FatigueLevel,
			SleepQuality:   e.SleepQuality,
			BowelFrequency: e.BowelFrequency,
		})
	}
	return out
}

func historyRow(userID uuid.UUID, a activity.Assessment) (*types.DiseaseActivityHistory, error) {
	row := &types.DiseaseActivityHistory{
		UserID:         userID,
		Level:          string(a.Level),
		Confidence:     a.Confidence,
		DataQuality:    a.DataQuality,
		DaysOfData:     a.DaysOfData,
		Source:         string(a.Source),
		AssessmentDate: a.AssessmentDate,
	}
	if a.Details != nil {
		raw, err := json.Marshal(a.Details)
		if err != nil {
			return nil, err
		}
		row.Details = datatypes.JSON(raw)
	}
	return row, nil
}

func stateRow(h *types.DiseaseActivityHistory) *types.DiseaseActivityState {
	return &types.DiseaseActivityState{
		UserID:         h.UserID,
		Level:          h.Level,
		Confidence:     h.Confidence,
		DataQuality:    h.DataQuality,
		DaysOfData:     h.DaysOfData,
		Source:         h.Source,
		AssessmentDate: h.AssessmentDate,
		HistoryID:      h.ID,
	}
}

func assessmentFromState(st *types.DiseaseActivityState) *activity.Assessment {
	if st == nil {
		return nil
	}
	return &activity.Assessment{
		Level:          activity.Level(st.Level),
		Confidence:     st.Confidence,
		DataQuality:    st.DataQuality,
		DaysOfData:     st.DaysOfData,
		AssessmentDate: st.AssessmentDate,
		Source:         activity.Source(st.Source),
	}
}

// assessmentFromHistory restores Details when the row carries them. A row with
// unreadable details is still returned, just without them.
func assessmentFromHistory(h *types.DiseaseActivityHistory) activity.Assessment {
	a := activity.Assessment{
		Level:          activity.Level(h.Level),
		Confidence:     h.Confidence,
		DataQuality:    h.DataQuality,
		DaysOfData:     h.DaysOfData,
		AssessmentDate: h.AssessmentDate,
		Source:         activity.Source(h.Source),
	}
	if len(h.Details) > 0 {
		var d activity.Details
		if err := json.Unmarshal(h.Details, &d); err == nil {
			a.Details = &d
		}
	}
	return a
}

func profileFromRow(p *types.UserProfile) nutrition.Profile {
	if p == nil {
		return nutrition.DefaultProfile()
	}
	return nutrition.Profile{
		Age:         p.Age,
		WeightKg:    p.WeightKg,
		HeightCm:    p.HeightCm,
		Gender:      p.Gender,
		DiseaseType: p.DiseaseType,
	}
}
