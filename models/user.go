package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string        `bson:"name" json:"name"`
	Email         string        `bson:"email" json:"email"`
	Password      string        `bson:"password" json:"-"`
	Photo         string        `bson:"photo,omitempty" json:"photo,omitempty"`
	Active        bool          `bson:"active" json:"active"`
	ExpoPushToken string        `bson:"expo_push_token,omitempty" json:"expo_push_token,omitempty"`
	AlertSettings AlertSettings `bson:"alerts_settings" json:"alerts_settings"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
}

// AlertSettings is embedded in the user document and read by every
// detection run.
type AlertSettings struct {
	Enabled           bool               `bson:"enabled" json:"enabled"`
	PeriodDays        int                `bson:"period_days" json:"period_days"`
	IncreaseThreshold float64            `bson:"increase_threshold" json:"increase_threshold"`
	AbsoluteMin       float64            `bson:"absolute_min" json:"absolute_min"`
	Types             map[AlertKind]bool `bson:"types" json:"types"`
}

// DefaultAlertSettings are assigned at registration.
func DefaultAlertSettings() AlertSettings {
	types := make(map[AlertKind]bool, len(AllAlertKinds))
	for _, k := range AllAlertKinds {
		types[k] = true
	}
	return AlertSettings{
		Enabled:           true,
		PeriodDays:        30,
		IncreaseThreshold: 30,
		AbsoluteMin:       100,
		Types:             types,
	}
}

// AlertSettingsUpdate is the partial settings body accepted by the update
// endpoint. Nil fields are left untouched; Types is merged key by key
// rather than replaced wholesale.
type AlertSettingsUpdate struct {
	Enabled           *bool              `json:"enabled,omitempty"`
	PeriodDays        *int               `json:"period_days,omitempty"`
	IncreaseThreshold *float64           `json:"increase_threshold,omitempty"`
	AbsoluteMin       *float64           `json:"absolute_min,omitempty"`
	Types             map[AlertKind]bool `json:"types,omitempty"`
}

// Merge applies a partial update onto existing settings and returns the
// merged result.
func (s AlertSettings) Merge(u AlertSettingsUpdate) AlertSettings {
	out := s
	if u.Enabled != nil {
		out.Enabled = *u.Enabled
	}
	if u.PeriodDays != nil && *u.PeriodDays > 0 {
		out.PeriodDays = *u.PeriodDays
	}
	if u.IncreaseThreshold != nil && *u.IncreaseThreshold >= 0 {
		out.IncreaseThreshold = *u.IncreaseThreshold
	}
	if u.AbsoluteMin != nil && *u.AbsoluteMin >= 0 {
		out.AbsoluteMin = *u.AbsoluteMin
	}
	if len(u.Types) > 0 {
		merged := make(map[AlertKind]bool, len(out.Types)+len(u.Types))
		for k, v := range out.Types {
			merged[k] = v
		}
		for k, v := range u.Types {
			merged[k] = v
		}
		out.Types = merged
	}
	return out
}
