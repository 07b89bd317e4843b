package models

import "testing"

func TestDefaultAlertSettings(t *testing.T) {
	s := DefaultAlertSettings()
	if !s.Enabled {
		t.Error("defaults should be enabled")
	}
	if s.PeriodDays != 30 || s.IncreaseThreshold != 30 || s.AbsoluteMin != 100 {
		t.Errorf("unexpected defaults: %+v", s)
	}
	for _, k := range AllAlertKinds {
		if !s.Types[k] {
			t.Errorf("kind %s not enabled by default", k)
		}
	}
}

func TestAlertSettingsMerge(t *testing.T) {
	base := DefaultAlertSettings()

	enabled := false
	period := 14
	merged := base.Merge(AlertSettingsUpdate{
		Enabled:    &enabled,
		PeriodDays: &period,
		Types:      map[AlertKind]bool{AlertAnomalies: false},
	})

	if merged.Enabled {
		t.Error("enabled not applied")
	}
	if merged.PeriodDays != 14 {
		t.Errorf("period = %d, want 14", merged.PeriodDays)
	}
	if merged.IncreaseThreshold != 30 {
		t.Errorf("untouched threshold changed: %v", merged.IncreaseThreshold)
	}
	if merged.Types[AlertAnomalies] {
		t.Error("anomalies toggle not applied")
	}
	// Types merge key by key: the other kinds keep their values.
	if !merged.Types[AlertSpendingIncrease] {
		t.Error("unrelated type lost in merge")
	}

	// Base must not be mutated.
	if !base.Enabled || base.PeriodDays != 30 || !base.Types[AlertAnomalies] {
		t.Error("merge mutated the receiver")
	}
}

func TestAlertSettingsMergeRejectsInvalid(t *testing.T) {
	base := DefaultAlertSettings()

	badPeriod := 0
	badThreshold := -5.0
	merged := base.Merge(AlertSettingsUpdate{
		PeriodDays:        &badPeriod,
		IncreaseThreshold: &badThreshold,
	})

	if merged.PeriodDays != 30 {
		t.Errorf("zero period accepted: %d", merged.PeriodDays)
	}
	if merged.IncreaseThreshold != 30 {
		t.Errorf("negative threshold accepted: %v", merged.IncreaseThreshold)
	}
}
