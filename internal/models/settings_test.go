package models

import (
	"testing"

	"github.com/julianstephens/daybook/internal/constants"
)

func TestNotificationPreferences_InQuietHours(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		hour       int
		want       bool
	}{
		{"wrap late evening", 22, 7, 23, true},
		{"wrap at start", 22, 7, 22, true},
		{"wrap early morning", 22, 7, 5, true},
		{"wrap end is exclusive", 22, 7, 7, false},
		{"wrap resumes", 22, 7, 8, false},
		{"wrap afternoon", 22, 7, 15, false},
		{"same-day window inside", 13, 15, 14, true},
		{"same-day window outside", 13, 15, 15, false},
		{"same-day window before", 13, 15, 12, false},
		{"disabled when equal", 9, 9, 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NotificationPreferences{QuietHoursStart: tt.start, QuietHoursEnd: tt.end}
			if got := p.InQuietHours(tt.hour); got != tt.want {
				t.Errorf("InQuietHours(%d) with %d->%d = %v, want %v", tt.hour, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestSettings_ApplySetting(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		check   func(Settings) bool
		wantErr bool
	}{
		{
			name:  "disable due soon",
			key:   constants.SettingDueSoon,
			value: "false",
			check: func(s Settings) bool { return !s.Notifications.DueSoon },
		},
		{
			name:  "quiet hours start",
			key:   constants.SettingQuietHoursStart,
			value: "23",
			check: func(s Settings) bool { return s.Notifications.QuietHoursStart == 23 },
		},
		{
			name:  "timezone",
			key:   constants.SettingTimezone,
			value: "UTC",
			check: func(s Settings) bool { return s.Timezone == "UTC" },
		},
		{name: "hour out of range", key: constants.SettingQuietHoursEnd, value: "24", wantErr: true},
		{name: "not a bool", key: constants.SettingOverdue, value: "sometimes", wantErr: true},
		{name: "unknown key", key: "theme", value: "dark", wantErr: true},
		{name: "bad timezone", key: constants.SettingTimezone, value: "Nowhere/Land", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			err := s.ApplySetting(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplySetting(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(s) {
				t.Errorf("ApplySetting(%q, %q) did not take effect: %+v", tt.key, tt.value, s)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("DefaultSettings().Validate() = %v", err)
	}
	m := SettingsToMap(s)
	if m[constants.SettingQuietHoursStart] != "22" || m[constants.SettingQuietHoursEnd] != "7" {
		t.Errorf("default quiet hours = %s->%s, want 22->7",
			m[constants.SettingQuietHoursStart], m[constants.SettingQuietHoursEnd])
	}
}
