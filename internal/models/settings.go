package models

import (
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/utils"
)

// NotificationPreferences toggles each notification category and defines the
// quiet-hours window. QuietHoursStart > QuietHoursEnd wraps past midnight;
// equal values disable quiet hours.
type NotificationPreferences struct {
	DueSoon         bool `json:"due_soon"`
	Overdue         bool `json:"overdue"`
	StreakAtRisk    bool `json:"streak_at_risk"`
	DailyBriefing   bool `json:"daily_briefing"`
	QuietHoursStart int  `json:"quiet_hours_start"`
	QuietHoursEnd   int  `json:"quiet_hours_end"`
	BriefingHour    int  `json:"briefing_hour"`
	DesktopEnabled  bool `json:"desktop_enabled"`
}

// InQuietHours reports whether hour (0-23) falls inside the quiet window.
func (p NotificationPreferences) InQuietHours(hour int) bool {
	start, end := p.QuietHoursStart, p.QuietHoursEnd
	switch {
	case start == end:
		return false
	case start < end:
		return hour >= start && hour < end
	default:
		return hour >= start || hour < end
	}
}

func (p NotificationPreferences) Validate() error {
	const op = "validate preferences"
	for name, h := range map[string]int{
		constants.SettingQuietHoursStart: p.QuietHoursStart,
		constants.SettingQuietHoursEnd:   p.QuietHoursEnd,
		constants.SettingBriefingHour:    p.BriefingHour,
	} {
		if h < 0 || h > 23 {
			return errors.Validation(op, "%s must be an hour between 0 and 23, got %d", name, h)
		}
	}
	return nil
}

// Settings represents application-wide settings
type Settings struct {
	Notifications NotificationPreferences `json:"notifications"`
	Timezone      string                  `json:"timezone"` // IANA timezone name or "Local"
}

func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationPreferences{
			DueSoon:         constants.DefaultDueSoon,
			Overdue:         constants.DefaultOverdue,
			StreakAtRisk:    constants.DefaultStreakAtRisk,
			DailyBriefing:   constants.DefaultDailyBriefing,
			QuietHoursStart: constants.DefaultQuietHoursStart,
			QuietHoursEnd:   constants.DefaultQuietHoursEnd,
			BriefingHour:    constants.DefaultBriefingHour,
			DesktopEnabled:  constants.DefaultDesktopEnabled,
		},
		Timezone: constants.DefaultTimezone,
	}
}

func (s Settings) Validate() error {
	if !utils.ValidateTimezone(s.Timezone) {
		return errors.Validation("validate settings", "invalid timezone %q", s.Timezone)
	}
	return s.Notifications.Validate()
}
