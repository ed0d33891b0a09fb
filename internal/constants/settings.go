package constants

const (
	// Setting keys, as accepted by `daybook settings --set key=value`
	SettingDueSoon         = "due_soon"
	SettingOverdue         = "overdue"
	SettingStreakAtRisk    = "streak_at_risk"
	SettingDailyBriefing   = "daily_briefing"
	SettingQuietHoursStart = "quiet_hours_start"
	SettingQuietHoursEnd   = "quiet_hours_end"
	SettingBriefingHour    = "briefing_hour"
	SettingDesktopEnabled  = "desktop_enabled"
	SettingTimezone        = "timezone"

	// Default Settings Values
	DefaultDueSoon         = true
	DefaultOverdue         = true
	DefaultStreakAtRisk    = true
	DefaultDailyBriefing   = true
	DefaultQuietHoursStart = 22
	DefaultQuietHoursEnd   = 7
	DefaultBriefingHour    = 8
	DefaultDesktopEnabled  = true
	DefaultTimezone        = "Local" // Use system local timezone by default
)
