package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/errors"
)

// ApplySetting sets a single key on s from its string form.
func (s *Settings) ApplySetting(key, value string) error {
	const op = "apply setting"

	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, errors.Validation(op, "%s expects true/false, got %q", key, value)
		}
		return b, nil
	}
	parseHour := func() (int, error) {
		var h int
		if _, err := fmt.Sscanf(value, "%d", &h); err != nil {
			return 0, errors.Validation(op, "%s expects an hour, got %q", key, value)
		}
		return h, nil
	}

	var err error
	n := &s.Notifications
	switch key {
	case constants.SettingDueSoon:
		n.DueSoon, err = parseBool()
	case constants.SettingOverdue:
		n.Overdue, err = parseBool()
	case constants.SettingStreakAtRisk:
		n.StreakAtRisk, err = parseBool()
	case constants.SettingDailyBriefing:
		n.DailyBriefing, err = parseBool()
	case constants.SettingDesktopEnabled:
		n.DesktopEnabled, err = parseBool()
	case constants.SettingQuietHoursStart:
		n.QuietHoursStart, err = parseHour()
	case constants.SettingQuietHoursEnd:
		n.QuietHoursEnd, err = parseHour()
	case constants.SettingBriefingHour:
		n.BriefingHour, err = parseHour()
	case constants.SettingTimezone:
		s.Timezone = value
	default:
		return errors.Validation(op, "unknown setting %q", key)
	}
	if err != nil {
		return err
	}
	return s.Validate()
}

// SettingsToMap flattens s into the key/value form used by the CLI.
func SettingsToMap(s Settings) map[string]string {
	n := s.Notifications
	return map[string]string{
		constants.SettingDueSoon:         strconv.FormatBool(n.DueSoon),
		constants.SettingOverdue:         strconv.FormatBool(n.Overdue),
		constants.SettingStreakAtRisk:    strconv.FormatBool(n.StreakAtRisk),
		constants.SettingDailyBriefing:   strconv.FormatBool(n.DailyBriefing),
		constants.SettingDesktopEnabled:  strconv.FormatBool(n.DesktopEnabled),
		constants.SettingQuietHoursStart: strconv.Itoa(n.QuietHoursStart),
		constants.SettingQuietHoursEnd:   strconv.Itoa(n.QuietHoursEnd),
		constants.SettingBriefingHour:    strconv.Itoa(n.BriefingHour),
		constants.SettingTimezone:        s.Timezone,
	}
}
