package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	DueSoon         *bool             `help:"Notify when a task is due within two hours."`
	Overdue         *bool             `help:"Notify when a task is overdue."`
	StreakAtRisk    *bool             `help:"Notify in the evening when a habit streak is about to break."`
	DailyBriefing   *bool             `help:"Send a morning summary."`
	BriefingHour    *int              `help:"Hour (0-23) after which the daily briefing is sent."`
	QuietHoursStart *int              `help:"Hour (0-23) at which quiet hours begin."`
	QuietHoursEnd   *int              `help:"Hour (0-23) at which quiet hours end. Equal to start disables quiet hours."`
	Desktop         *bool             `help:"Show desktop popups through daybook-tray."`
	Timezone        *string           `help:"IANA timezone name, or Local."`
	Set             map[string]string `help:"Set a value by key, e.g. --set quiet_hours_start=23." placeholder:"KEY=VALUE"`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	current := ctx.Store().Settings()
	updated, changed, err := c.apply(current)
	if err != nil {
		return err
	}

	if c.List || !changed {
		printSettings(ctx, current)
		if !c.List {
			ctx.Println(cli.Muted("\nNo changes specified. Use flags or --set key=value to update settings."))
		}
		return nil
	}

	if err := ctx.Engine.UpdateSettings(updated); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success("Settings updated"))
	return nil
}

func (c *SettingsCmd) apply(s models.Settings) (models.Settings, bool, error) {
	changed := false
	p := &s.Notifications

	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	setBool(&p.DueSoon, c.DueSoon)
	setBool(&p.Overdue, c.Overdue)
	setBool(&p.StreakAtRisk, c.StreakAtRisk)
	setBool(&p.DailyBriefing, c.DailyBriefing)
	setBool(&p.DesktopEnabled, c.Desktop)
	setInt(&p.BriefingHour, c.BriefingHour)
	setInt(&p.QuietHoursStart, c.QuietHoursStart)
	setInt(&p.QuietHoursEnd, c.QuietHoursEnd)
	if c.Timezone != nil {
		s.Timezone = *c.Timezone
		changed = true
	}

	keys := make([]string, 0, len(c.Set))
	for k := range c.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := setKey(&s, key, c.Set[key]); err != nil {
			return s, false, err
		}
		changed = true
	}
	return s, changed, nil
}

func setKey(s *models.Settings, key, value string) error {
	p := &s.Notifications
	key = strings.ToLower(strings.TrimSpace(key))

	bools := map[string]*bool{
		constants.SettingDueSoon:        &p.DueSoon,
		constants.SettingOverdue:        &p.Overdue,
		constants.SettingStreakAtRisk:   &p.StreakAtRisk,
		constants.SettingDailyBriefing:  &p.DailyBriefing,
		constants.SettingDesktopEnabled: &p.DesktopEnabled,
	}
	ints := map[string]*int{
		constants.SettingQuietHoursStart: &p.QuietHoursStart,
		constants.SettingQuietHoursEnd:   &p.QuietHoursEnd,
		constants.SettingBriefingHour:    &p.BriefingHour,
	}

	if dst, ok := bools[key]; ok {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		*dst = v
		return nil
	}
	if dst, ok := ints[key]; ok {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s expects an hour, got %q", key, value)
		}
		*dst = v
		return nil
	}
	if key == constants.SettingTimezone {
		s.Timezone = value
		return nil
	}
	return fmt.Errorf("unknown setting %q", key)
}

func printSettings(ctx *cli.Context, s models.Settings) {
	p := s.Notifications
	quiet := fmt.Sprintf("%02d:00 - %02d:00", p.QuietHoursStart, p.QuietHoursEnd)
	if p.QuietHoursStart == p.QuietHoursEnd {
		quiet = "off"
	}

	ctx.Println(cli.Header("Settings"))
	tbl := cli.NewTable()
	tbl.AddRow(constants.SettingTimezone, fmt.Sprintf("%s (now %s)", s.Timezone, ctx.Engine.Now().Format("15:04 MST")))
	tbl.AddRow(constants.SettingDueSoon, p.DueSoon)
	tbl.AddRow(constants.SettingOverdue, p.Overdue)
	tbl.AddRow(constants.SettingStreakAtRisk, p.StreakAtRisk)
	tbl.AddRow(constants.SettingDailyBriefing, p.DailyBriefing)
	tbl.AddRow(constants.SettingBriefingHour, fmt.Sprintf("%02d:00", p.BriefingHour))
	tbl.AddRow("quiet_hours", quiet)
	tbl.AddRow(constants.SettingDesktopEnabled, p.DesktopEnabled)
	ctx.Println(tbl)
}
