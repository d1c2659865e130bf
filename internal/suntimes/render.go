package suntimes

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/palegrave/nirikit/internal/waybar"
)

const (
	iconSunrise = "󰖜"
	iconSunset  = "󰖛"

	colorSunrise = "#FFD080"
	colorSunset  = "#ff9969"

	bullet = "·"

	// proximityWindow switches to the -soon class before an event;
	// nowWindow keeps showing "now" just after one.
	proximityWindow = 45 * time.Minute
	nowWindow       = 10 * time.Minute
)

// Render produces the waybar output for loc at the given moment.
func Render(loc Location, now time.Time) waybar.Output {
	now = now.In(loc.TZ)
	today := Times(loc, now)
	if today.Polar() {
		return polarOutput(loc, now)
	}

	toSunrise := today.Sunrise.Sub(now)
	toSunset := today.Sunset.Sub(now)
	sunriseJustNow := toSunrise < 0 && toSunrise >= -nowWindow
	sunsetJustNow := toSunset < 0 && toSunset >= -nowWindow

	var text, class string
	switch {
	case sunriseJustNow:
		text = iconSunrise + " now"
		class = "sunrise-soon"
	case sunsetJustNow:
		text = iconSunset + " now"
		class = "sunset-soon"
	case now.Before(today.Sunrise):
		text = fmt.Sprintf("%s %s", iconSunrise, waybar.RelativeShort(today.Sunrise, now))
		class = "sunrise"
		if toSunrise <= proximityWindow {
			class = "sunrise-soon"
		}
	case now.Before(today.Sunset):
		text = fmt.Sprintf("%s %s", iconSunset, waybar.RelativeShort(today.Sunset, now))
		class = "sunset"
		if toSunset <= proximityWindow {
			class = "sunset-soon"
		}
	default:
		tomorrow := Times(loc, now.AddDate(0, 0, 1))
		if tomorrow.Polar() {
			return polarOutput(loc, now)
		}
		text = fmt.Sprintf("%s %s", iconSunrise, waybar.RelativeShort(tomorrow.Sunrise, now))
		class = "sunrise"
	}

	// The tooltip always pairs the adjacent events: one past, one future.
	pairSunrise := today.Sunrise
	pairSunset := today.Sunset
	switch {
	case now.Before(today.Sunrise):
		pairSunset = Times(loc, now.AddDate(0, 0, -1)).Sunset
	case !now.Before(today.Sunset) && !sunsetJustNow:
		pairSunrise = Times(loc, now.AddDate(0, 0, 1)).Sunrise
	}

	riseLine := eventLine("Sunrise", iconSunrise, colorSunrise, pairSunrise, now)
	setLine := eventLine("Sunset", iconSunset, colorSunset, pairSunset, now)

	dateText := fmt.Sprintf("%s %s %s", now.Format("Mon Jan 02 2006"), bullet, now.Format("15:04"))
	width := maxRuneWidth(loc.Name, dateText, riseLine.plain, setLine.plain)

	header := fmt.Sprintf("<b>%s</b>\n<span alpha=\"75%%\">%s</span>",
		centerText(loc.Name, width), centerText(dateText, width))

	first, second := riseLine.markup, setLine.markup
	if pairSunrise.IsZero() || !pairSunrise.Before(now) {
		first, second = setLine.markup, riseLine.markup
	}

	return waybar.Output{
		Text:    text,
		Tooltip: header + "\n\n" + first + "\n" + second,
		Class:   class,
	}
}

func polarOutput(loc Location, now time.Time) waybar.Output {
	dateText := fmt.Sprintf("%s %s %s", now.Format("Mon Jan 02 2006"), bullet, now.Format("15:04"))
	notice := "No sunrise or sunset today"
	width := maxRuneWidth(loc.Name, dateText, notice)
	header := fmt.Sprintf("<b>%s</b>\n<span alpha=\"75%%\">%s</span>",
		centerText(loc.Name, width), centerText(dateText, width))
	return waybar.Output{
		Text:    "--:--",
		Tooltip: header + "\n\n" + notice,
		Class:   "polar",
	}
}

type sunLine struct {
	plain  string
	markup string
}

// eventLine renders one tooltip row. A zero time (polar neighbor day) shows
// a placeholder clock with no relative part.
func eventLine(label, icon, color string, at, now time.Time) sunLine {
	clock := "--:--"
	rel := ""
	if !at.IsZero() {
		clock = at.Format("15:04")
		rel = waybar.RelativeLong(at, now)
	}
	return sunLine{
		plain: fmt.Sprintf("X  %-7s  %s   %s", label, clock, rel),
		markup: fmt.Sprintf(`<span color="%s">%s</span>  %-7s  <tt><b>%s</b></tt>  <span alpha="75%%">%s</span>`,
			color, icon, label, clock, rel),
	}
}

func maxRuneWidth(lines ...string) int {
	width := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > width {
			width = n
		}
	}
	return width
}

func centerText(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}
