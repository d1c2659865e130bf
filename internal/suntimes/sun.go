package suntimes

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Day holds the sun events for one calendar day at a location, in the
// location's timezone.
type Day struct {
	Sunrise time.Time
	Sunset  time.Time
}

// Polar reports a day the sun never rises or never sets.
func (d Day) Polar() bool {
	return d.Sunrise.IsZero() || d.Sunset.IsZero()
}

// Times computes sunrise and sunset for the calendar day containing t in
// loc's timezone. Both times are zero on polar days.
func Times(loc Location, t time.Time) Day {
	local := t.In(loc.TZ)
	rise, set := sunrise.SunriseSunset(loc.Lat, loc.Lon, local.Year(), local.Month(), local.Day())
	if rise.IsZero() || set.IsZero() {
		return Day{}
	}
	return Day{Sunrise: rise.In(loc.TZ), Sunset: set.In(loc.TZ)}
}
