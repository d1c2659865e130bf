// Package suntimes renders sunrise/sunset countdowns for the bar. Locations
// resolve from an airport code, a coordinate pair, or the system timezone.
package suntimes

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNoLocation reports that no coordinates could be inferred from the
// system timezone. Resolve returns the equator fallback alongside it so the
// caller can warn and carry on.
var ErrNoLocation = errors.New("could not infer a location from the system timezone")

// Location is a resolved observation point.
type Location struct {
	Lat  float64
	Lon  float64
	Name string
	TZ   *time.Location
}

var latLonPattern = regexp.MustCompile(`^(-?\d+\.?\d*),\s*(-?\d+\.?\d*)$`)

// Resolve turns a location argument into coordinates. Accepts an IATA code
// ("PDX"), a "lat,lon" pair, or "" to infer a spot from the system timezone
// via the airport table.
func Resolve(arg string) (Location, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return fromSystemZone()
	}

	if m := latLonPattern.FindStringSubmatch(arg); m != nil {
		lat, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Location{}, fmt.Errorf("invalid latitude %q", m[1])
		}
		lon, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return Location{}, fmt.Errorf("invalid longitude %q", m[2])
		}
		return Location{
			Lat:  lat,
			Lon:  lon,
			Name: fmt.Sprintf("%.4f, %.4f", lat, lon),
			TZ:   time.Local,
		}, nil
	}

	code := strings.ToUpper(arg)
	airport, ok := lookupAirport(code)
	if !ok {
		return Location{}, fmt.Errorf("unknown airport code %q", code)
	}
	return Location{
		Lat:  airport.Lat,
		Lon:  airport.Lon,
		Name: airport.displayName(),
		TZ:   zoneOrLocal(airport.TZ),
	}, nil
}

func fromSystemZone() (Location, error) {
	zone := systemZoneName()
	if zone != "" {
		if loc, ok := zoneCentroid(zone); ok {
			return loc, nil
		}
	}
	fallback := Location{Name: "0.0000, 0.0000", TZ: time.Local}
	return fallback, fmt.Errorf("%w (zone %q)", ErrNoLocation, zone)
}

// zoneCentroid picks the airport closest to the centroid of all airports in
// the zone, a cheap stand-in for a geolocation lookup.
func zoneCentroid(zone string) (Location, bool) {
	var matches []Airport
	for _, a := range airports {
		if a.TZ == zone {
			matches = append(matches, a)
		}
	}
	if len(matches) == 0 {
		return Location{}, false
	}

	var avgLat, avgLon float64
	for _, a := range matches {
		avgLat += a.Lat
		avgLon += a.Lon
	}
	avgLat /= float64(len(matches))
	avgLon /= float64(len(matches))

	closest := matches[0]
	best := math.Inf(1)
	for _, a := range matches {
		d := math.Hypot(a.Lat-avgLat, a.Lon-avgLon)
		if d < best {
			best = d
			closest = a
		}
	}
	return Location{
		Lat:  closest.Lat,
		Lon:  closest.Lon,
		Name: fmt.Sprintf("%s (%.2f, %.2f)", strings.ReplaceAll(zone, "_", " "), closest.Lat, closest.Lon),
		TZ:   zoneOrLocal(zone),
	}, true
}

// systemZoneName finds the IANA zone name: $TZ, then /etc/timezone, then the
// /etc/localtime symlink target.
func systemZoneName() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	if data, err := os.ReadFile("/etc/timezone"); err == nil {
		if zone := strings.TrimSpace(string(data)); zone != "" {
			return zone
		}
	}
	if target, err := filepath.EvalSymlinks("/etc/localtime"); err == nil {
		if i := strings.Index(target, "/zoneinfo/"); i >= 0 {
			return target[i+len("/zoneinfo/"):]
		}
	}
	return ""
}

func zoneOrLocal(name string) *time.Location {
	if tz, err := time.LoadLocation(name); err == nil {
		return tz
	}
	return time.Local
}
