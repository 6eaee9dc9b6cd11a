package geometry

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Point is a position in decimal degrees, north and east positive.
type Point struct {
	Lat float64
	Lon float64
}

// coordRe matches ICAO coordinates, DDMM[SS]N DDDMM[SS]E, e.g. 4900N00230E or 490030N0023015E.
var coordRe = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})?([NS])(\d{3})(\d{2})(\d{2})?([EW])$`)

// ParseCoordinate parses a single ICAO coordinate.
func ParseCoordinate(s string) (Point, error) {
	m := coordRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return Point{}, fmt.Errorf("invalid coordinate %q, want DDMM[SS]N DDDMM[SS]E", s)
	}

	lat, latOK := dms(m[1], m[2], m[3])
	lon, lonOK := dms(m[5], m[6], m[7])
	if !latOK || !lonOK || lat > 90 || lon > 180 {
		return Point{}, fmt.Errorf("coordinate %q out of range", s)
	}
	if m[4] == "S" {
		lat = -lat
	}
	if m[8] == "W" {
		lon = -lon
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// dms converts degrees, minutes and optional seconds to decimal degrees.
// ok is false when minutes or seconds are 60 or more.
func dms(deg, mins, sec string) (float64, bool) {
	d, _ := strconv.Atoi(deg)
	mi, _ := strconv.Atoi(mins)
	s := 0
	if sec != "" {
		s, _ = strconv.Atoi(sec)
	}
	if mi >= 60 || s >= 60 {
		return 0, false
	}
	return float64(d) + float64(mi)/60 + float64(s)/3600, true
}

// ParseCoordinates parses a list of coordinates separated by dashes, commas
// or spaces, as written in airspace definitions.
func ParseCoordinates(s string) ([]Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == ',' || r == ' '
	})
	points := make([]Point, 0, len(fields))
	for _, f := range fields {
		p, err := ParseCoordinate(f)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// DistNM returns the great circle distance between a and b in nautical miles.
func DistNM(a, b Point) float64 {
	const R = 3440.06
	r1, r2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180

	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	// dateline crossing
	for dLon > math.Pi {
		dLon -= 2 * math.Pi
	}
	for dLon < -math.Pi {
		dLon += 2 * math.Pi
	}

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(r1)*math.Cos(r2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return R * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// InPolygon reports whether p lies inside the polygon by ray casting.
// Fewer than three vertices never contain anything.
func InPolygon(p Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1
	for i := range polygon {
		xi, yi := polygon[i].Lat, polygon[i].Lon
		xj, yj := polygon[j].Lat, polygon[j].Lon

		// shift vertices across the dateline so they are continuous around p
		if yi-p.Lon > 180 {
			yi -= 360
		} else if yi-p.Lon < -180 {
			yi += 360
		}
		if yj-p.Lon > 180 {
			yj -= 360
		} else if yj-p.Lon < -180 {
			yj += 360
		}

		if ((yi > p.Lon) != (yj > p.Lon)) &&
			(p.Lat < (xj-xi)*(p.Lon-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}
	return inside
}
