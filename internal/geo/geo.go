// Package geo provides parsing helpers for the geometry values stored on
// establishments, parking lots and slots. Values arrive either as WKT
// strings (POINT / POLYGON), GeoJSON-style coordinate arrays, or objects
// with latitude/longitude keys.
package geo

import (
	"regexp"
	"strconv"
	"strings"
)

// LatLng is a single coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Polygon is an open ring of at least three points. A nil polygon means
// the value was absent or unparseable.
type Polygon []LatLng

var (
	pointRe   = regexp.MustCompile(`(?i)POINT\s*\(\s*([-0-9.+eE]+)\s+([-0-9.+eE]+)\s*\)`)
	polygonRe = regexp.MustCompile(`(?i)POLYGON\s*\(\(\s*([^)]+?)\s*\)\)`)
)

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ParseLatLng accepts a WKT POINT string (lng lat order), a two-element
// coordinate array, or an object keyed by latitude/longitude or lat/lng.
func ParseLatLng(value interface{}) (LatLng, bool) {
	switch v := value.(type) {
	case string:
		m := pointRe.FindStringSubmatch(v)
		if m == nil {
			return LatLng{}, false
		}
		lng, okLng := toNumber(m[1])
		lat, okLat := toNumber(m[2])
		if okLat && okLng {
			return LatLng{Latitude: lat, Longitude: lng}, true
		}
	case []interface{}:
		if len(v) >= 2 {
			lng, okLng := toNumber(v[0])
			lat, okLat := toNumber(v[1])
			if okLat && okLng {
				return LatLng{Latitude: lat, Longitude: lng}, true
			}
		}
	case map[string]interface{}:
		if lat, okLat := toNumber(v["latitude"]); okLat {
			if lng, okLng := toNumber(v["longitude"]); okLng {
				return LatLng{Latitude: lat, Longitude: lng}, true
			}
		}
		if lat, okLat := toNumber(v["lat"]); okLat {
			if lng, okLng := toNumber(v["lng"]); okLng {
				return LatLng{Latitude: lat, Longitude: lng}, true
			}
		}
		if coords, ok := v["coordinates"].([]interface{}); ok {
			return ParseLatLng(coords)
		}
	}
	return LatLng{}, false
}

// ParsePolygon accepts a WKT POLYGON string, a (possibly nested) GeoJSON
// coordinate array, or an object with a coordinates/points key. The closing
// point of a closed ring is dropped; rings with fewer than three distinct
// points yield nil.
func ParsePolygon(value interface{}) Polygon {
	switch v := value.(type) {
	case string:
		m := polygonRe.FindStringSubmatch(v)
		if m == nil {
			return nil
		}
		var points []LatLng
		for _, pair := range strings.Split(m[1], ",") {
			fields := strings.Fields(strings.TrimSpace(pair))
			if len(fields) < 2 {
				continue
			}
			lng, okLng := toNumber(fields[0])
			lat, okLat := toNumber(fields[1])
			if okLat && okLng {
				points = append(points, LatLng{Latitude: lat, Longitude: lng})
			}
		}
		return normalize(points)
	case []interface{}:
		var points []LatLng
		for _, item := range v {
			if nested, ok := item.([]interface{}); ok && len(nested) > 0 {
				if _, deeper := nested[0].([]interface{}); deeper {
					// GeoJSON polygon: first ring wins.
					if p := ParsePolygon(nested); p != nil {
						return p
					}
					continue
				}
			}
			if point, ok := ParseLatLng(item); ok {
				points = append(points, point)
			}
		}
		return normalize(points)
	case map[string]interface{}:
		if coords, ok := v["coordinates"]; ok {
			return ParsePolygon(coords)
		}
		if pts, ok := v["points"]; ok {
			return ParsePolygon(pts)
		}
	}
	return nil
}

func normalize(points []LatLng) Polygon {
	if len(points) == 0 {
		return nil
	}
	first, last := points[0], points[len(points)-1]
	if first == last {
		points = points[:len(points)-1]
	}
	if len(points) < 3 {
		return nil
	}
	return points
}
