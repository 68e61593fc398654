package geometry

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/btlam02/gis-app/pkg/apperror"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/ewkb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// SRID is the spatial reference of every stored geometry (WGS 84).
const SRID = 4326

// Point is a single lon/lat coordinate pair. It serializes to a GeoJSON
// geometry object and round-trips through PostGIS as EWKB.
type Point struct {
	orb.Point
}

// NewPoint builds a point from a lon/lat pair.
func NewPoint(lon, lat float64) *Point {
	return &Point{Point: orb.Point{lon, lat}}
}

// ParsePointWKT parses well-known text like "POINT(106.7 10.8)".
func ParsePointWKT(s string) (*Point, error) {
	p, err := wkt.UnmarshalPoint(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed WKT point: %v", apperror.ErrInvalidGeometry, err)
	}
	return &Point{Point: p}, nil
}

func (p Point) MarshalJSON() ([]byte, error) {
	return geojson.NewGeometry(p.Point).MarshalJSON()
}

func (p *Point) UnmarshalJSON(data []byte) error {
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidGeometry, err)
	}
	point, ok := g.Geometry().(orb.Point)
	if !ok {
		return fmt.Errorf("%w: geometry must be a Point", apperror.ErrInvalidGeometry)
	}
	p.Point = point
	return nil
}

func (p *Point) Scan(value interface{}) error {
	return ewkb.Scanner(&p.Point).Scan(value)
}

func (p Point) Value() (driver.Value, error) {
	return ewkb.Value(p.Point, SRID).Value()
}

func (Point) GormDataType() string {
	return fmt.Sprintf("geometry(Point,%d)", SRID)
}

// LineString is an ordered sequence of at least two coordinate pairs.
type LineString struct {
	orb.LineString
}

// ParseLineStringGeoJSON parses a GeoJSON geometry object of type LineString.
func ParseLineStringGeoJSON(data []byte) (*LineString, error) {
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed GeoJSON geometry: %v", apperror.ErrInvalidGeometry, err)
	}

	ls, ok := g.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("%w: geometry must be a LineString", apperror.ErrInvalidGeometry)
	}

	if len(ls) < 2 {
		return nil, fmt.Errorf("%w: line requires at least 2 positions", apperror.ErrInvalidGeometry)
	}

	return &LineString{LineString: ls}, nil
}

func (l LineString) MarshalJSON() ([]byte, error) {
	return geojson.NewGeometry(l.LineString).MarshalJSON()
}

func (l *LineString) UnmarshalJSON(data []byte) error {
	parsed, err := ParseLineStringGeoJSON(data)
	if err != nil {
		return err
	}
	l.LineString = parsed.LineString
	return nil
}

func (l *LineString) Scan(value interface{}) error {
	return ewkb.Scanner(&l.LineString).Scan(value)
}

func (l LineString) Value() (driver.Value, error) {
	return ewkb.Value(l.LineString, SRID).Value()
}

func (LineString) GormDataType() string {
	return fmt.Sprintf("geometry(LineString,%d)", SRID)
}
