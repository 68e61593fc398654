package geometry

import (
	"encoding/json"
	"testing"

	"github.com/btlam02/gis-app/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePointWKT(t *testing.T) {
	p, err := ParsePointWKT("POINT(106.7 10.8)")
	require.NoError(t, err)
	assert.Equal(t, 106.7, p.Lon())
	assert.Equal(t, 10.8, p.Lat())

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[106.7,10.8]}`, string(data))
}

func TestParsePointWKTMalformed(t *testing.T) {
	for _, input := range []string{"", "POINT()", "POINT(106.7)", "LINESTRING(0 0, 1 1)", "106.7 10.8"} {
		_, err := ParsePointWKT(input)
		assert.ErrorIs(t, err, apperror.ErrInvalidGeometry, "input %q", input)
	}
}

func TestParseLineStringGeoJSON(t *testing.T) {
	raw := []byte(`{"type":"LineString","coordinates":[[106.7,10.8],[106.71,10.81],[106.72,10.82]]}`)

	ls, err := ParseLineStringGeoJSON(raw)
	require.NoError(t, err)
	assert.Len(t, ls.LineString, 3)

	data, err := json.Marshal(ls)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(data))
}

func TestParseLineStringGeoJSONRejectsOtherTypes(t *testing.T) {
	_, err := ParseLineStringGeoJSON([]byte(`{"type":"Point","coordinates":[106.7,10.8]}`))
	assert.ErrorIs(t, err, apperror.ErrInvalidGeometry)

	_, err = ParseLineStringGeoJSON([]byte(`{"type":"LineString","coordinates":[[106.7,10.8]]}`))
	assert.ErrorIs(t, err, apperror.ErrInvalidGeometry)

	_, err = ParseLineStringGeoJSON([]byte(`not json`))
	assert.ErrorIs(t, err, apperror.ErrInvalidGeometry)
}

func TestPointDatabaseRoundTrip(t *testing.T) {
	p := NewPoint(106.7, 10.8)

	value, err := p.Value()
	require.NoError(t, err)

	var scanned Point
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, p.Point, scanned.Point)
}

func TestLineStringDatabaseRoundTrip(t *testing.T) {
	ls, err := ParseLineStringGeoJSON([]byte(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`))
	require.NoError(t, err)

	value, err := ls.Value()
	require.NoError(t, err)

	var scanned LineString
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, ls.LineString, scanned.LineString)
}
