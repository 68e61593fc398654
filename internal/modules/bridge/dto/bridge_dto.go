package dto

import (
	"encoding/json"
	"io"

	"github.com/btlam02/gis-app/internal/entity"
	"github.com/paulmach/orb/geojson"
)

// CreateBridgeInput arrives as multipart form data so an image file can ride
// along. CenterPointWKT carries WKT ("POINT(lon lat)"), SegmentsJSON a JSON
// array of SegmentInput.
type CreateBridgeInput struct {
	Name           string   `form:"name" binding:"required,max=255"`
	Status         string   `form:"status" binding:"omitempty,oneof=good repair closed unknown"`
	Description    *string  `form:"description"`
	Material       *string  `form:"material" binding:"omitempty,max=100"`
	BridgeType     string   `form:"bridge_type" binding:"omitempty,oneof=beam arch suspension cable_stayed other"`
	Length         *float64 `form:"length" binding:"omitempty,gt=0"`
	Width          *float64 `form:"width" binding:"omitempty,gt=0"`
	District       *string  `form:"district" binding:"omitempty,max=100"`
	BuiltYear      *int     `form:"built_year" binding:"omitempty,gte=1800,lte=2100"`
	CenterPointWKT *string  `form:"center_point_wkt"`
	SegmentsJSON   *string  `form:"segments"`
}

// UpdateBridgeInput is a partial update: nil fields keep their stored value.
type UpdateBridgeInput struct {
	Name           *string  `form:"name" binding:"omitempty,max=255"`
	Status         *string  `form:"status" binding:"omitempty,oneof=good repair closed unknown"`
	Description    *string  `form:"description"`
	Material       *string  `form:"material" binding:"omitempty,max=100"`
	BridgeType     *string  `form:"bridge_type" binding:"omitempty,oneof=beam arch suspension cable_stayed other"`
	Length         *float64 `form:"length" binding:"omitempty,gt=0"`
	Width          *float64 `form:"width" binding:"omitempty,gt=0"`
	District       *string  `form:"district" binding:"omitempty,max=100"`
	BuiltYear      *int     `form:"built_year" binding:"omitempty,gte=1800,lte=2100"`
	CenterPointWKT *string  `form:"center_point_wkt"`
}

// SegmentInput is one element of the "segments" JSON array on create.
type SegmentInput struct {
	SegmentName *string         `json:"segment_name"`
	Order       int             `json:"order"`
	Geometry    json.RawMessage `json:"geometry"`
}

// ImageFile carries an uploaded image from the handler to the service.
type ImageFile struct {
	Reader   io.Reader
	FileName string
}

// BridgeResponse renders a bridge with its segments as GeoJSON Features, the
// shape map clients consume directly.
type BridgeResponse struct {
	*entity.Bridge
	Segments []*geojson.Feature `json:"segments"`
}

// NewBridgeResponse wraps an entity, lifting each segment into a Feature with
// segment_name and order as properties.
func NewBridgeResponse(bridge *entity.Bridge) *BridgeResponse {
	features := make([]*geojson.Feature, 0, len(bridge.Segments))
	for _, seg := range bridge.Segments {
		f := geojson.NewFeature(seg.Geometry.LineString)
		f.ID = seg.ID.String()
		f.Properties = geojson.Properties{
			"segment_name": seg.SegmentName,
			"order":        seg.Order,
		}
		features = append(features, f)
	}

	return &BridgeResponse{Bridge: bridge, Segments: features}
}

// NewBridgeResponses maps a list of bridges.
func NewBridgeResponses(bridges []*entity.Bridge) []*BridgeResponse {
	out := make([]*BridgeResponse, 0, len(bridges))
	for _, b := range bridges {
		out = append(out, NewBridgeResponse(b))
	}
	return out
}
