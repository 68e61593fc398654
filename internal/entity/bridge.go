package entity

import (
	"time"

	"github.com/btlam02/gis-app/internal/geometry"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BridgeStatus string

const (
	StatusGood    BridgeStatus = "good"
	StatusRepair  BridgeStatus = "repair"
	StatusClosed  BridgeStatus = "closed"
	StatusUnknown BridgeStatus = "unknown"
)

type BridgeType string

const (
	TypeBeam        BridgeType = "beam"
	TypeArch        BridgeType = "arch"
	TypeSuspension  BridgeType = "suspension"
	TypeCableStayed BridgeType = "cable_stayed"
	TypeOther       BridgeType = "other"
)

type Bridge struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Status      BridgeStatus    `gorm:"size:20;not null;default:unknown" json:"status"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	ImageURL    *string         `gorm:"size:500" json:"image_url,omitempty"`
	Material    *string         `gorm:"size:100" json:"material,omitempty"`
	BridgeType  BridgeType      `gorm:"size:50;not null;default:other" json:"bridge_type"`
	Length      *float64        `json:"length,omitempty"`
	Width       *float64        `json:"width,omitempty"`
	District    *string         `gorm:"size:100" json:"district,omitempty"`
	BuiltYear   *int            `json:"built_year,omitempty"`
	CenterPoint *geometry.Point `json:"center_point,omitempty"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Segments []BridgeSegment `gorm:"constraint:OnDelete:CASCADE" json:"segments"`
}

func (b *Bridge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BridgeSegment is one line-geometry piece of a bridge's physical path,
// ordered for display. Segments live and die with their bridge.
type BridgeSegment struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	BridgeID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"bridge_id"`
	Geometry    geometry.LineString `gorm:"not null" json:"geometry"`
	SegmentName *string             `gorm:"size:255" json:"segment_name,omitempty"`
	// "order" is reserved in SQL, hence the column rename.
	Order int `gorm:"column:display_order;not null;default:0" json:"order"`
}

func (s *BridgeSegment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
