package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/btlam02/gis-app/internal/config"
	"github.com/btlam02/gis-app/internal/entity"
	"github.com/btlam02/gis-app/internal/geometry"
	"github.com/btlam02/gis-app/internal/modules/bridge/dto"
	"github.com/btlam02/gis-app/internal/modules/bridge/repository"
	eventService "github.com/btlam02/gis-app/internal/modules/event/service"
	searchService "github.com/btlam02/gis-app/internal/modules/search/service"
	"github.com/btlam02/gis-app/pkg/apperror"
	"github.com/btlam02/gis-app/pkg/storage"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type BridgeService interface {
	GetAll(ctx context.Context) ([]*dto.BridgeResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.BridgeResponse, error)
	Create(ctx context.Context, input dto.CreateBridgeInput, image *dto.ImageFile) (*dto.BridgeResponse, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdateBridgeInput, image *dto.ImageFile) (*dto.BridgeResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bridgeService struct {
	repo         repository.BridgeRepository
	storage      storage.ImageStorage
	search       searchService.SearchService
	events       eventService.EventService
	sanitizer    *bluemonday.Policy
	uploadFolder string
}

func NewBridgeService(
	repo repository.BridgeRepository,
	imageStorage storage.ImageStorage,
	search searchService.SearchService,
	events eventService.EventService,
	cfg *config.Config,
) BridgeService {
	return &bridgeService{
		repo:         repo,
		storage:      imageStorage,
		search:       search,
		events:       events,
		sanitizer:    bluemonday.StrictPolicy(),
		uploadFolder: cfg.CloudinaryUploadFolder,
	}
}

func (s *bridgeService) GetAll(ctx context.Context) ([]*dto.BridgeResponse, error) {
	bridges, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewBridgeResponses(bridges), nil
}

func (s *bridgeService) Get(ctx context.Context, id uuid.UUID) (*dto.BridgeResponse, error) {
	bridge, err := s.findBridge(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewBridgeResponse(bridge), nil
}

// Create builds the bridge from form fields, uploads the image first when one
// is attached, then writes bridge and segments atomically. An upload failure
// aborts before anything touches the database.
func (s *bridgeService) Create(ctx context.Context, input dto.CreateBridgeInput, image *dto.ImageFile) (*dto.BridgeResponse, error) {
	bridge := &entity.Bridge{
		Name:        input.Name,
		Status:      entity.StatusUnknown,
		Description: s.sanitizeDescription(input.Description),
		Material:    input.Material,
		BridgeType:  entity.TypeOther,
		Length:      input.Length,
		Width:       input.Width,
		District:    input.District,
		BuiltYear:   input.BuiltYear,
	}
	if input.Status != "" {
		bridge.Status = entity.BridgeStatus(input.Status)
	}
	if input.BridgeType != "" {
		bridge.BridgeType = entity.BridgeType(input.BridgeType)
	}

	if input.CenterPointWKT != nil && *input.CenterPointWKT != "" {
		point, err := geometry.ParsePointWKT(*input.CenterPointWKT)
		if err != nil {
			return nil, err
		}
		bridge.CenterPoint = point
	}

	if input.SegmentsJSON != nil && *input.SegmentsJSON != "" {
		segments, err := parseSegments(*input.SegmentsJSON)
		if err != nil {
			return nil, err
		}
		bridge.Segments = segments
	}

	if image != nil {
		imageURL, err := s.storage.UploadImage(ctx, image.Reader, s.uploadFolder, image.FileName)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		bridge.ImageURL = &imageURL
	}

	if err := s.repo.Create(ctx, bridge); err != nil {
		return nil, err
	}

	s.indexBridge(bridge)
	s.publishEvent(ctx, "created", bridge)

	return dto.NewBridgeResponse(bridge), nil
}

// Update applies only the fields the caller sent. Segments are create-only and
// never touched here. A replaced image is deleted from storage after the
// database write succeeds, best-effort.
func (s *bridgeService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateBridgeInput, image *dto.ImageFile) (*dto.BridgeResponse, error) {
	bridge, err := s.findBridge(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		bridge.Name = *input.Name
	}
	if input.Status != nil {
		bridge.Status = entity.BridgeStatus(*input.Status)
	}
	if input.Description != nil {
		bridge.Description = s.sanitizeDescription(input.Description)
	}
	if input.Material != nil {
		bridge.Material = input.Material
	}
	if input.BridgeType != nil {
		bridge.BridgeType = entity.BridgeType(*input.BridgeType)
	}
	if input.Length != nil {
		bridge.Length = input.Length
	}
	if input.Width != nil {
		bridge.Width = input.Width
	}
	if input.District != nil {
		bridge.District = input.District
	}
	if input.BuiltYear != nil {
		bridge.BuiltYear = input.BuiltYear
	}
	if input.CenterPointWKT != nil && *input.CenterPointWKT != "" {
		point, err := geometry.ParsePointWKT(*input.CenterPointWKT)
		if err != nil {
			return nil, err
		}
		bridge.CenterPoint = point
	}

	var oldImageURL string
	if image != nil {
		imageURL, err := s.storage.UploadImage(ctx, image.Reader, s.uploadFolder, image.FileName)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		if bridge.ImageURL != nil {
			oldImageURL = *bridge.ImageURL
		}
		bridge.ImageURL = &imageURL
	}

	if err := s.repo.Update(ctx, bridge); err != nil {
		return nil, err
	}

	if oldImageURL != "" {
		if err := s.storage.DeleteImage(ctx, oldImageURL); err != nil {
			log.Printf("Failed to delete replaced image %s: %v", oldImageURL, err)
		}
	}

	s.indexBridge(bridge)
	s.publishEvent(ctx, "updated", bridge)

	return dto.NewBridgeResponse(bridge), nil
}

func (s *bridgeService) Delete(ctx context.Context, id uuid.UUID) error {
	bridge, err := s.findBridge(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if bridge.ImageURL != nil {
		if err := s.storage.DeleteImage(ctx, *bridge.ImageURL); err != nil {
			log.Printf("Failed to delete image for bridge %s: %v", id, err)
		}
	}

	if s.search != nil {
		if err := s.search.DeleteBridge(id.String()); err != nil {
			log.Printf("Failed to remove bridge %s from search index: %v", id, err)
		}
	}
	s.publishEvent(ctx, "deleted", bridge)

	return nil
}

func (s *bridgeService) findBridge(ctx context.Context, id uuid.UUID) (*entity.Bridge, error) {
	bridge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return bridge, nil
}

func (s *bridgeService) sanitizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	clean := s.sanitizer.Sanitize(*description)
	return &clean
}

func (s *bridgeService) indexBridge(bridge *entity.Bridge) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexBridge(bridge); err != nil {
		log.Printf("Failed to index bridge %s: %v", bridge.ID, err)
	}
}

func (s *bridgeService) publishEvent(ctx context.Context, action string, bridge *entity.Bridge) {
	if s.events == nil {
		return
	}
	s.events.PublishBridgeEvent(ctx, action, bridge)
}

func parseSegments(segmentsJSON string) ([]entity.BridgeSegment, error) {
	var inputs []dto.SegmentInput
	if err := json.Unmarshal([]byte(segmentsJSON), &inputs); err != nil {
		return nil, fmt.Errorf("%w: malformed segments payload: %v", apperror.ErrInvalidInput, err)
	}

	segments := make([]entity.BridgeSegment, 0, len(inputs))
	for i, in := range inputs {
		if len(in.Geometry) == 0 {
			return nil, fmt.Errorf("%w: segment %d is missing geometry", apperror.ErrInvalidGeometry, i)
		}
		line, err := geometry.ParseLineStringGeoJSON(in.Geometry)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segments = append(segments, entity.BridgeSegment{
			Geometry:    *line,
			SegmentName: in.SegmentName,
			Order:       in.Order,
		})
	}

	return segments, nil
}
