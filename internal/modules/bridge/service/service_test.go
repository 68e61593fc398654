package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/btlam02/gis-app/internal/config"
	"github.com/btlam02/gis-app/internal/entity"
	"github.com/btlam02/gis-app/internal/modules/bridge/dto"
	"github.com/btlam02/gis-app/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockBridgeRepository struct {
	mock.Mock
}

func (m *MockBridgeRepository) Create(ctx context.Context, bridge *entity.Bridge) error {
	args := m.Called(ctx, bridge)
	return args.Error(0)
}

func (m *MockBridgeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bridge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Bridge), args.Error(1)
}

func (m *MockBridgeRepository) FindAll(ctx context.Context) ([]*entity.Bridge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Bridge), args.Error(1)
}

func (m *MockBridgeRepository) Update(ctx context.Context, bridge *entity.Bridge) error {
	args := m.Called(ctx, bridge)
	return args.Error(0)
}

func (m *MockBridgeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBridgeRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	args := m.Called(ctx, r, folder, fileName)
	return args.String(0), args.Error(1)
}

func (m *MockImageStorage) DeleteImage(ctx context.Context, fileURL string) error {
	args := m.Called(ctx, fileURL)
	return args.Error(0)
}

func newTestService(repo *MockBridgeRepository, imageStorage *MockImageStorage) BridgeService {
	cfg := &config.Config{CloudinaryUploadFolder: "bridges"}
	return NewBridgeService(repo, imageStorage, nil, nil, cfg)
}

func strPtr(s string) *string { return &s }

func TestCreateBridgeWithGeometry(t *testing.T) {
	repo := new(MockBridgeRepository)
	svc := newTestService(repo, new(MockImageStorage))

	segments := `[
		{"segment_name": "west span", "order": 0, "geometry": {"type": "LineString", "coordinates": [[106.70, 10.80], [106.71, 10.81]]}},
		{"segment_name": "east span", "order": 1, "geometry": {"type": "LineString", "coordinates": [[106.71, 10.81], [106.72, 10.82]]}}
	]`
	input := dto.CreateBridgeInput{
		Name:           "Saigon Bridge",
		Status:         "good",
		BridgeType:     "beam",
		CenterPointWKT: strPtr("POINT(106.71 10.81)"),
		SegmentsJSON:   &segments,
	}

	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Bridge")).Return(nil)

	res, err := svc.Create(context.Background(), input, nil)

	require.NoError(t, err)
	assert.Equal(t, "Saigon Bridge", res.Name)
	assert.Equal(t, entity.StatusGood, res.Status)
	assert.Equal(t, entity.TypeBeam, res.BridgeType)
	require.NotNil(t, res.Bridge.CenterPoint)
	assert.InDelta(t, 106.71, res.Bridge.CenterPoint.Lon(), 1e-9)
	assert.InDelta(t, 10.81, res.Bridge.CenterPoint.Lat(), 1e-9)
	require.Len(t, res.Segments, 2)
	assert.Equal(t, 0, res.Segments[0].Properties["order"])
	assert.Equal(t, strPtr("west span"), res.Segments[0].Properties["segment_name"])
	repo.AssertExpectations(t)
}

func TestCreateBridgeDefaults(t *testing.T) {
	repo := new(MockBridgeRepository)
	svc := newTestService(repo, new(MockImageStorage))

	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Bridge")).Return(nil)

	res, err := svc.Create(context.Background(), dto.CreateBridgeInput{Name: "No Name Creek"}, nil)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusUnknown, res.Status)
	assert.Equal(t, entity.TypeOther, res.BridgeType)
	assert.Nil(t, res.Bridge.CenterPoint)
	assert.Empty(t, res.Segments)
}

func TestCreateBridgeInvalidGeometryAborts(t *testing.T) {
	repo := new(MockBridgeRepository)
	svc := newTestService(repo, new(MockImageStorage))

	input := dto.CreateBridgeInput{
		Name:           "Broken",
		CenterPointWKT: strPtr("POINT(not numbers)"),
	}

	_, err := svc.Create(context.Background(), input, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidGeometry)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBridgeSegmentTooShort(t *testing.T) {
	repo := new(MockBridgeRepository)
	svc := newTestService(repo, new(MockImageStorage))

	segments := `[{"order": 0, "geometry": {"type": "LineString", "coordinates": [[106.70, 10.80]]}}]`
	input := dto.CreateBridgeInput{Name: "Stub", SegmentsJSON: &segments}

	_, err := svc.Create(context.Background(), input, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidGeometry)
	assert.Contains(t, err.Error(), "segment 0")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBridgeUploadFailureAborts(t *testing.T) {
	repo := new(MockBridgeRepository)
	imageStorage := new(MockImageStorage)
	svc := newTestService(repo, imageStorage)

	imageStorage.On("UploadImage", mock.Anything, mock.Anything, "bridges", "photo.jpg").
		Return("", errors.New("cloudinary unreachable"))

	image := &dto.ImageFile{Reader: strings.NewReader("bytes"), FileName: "photo.jpg"}
	_, err := svc.Create(context.Background(), dto.CreateBridgeInput{Name: "Photogenic"}, image)

	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateBridgePartial(t *testing.T) {
	repo := new(MockBridgeRepository)
	svc := newTestService(repo, new(MockImageStorage))

	id := uuid.New()
	length := 420.5
	existing := &entity.Bridge{
		ID:         id,
		Name:       "Old Iron",
		Status:     entity.StatusGood,
		BridgeType: entity.TypeArch,
		Length:     &length,
		District:   strPtr("District 1"),
	}

	repo.On("FindByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*entity.Bridge")).Return(nil)

	res, err := svc.Update(context.Background(), id, dto.UpdateBridgeInput{Status: strPtr("repair")}, nil)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusRepair, res.Status)
	assert.Equal(t, "Old Iron", res.Name)
	assert.Equal(t, entity.TypeArch, res.BridgeType)
	assert.Equal(t, &length, res.Bridge.Length)
	assert.Equal(t, strPtr("District 1"), res.Bridge.District)
}

func TestUpdateBridgeReplacesImage(t *testing.T) {
	repo := new(MockBridgeRepository)
	imageStorage := new(MockImageStorage)
	svc := newTestService(repo, imageStorage)

	id := uuid.New()
	oldURL := "https://res.cloudinary.com/demo/image/upload/v1/bridges/old.jpg"
	existing := &entity.Bridge{ID: id, Name: "Snapshot", ImageURL: &oldURL}

	repo.On("FindByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*entity.Bridge")).Return(nil)
	imageStorage.On("UploadImage", mock.Anything, mock.Anything, "bridges", "new.jpg").
		Return("https://res.cloudinary.com/demo/image/upload/v1/bridges/new.jpg", nil)
	imageStorage.On("DeleteImage", mock.Anything, oldURL).Return(nil)

	image := &dto.ImageFile{Reader: strings.NewReader("bytes"), FileName: "new.jpg"}
	res, err := svc.Update(context.Background(), id, dto.UpdateBridgeInput{}, image)

	require.NoError(t, err)
	require.NotNil(t, res.Bridge.ImageURL)
	assert.Contains(t, *res.Bridge.ImageURL, "new.jpg")
	imageStorage.AssertExpectations(t)
}

func TestGetBridgeNotFound(t *testing.T) {
	repo := new(MockBridgeRepository)
	svc := newTestService(repo, new(MockImageStorage))

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), id)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteBridgeRemovesImage(t *testing.T) {
	repo := new(MockBridgeRepository)
	imageStorage := new(MockImageStorage)
	svc := newTestService(repo, imageStorage)

	id := uuid.New()
	imageURL := "https://res.cloudinary.com/demo/image/upload/v1/bridges/gone.jpg"
	existing := &entity.Bridge{ID: id, Name: "Condemned", ImageURL: &imageURL}

	repo.On("FindByID", mock.Anything, id).Return(existing, nil)
	repo.On("Delete", mock.Anything, id).Return(nil)
	imageStorage.On("DeleteImage", mock.Anything, imageURL).Return(nil)

	err := svc.Delete(context.Background(), id)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	imageStorage.AssertExpectations(t)
}

func TestCreateBridgeSanitizesDescription(t *testing.T) {
	repo := new(MockBridgeRepository)
	svc := newTestService(repo, new(MockImageStorage))

	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Bridge")).Return(nil)

	input := dto.CreateBridgeInput{
		Name:        "Scripted",
		Description: strPtr(`<script>alert("x")</script>steel truss`),
	}
	res, err := svc.Create(context.Background(), input, nil)

	require.NoError(t, err)
	require.NotNil(t, res.Bridge.Description)
	assert.NotContains(t, *res.Bridge.Description, "<script>")
	assert.Contains(t, *res.Bridge.Description, "steel truss")
}
