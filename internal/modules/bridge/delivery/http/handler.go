package handler

import (
	"net/http"

	"github.com/btlam02/gis-app/internal/modules/bridge/dto"
	"github.com/btlam02/gis-app/internal/modules/bridge/service"
	searchService "github.com/btlam02/gis-app/internal/modules/search/service"
	"github.com/btlam02/gis-app/pkg/apperror"
	"github.com/btlam02/gis-app/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BridgeHandler struct {
	bridgeService service.BridgeService
	searchService searchService.SearchService
}

func NewBridgeHandler(bridgeService service.BridgeService, search searchService.SearchService) *BridgeHandler {
	return &BridgeHandler{
		bridgeService: bridgeService,
		searchService: search,
	}
}

func (h *BridgeHandler) GetAll(c *gin.Context) {
	bridges, err := h.bridgeService.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bridges})
}

func (h *BridgeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrNotFound)
		return
	}

	bridge, err := h.bridgeService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, bridge)
}

// Create accepts multipart form data: scalar fields, optional WKT center
// point, an optional "segments" JSON array and an optional "image" file.
func (h *BridgeHandler) Create(c *gin.Context) {
	var input dto.CreateBridgeInput
	if err := c.ShouldBind(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	image, err := h.imageFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bridge, err := h.bridgeService.Create(c.Request.Context(), input, image)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, bridge)
}

func (h *BridgeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrNotFound)
		return
	}

	var input dto.UpdateBridgeInput
	if err := c.ShouldBind(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	image, err := h.imageFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bridge, err := h.bridgeService.Update(c.Request.Context(), id, input, image)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, bridge)
}

func (h *BridgeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrNotFound)
		return
	}

	if err := h.bridgeService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "bridge deleted successfully"})
}

// Search proxies full-text queries to the search index. Query params: q,
// status, district.
func (h *BridgeHandler) Search(c *gin.Context) {
	if h.searchService == nil {
		response.Error(c, apperror.New(http.StatusServiceUnavailable, "search is not configured", nil))
		return
	}

	res, err := h.searchService.Search(c.Query("q"), c.Query("status"), c.Query("district"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res.Hits, "total": res.EstimatedTotalHits})
}

// imageFromForm pulls the optional "image" file out of the multipart form.
// Absence is not an error.
func (h *BridgeHandler) imageFromForm(c *gin.Context) (*dto.ImageFile, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		// No file attached
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperror.New(http.StatusBadRequest, "could not read uploaded image", err)
	}

	return &dto.ImageFile{Reader: file, FileName: fileHeader.Filename}, nil
}
