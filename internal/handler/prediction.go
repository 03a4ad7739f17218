package handler

import (
	"net/http"
	"strconv"
	"strings"

	"houseprice/internal/model"
	"houseprice/internal/render"
	"houseprice/internal/service"

	"github.com/gin-gonic/gin"
)

type PredictionHandler struct {
	predictionService *service.PredictionService
	defaultLimit      int
	maxLimit          int
}

func NewPredictionHandler(predictionService *service.PredictionService, defaultLimit, maxLimit int) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		defaultLimit:      defaultLimit,
		maxLimit:          maxLimit,
	}
}

// Predict handles POST /api/v1/predictions with the full named feature set.
// Omitted fields keep their form defaults, so a partial payload still
// produces a well-formed request. An optional bearer token is forwarded to
// the prediction backend.
func (h *PredictionHandler) Predict(c *gin.Context) {
	features := model.DefaultNamedFeatures()
	if err := c.ShouldBindJSON(&features); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body: " + err.Error()})
		return
	}

	summary, err := h.predictionService.PredictNamed(c.Request.Context(), features, bearerToken(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// PredictBasic handles POST /api/v1/predictions/basic, the simplified form
// with amenity checkboxes instead of the raw model features.
func (h *PredictionHandler) PredictBasic(c *gin.Context) {
	features := model.DefaultBasicFeatures()
	if err := c.ShouldBindJSON(&features); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body: " + err.Error()})
		return
	}

	summary, err := h.predictionService.PredictBasic(c.Request.Context(), features)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// History handles GET /api/v1/predictions. Supports ?limit=, capped server
// side by the configured history limit.
func (h *PredictionHandler) History(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	records, err := h.predictionService.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions": records,
		"count":       len(records),
	})
}

// Chart handles GET /api/v1/predictions/chart?min=&max= and returns the
// distribution curve as SVG. Unparseable parameters are a client error;
// a parseable but invalid range degrades to the placeholder chart so the
// result panel always has something to show.
func (h *PredictionHandler) Chart(c *gin.Context) {
	minPrice, err := strconv.ParseFloat(c.Query("min"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "min must be a number"})
		return
	}
	maxPrice, err := strconv.ParseFloat(c.Query("max"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "max must be a number"})
		return
	}

	svg, err := render.Chart(minPrice, maxPrice)
	if err != nil {
		svg = render.EmptyChart()
	}

	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

// UpsertComparables handles POST /api/v1/comparables, a batch load of
// comparable properties used for similarity lookups.
func (h *PredictionHandler) UpsertComparables(c *gin.Context) {
	var req model.ComparableBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body: " + err.Error()})
		return
	}
	if len(req.Comparables) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "comparables must not be empty"})
		return
	}

	saved, errs := h.predictionService.UpsertComparables(c.Request.Context(), req.Comparables)

	c.JSON(http.StatusOK, model.ComparableBatchResponse{
		Success: saved,
		Failed:  len(req.Comparables) - saved,
		Errors:  errs,
	})
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
