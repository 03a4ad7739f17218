package handler

import (
	"net/http"

	"houseprice/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// PriceTrends handles GET /api/v1/analytics/price-trends. Aggregates stored
// predictions by month; results are cached.
func (h *AnalyticsHandler) PriceTrends(c *gin.Context) {
	trends, err := h.analyticsService.PriceTrends(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

// FeatureImportance handles GET /api/v1/analytics/feature-importance.
func (h *AnalyticsHandler) FeatureImportance(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"features": h.analyticsService.FeatureImportance()})
}

// Accuracy handles GET /api/v1/analytics/prediction-accuracy.
func (h *AnalyticsHandler) Accuracy(c *gin.Context) {
	c.JSON(http.StatusOK, h.analyticsService.Accuracy())
}
