package handler

import (
	"errors"
	"log"
	"net/http"

	"houseprice/internal/model"

	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy onto HTTP responses. Error payloads
// carry a "detail" field, matching what the frontend already parses. Remote
// detail strings pass through verbatim; transport and parsing failures get
// generic copy so raw errors never reach the user.
func respondError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	var serverErr *model.PredictionServerError
	var netErr *model.NetworkError
	var malformedErr *model.MalformedResponseError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"detail": validationErr.Error(),
			"field":  validationErr.Field,
		})
	case errors.As(err, &serverErr):
		status := serverErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"detail": serverErr.Detail})
	case errors.As(err, &netErr):
		c.JSON(http.StatusGatewayTimeout, gin.H{"detail": "Network error. Please check your connection."})
	case errors.As(err, &malformedErr):
		log.Printf("Warning: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Prediction failed. Please try again."})
	default:
		log.Printf("Warning: unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "An unexpected error occurred"})
	}
}
