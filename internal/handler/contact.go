package handler

import (
	"log"
	"net/http"

	"houseprice/internal/model"
	"houseprice/internal/repository"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	repo *repository.PostgresRepository
}

func NewContactHandler(repo *repository.PostgresRepository) *ContactHandler {
	return &ContactHandler{repo: repo}
}

// Submit handles POST /api/v1/contact.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body: " + err.Error()})
		return
	}

	id, err := h.repo.SaveContact(c.Request.Context(), &req)
	if err != nil {
		log.Printf("Warning: failed to save contact submission: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to submit message. Please try again."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      id,
		"message": "Thank you for reaching out. We will get back to you soon.",
	})
}

// Submissions handles GET /api/v1/contact/submissions.
func (h *ContactHandler) Submissions(c *gin.Context) {
	submissions, err := h.repo.ListContacts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"count":       len(submissions),
	})
}
