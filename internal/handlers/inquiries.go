package handlers

import (
	"net/http"
	"strings"

	"gallery-backend/internal/models"
	"gallery-backend/internal/supabase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InquiriesHandler struct {
	dbClient *supabase.DatabaseClient
}

func NewInquiriesHandler(dbClient *supabase.DatabaseClient) *InquiriesHandler {
	return &InquiriesHandler{
		dbClient: dbClient,
	}
}

// CreateInquiry is the public intake from the gallery's inquiry form.
func (h *InquiriesHandler) CreateInquiry(c *gin.Context) {
	var req models.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	var productID *uuid.UUID
	if req.ProductID != "" {
		parsed, err := uuid.Parse(req.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid product id"})
			return
		}
		productID = &parsed
	}

	inquiry, err := h.dbClient.CreateInquiry(productID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), strings.TrimSpace(req.Phone), strings.TrimSpace(req.Message))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create inquiry",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.InquiryResponse{Inquiry: *inquiry})
}

func (h *InquiriesHandler) ListInquiries(c *gin.Context) {
	inquiries, err := h.dbClient.ListInquiries()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list inquiries",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, models.InquiryListResponse{Inquiries: inquiries})
}

func (h *InquiriesHandler) UpdateInquiry(c *gin.Context) {
	inquiryID, err := uuid.Parse(c.Param("inquiry_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid inquiry id"})
		return
	}

	var req models.UpdateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}
	if !models.IsValidInquiryStatus(req.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown status"})
		return
	}

	if err := h.dbClient.UpdateInquiryStatus(inquiryID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update inquiry",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"inquiry_id": inquiryID.String(), "status": req.Status})
}
