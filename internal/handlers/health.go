package handlers

import (
	"net/http"

	"gallery-backend/internal/models"

	"github.com/gin-gonic/gin"
)

func HealthHandler(c *gin.Context) {
	response := models.HealthResponse{
		Status: "ok",
	}
	c.JSON(http.StatusOK, response)
}
