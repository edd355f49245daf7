package handler

import (
	"net/http"

	"lapor/internal/middleware"
	"lapor/internal/service"
	"lapor/pkg/response"

	"github.com/gin-gonic/gin"
)

type StorageHandler struct {
	storage service.StorageService
}

func NewStorageHandler(storage service.StorageService) *StorageHandler {
	return &StorageHandler{storage: storage}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *StorageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/uploads", middleware.RequireAuth(), h.Upload)
}

// Upload handles POST /uploads for report attachments
// @Summary      Upload attachment
// @Description  Stores a file and returns the URL to reference from a task attachment
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "File to upload"
// @Success      201   {object}  response.Response{data=service.UploadResult}
// @Failure      400   {object}  response.Response
// @Failure      500   {object}  response.Response
// @Router       /uploads [post]
func (h *StorageHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing file"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read file"))
		return
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.storage.Upload(c.Request.Context(), f, fileHeader.Size, fileHeader.Filename, contentType)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}
