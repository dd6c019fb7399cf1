package handlers

import (
	"path/filepath"
	"strings"

	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var posterExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

type UploadHandler struct {
	posters services.PosterStorage
	logger  *logrus.Logger
}

// NewUploadHandler accepts a nil storage, in which case uploads are reported
// as unavailable.
func NewUploadHandler(posters services.PosterStorage, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		posters: posters,
		logger:  logger,
	}
}

// GetPresignedURL godoc
// @Summary Get presigned URL for a poster upload
// @Description Generate a presigned URL for uploading a poster image to MinIO/S3
// @Tags upload
// @Accept json
// @Produce json
// @Param filename query string true "Filename"
// @Param contentType query string false "Content Type" default(image/jpeg)
// @Success 200 {object} utils.StandardResponse
// @Failure 400 {object} utils.StandardResponse
// @Failure 500 {object} utils.StandardResponse
// @Failure 503 {object} utils.StandardResponse
// @Router /upload/presign [get]
func (h *UploadHandler) GetPresignedURL(c *fiber.Ctx) error {
	if h.posters == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Poster storage is not configured")
	}

	filename := c.Query("filename")
	if filename == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "filename is required")
	}
	if !posterExtensions[strings.ToLower(filepath.Ext(filename))] {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "filename must be a jpg, jpeg, png or webp image")
	}

	contentType := c.Query("contentType", "image/jpeg")

	presignedURL, publicURL, err := h.posters.GeneratePresignedURL(c.UserContext(), filename, contentType)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate presigned URL")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate presigned URL")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Presigned URL generated successfully", fiber.Map{
		"presigned_url": presignedURL,
		"public_url":    publicURL,
	})
}
