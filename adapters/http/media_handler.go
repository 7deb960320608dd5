package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/kartikeya-dewal/devConnector/internal/application/usecase/media"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type MediaHandler struct {
	uploadAvatarUC *mediaUC.UploadAvatarUseCase
	logger         logger.Logger
}

func NewMediaHandler(uploadUC *mediaUC.UploadAvatarUseCase, log logger.Logger) *MediaHandler {
	return &MediaHandler{uploadAvatarUC: uploadUC, logger: log}
}

func (h *MediaHandler) UploadAvatar(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewValidation("File is required", "file"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	output, err := h.uploadAvatarUC.Execute(c.Request.Context(), mediaUC.UploadAvatarInput{
		UserID: userID,
		File:   file,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": output.AvatarURL})
}
