package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/kartikeya-dewal/devConnector/internal/application/usecase/profile"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	view, err := h.profileUseCase.GetCurrentProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileViewDTO(*view))
}

func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	var req UpsertProfileRequest
	if err := bindJSON(c, &req, upsertProfileMessages); err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.ExecuteUpsertProfile(c.Request.Context(), profileUC.UpsertProfileInput{
		UserID: userID,
		Patch:  req.ToPatch(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	views, err := h.profileUseCase.ListProfiles(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]ProfileDTO, len(views))
	for i, v := range views {
		out[i] = ToProfileViewDTO(v)
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProfileHandler) GetProfileByUserID(c *gin.Context) {
	view, err := h.profileUseCase.GetProfileByUserID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileViewDTO(*view))
}

func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	if err := h.profileUseCase.DeleteProfileAndUser(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "User deleted"})
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	var req ExperienceRequest
	if err := bindJSON(c, &req, experienceMessages); err != nil {
		c.Error(err)
		return
	}
	exp, err := req.ToDomain()
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.AddExperience(c.Request.Context(), userID, exp)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	p, err := h.profileUseCase.RemoveExperience(c.Request.Context(), userID, c.Param("expId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	var req EducationRequest
	if err := bindJSON(c, &req, educationMessages); err != nil {
		c.Error(err)
		return
	}
	edu, err := req.ToDomain()
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.AddEducation(c.Request.Context(), userID, edu)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	p, err := h.profileUseCase.RemoveEducation(c.Request.Context(), userID, c.Param("eduId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}
