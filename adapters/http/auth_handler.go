package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kartikeya-dewal/devConnector/internal/application/usecase/auth"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
)

type AuthHandler struct {
	registerUseCase    *auth.RegisterUseCase
	loginUseCase       *auth.LoginUseCase
	currentUserUseCase *auth.CurrentUserUseCase
}

func NewAuthHandler(registerUC *auth.RegisterUseCase, loginUC *auth.LoginUseCase, currentUC *auth.CurrentUserUseCase) *AuthHandler {
	return &AuthHandler{
		registerUseCase:    registerUC,
		loginUseCase:       loginUC,
		currentUserUseCase: currentUC,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req, registerMessages); err != nil {
		c.Error(err)
		return
	}

	output, err := h.registerUseCase.Execute(c.Request.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": output.Token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req, loginMessages); err != nil {
		c.Error(err)
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": output.Token})
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	u, err := h.currentUserUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToUserDTO(u))
}
