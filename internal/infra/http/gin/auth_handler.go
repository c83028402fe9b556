package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/dto"
	authsvc "staybook/internal/app/services/auth"
)

type AuthHandler struct {
	Service *authsvc.Service
	Logger  *slog.Logger
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.Logger, errInvalidBody)
		return
	}
	result, err := h.Service.Register(c.Request.Context(), authsvc.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse(result))
}

func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.Logger, errInvalidBody)
		return
	}
	result, err := h.Service.Login(c.Request.Context(), authsvc.LoginParams{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, authResponse(result))
}

func (h AuthHandler) Profile(c *gin.Context) {
	user, err := h.Service.Profile(c.Request.Context(), currentPrincipal(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapUser(user))
}

func authResponse(result *authsvc.AuthResult) dto.AuthResult {
	return dto.AuthResult{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.MapUser(result.User),
	}
}

var _ AuthHTTP = AuthHandler{}
