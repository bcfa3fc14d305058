package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mess-mate/internal/logger"
	"mess-mate/internal/middleware"
	"mess-mate/internal/model"
	"mess-mate/internal/service"
)

type AuthHandler struct{ auth *service.AuthService }

func NewAuthHandler(auth *service.AuthService) *AuthHandler { return &AuthHandler{auth: auth} }

// POST /api/signup  body: {"email":"...","password":"..."}
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Error("signup.failed", "email", req.Email, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}

	logger.Info("signup.ok", "uid", p.ID, "role", p.Role)
	h.respondWithToken(c, p)
}

// POST /api/login  body: {"email":"...","password":"..."}
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login.failed", "email", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
		return
	}

	logger.Info("login.ok", "uid", p.ID, "role", p.Role)
	h.respondWithToken(c, p)
}

// GET /api/me — the session-restoration check the client runs before
// rendering role-gated content.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.Principal(c))
}

// POST /api/logout — always succeeds; sessions are stateless tokens,
// so the client discards its copy and this just records the event.
func (h *AuthHandler) Logout(c *gin.Context) {
	logger.Info("logout", "uid", c.GetString("user_id"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) respondWithToken(c *gin.Context, p model.Principal) {
	token, err := middleware.NewToken(p)
	if err != nil {
		logger.Error("token.sign_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing failed"})
		return
	}
	c.JSON(http.StatusOK, model.AuthResponse{Token: token, User: p})
}
