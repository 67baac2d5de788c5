package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobboard/internal/api/middleware"
	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/services"
)

type AuthHandler struct {
	svc    services.AuthService
	secure bool
}

// NewAuthHandler builds the handler; secure marks the token cookie Secure.
func NewAuthHandler(svc services.AuthService, secure bool) *AuthHandler {
	return &AuthHandler{svc: svc, secure: secure}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "AuthHandler.Register", err)
		return
	}
	sess, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.setCookie(c, sess.Token)
	writeOK(c, http.StatusCreated, sess)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "AuthHandler.Login", err)
		return
	}
	sess, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.setCookie(c, sess.Token)
	writeOK(c, http.StatusOK, sess)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.secure, true)
	writeOK(c, http.StatusOK, nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	me, err := h.svc.Me(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, me)
}

func (h *AuthHandler) setCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(auth.DefaultTTL.Seconds()), "/", "", h.secure, true)
}
