package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"itemseek-backend/internal/auth"
	"itemseek-backend/internal/model"
	"itemseek-backend/internal/store"
)

var errBadCredentials = errors.New("invalid email or password")

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signupRequest struct {
	BusinessName string `json:"businessName" binding:"required"`
	Industry     string `json:"industry"`
	Name         string `json:"name"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// bindJSON decodes the body into v and runs its binding tags.
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return badRequest("invalid request: " + err.Error())
	}
	return nil
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errBadCredentials.Error()})
			return
		}
		h.respondError(c, err)
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errBadCredentials.Error()})
		return
	}

	h.issueToken(c, http.StatusOK, user)
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		BusinessName: req.BusinessName,
		Industry:     req.Industry,
		PasswordHash: hash,
	}
	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		h.respondError(c, err)
		return
	}
	h.log.WithField("email", user.Email).Info("User signed up")

	h.issueToken(c, http.StatusCreated, user)
}

// Logout handles POST /api/auth/logout. The presented token stays revoked
// until it would have expired.
func (h *Handler) Logout(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	if err := h.revocations.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) issueToken(c *gin.Context, code int, user *model.User) {
	token, expiresAt, err := h.issuer.Issue(user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(code, tokenResponse{Token: token, ExpiresAt: expiresAt})
}

// actor names the caller in audit entries.
func actor(c *gin.Context) string {
	if claims := auth.ClaimsFrom(c); claims != nil {
		return claims.Email
	}
	return ""
}
