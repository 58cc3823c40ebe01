package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trainingapi/internal/auth"
	"trainingapi/internal/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func serializeUser(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}
}

// handleRegister creates a new account and returns a signed token for it.
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := models.ValidateUserName(req.Name); err != nil {
		s.handleError(c, err)
		return
	}
	if err := models.ValidateEmail(req.Email); err != nil {
		s.handleError(c, err)
		return
	}
	if err := models.ValidatePassword(req.Password); err != nil {
		s.handleError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.handleError(c, err)
		return
	}

	user := &models.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := s.store.CreateUser(c.Request.Context(), user); err != nil {
		s.handleError(c, err)
		return
	}

	token, err := s.tokens.Generate(user.ID, user.Name)
	if err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"token": token,
		"user":  serializeUser(user),
	})
}

// handleLogin verifies credentials and returns a signed token.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.tokens.Generate(user.ID, user.Name)
	if err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"token": token,
		"user":  serializeUser(user),
	})
}
