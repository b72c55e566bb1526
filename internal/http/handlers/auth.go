package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"backend/internal/config"
	"backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Env      config.Env
	Students *services.StudentService
}

func NewAuthHandler(env config.Env, students *services.StudentService) *AuthHandler {
	return &AuthHandler{Env: env, Students: students}
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if !h.credentialsValid(req.Username, req.Password) {
		RespondError(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  req.Username,
		"role": "admin",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(h.Env.JWTSecret))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create token", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   tokenString,
		"user":    gin.H{"username": req.Username, "role": "admin"},
	})
}

// ADMIN_PASSWORD_HASH (bcrypt) wins when set; otherwise a plain comparison
// against ADMIN_PASSWORD.
func (h *AuthHandler) credentialsValid(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(h.Env.AdminUsername)) != 1 {
		return false
	}
	if h.Env.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.Env.AdminPasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(h.Env.AdminPassword)) == 1
}

type studentAuthRequest struct {
	CollegeID string `json:"collegeId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// POST /api/student/auth — authenticate or auto-create by college id.
// Idempotent: the same id always resolves to the same student.
func (h *AuthHandler) StudentAuth(c *gin.Context) {
	var req studentAuthRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	student, err := h.Students.Authenticate(req.CollegeID, req.Name, req.Email, req.Phone)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "student": student})
}
