package mock

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"agora/models"
)

const userKey = "user"

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(strings.TrimSpace(c.GetHeader("Authorization")), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireAuth resolves the bearer token to a user or answers 401.
func (m *ServerModule) requireAuth(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		abortError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var sess models.Session
	if err := m.db.Where("token = ?", token).First(&sess).Error; err != nil {
		abortError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := m.db.Where("id = ?", sess.UserID).First(&user).Error; err != nil {
		abortError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	c.Set(userKey, &user)
	c.Next()
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userKey).(*models.User)
}

func (m *ServerModule) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	if err := m.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("login lookup for %q: %v", req.Username, err)
		}
		respondError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if !checkPasswordHash(req.Password, user.PasswordHash) {
		respondError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.db.Create(&sess).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create session")
		return
	}

	c.JSON(http.StatusOK, models.AuthData{AuthToken: sess.Token, User: user})
}

func (m *ServerModule) logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result := m.db.Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, "Could not end session")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Logged out successfully"})
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
