package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/alimgiray/userfinder/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "session"

type SessionData struct {
	ViewerID  string    `json:"viewer_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionMiddleware makes sure every request carries a viewer session,
// issuing a fresh one when the cookie is missing, invalid or expired
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData := getSessionFromCookie(c)

		if sessionData == nil {
			var err error
			sessionData, err = SetSession(c, uuid.New().String())
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
				return
			}
		}

		c.Set("session", sessionData)

		c.Next()
	}
}

// getSessionFromCookie extracts and validates session data from cookie
func getSessionFromCookie(c *gin.Context) *SessionData {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	// Split cookie value (signature.data)
	parts := strings.Split(cookie, ".")
	if len(parts) != 2 {
		return nil
	}

	signature, data := parts[0], parts[1]

	if !verifySignature(data, signature) {
		return nil
	}

	decodedData, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return nil
	}

	var sessionData SessionData
	if err := json.Unmarshal(decodedData, &sessionData); err != nil {
		return nil
	}

	if sessionData.ViewerID == "" || time.Now().After(sessionData.ExpiresAt) {
		return nil
	}

	return &sessionData
}

// SetSession creates a new session cookie for viewerID
func SetSession(c *gin.Context, viewerID string) (*SessionData, error) {
	ttl := sessionTTL()
	sessionData := &SessionData{
		ViewerID:  viewerID,
		ExpiresAt: time.Now().Add(ttl),
	}

	data, err := json.Marshal(sessionData)
	if err != nil {
		return nil, err
	}

	encodedData := base64.URLEncoding.EncodeToString(data)
	signature := createSignature(encodedData)

	c.SetCookie(sessionCookie, signature+"."+encodedData, int(ttl.Seconds()), "/", "", false, true)

	return sessionData, nil
}

func sessionTTL() time.Duration {
	hours := config.AppConfig.Session.TTLHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// createSignature creates HMAC signature for data
func createSignature(data string) string {
	h := hmac.New(sha256.New, []byte(config.AppConfig.Session.Secret))
	h.Write([]byte(data))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

// verifySignature verifies HMAC signature
func verifySignature(data, signature string) bool {
	expectedSignature := createSignature(data)
	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}

// GetSession retrieves session data from context
func GetSession(c *gin.Context) *SessionData {
	session, exists := c.Get("session")
	if !exists {
		return nil
	}

	if sessionData, ok := session.(*SessionData); ok {
		return sessionData
	}

	return nil
}

// ViewerID returns the current viewer, or an empty string outside SessionMiddleware
func ViewerID(c *gin.Context) string {
	if session := GetSession(c); session != nil {
		return session.ViewerID
	}
	return ""
}
