package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/venuepass/checkin-api/internal/pkg/jwthelper"
)

func newAuthTestRouter(signingKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.GET("/protected", NewAuthenticator(signingKey).VerifyJWT(), func(ctx *gin.Context) {
		userID, _ := ctx.Get(ContextKeyUserID)
		ctx.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	return engine
}

func TestVerifyJWT(t *testing.T) {
	const signingKey = "test-signing-key"
	const userAgent = "scanner-app/1.0"

	token, err := jwthelper.GenerateToken([]byte(signingKey), 42, userAgent)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		userAgent  string
		wantStatus int
	}{
		{
			name:       "valid token",
			authHeader: "Bearer " + token,
			userAgent:  userAgent,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			authHeader: "",
			userAgent:  userAgent,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			authHeader: "Basic abc123",
			userAgent:  userAgent,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.token",
			userAgent:  userAgent,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "different user agent",
			authHeader: "Bearer " + token,
			userAgent:  "another-client/2.0",
			wantStatus: http.StatusUnauthorized,
		},
	}

	router := newAuthTestRouter(signingKey)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			req.Header.Set("User-Agent", tt.userAgent)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestVerifyJWTRejectsForeignKey(t *testing.T) {
	token, err := jwthelper.GenerateToken([]byte("another-key"), 42, "scanner-app/1.0")
	require.NoError(t, err)

	router := newAuthTestRouter("test-signing-key")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "scanner-app/1.0")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
