package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"scribebackend/appctx"
	"scribebackend/core"
	"scribebackend/models"
	"scribebackend/services"
)

// SupabaseAuthMiddleware validates Supabase-issued JWTs. Supabase GoTrue
// signs access tokens with a shared HS256 secret.
type SupabaseAuthMiddleware struct {
	usersService services.UsersService
	jwtSecret    []byte
}

// NewSupabaseAuthMiddleware creates a new authentication middleware instance
func NewSupabaseAuthMiddleware(usersService services.UsersService, jwtSecret string) *SupabaseAuthMiddleware {
	return &SupabaseAuthMiddleware{
		usersService: usersService,
		jwtSecret:    []byte(jwtSecret),
	}
}

// supabaseClaims is the subset of the GoTrue token payload we consume
type supabaseClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// WithAuth wraps an HTTP handler with JWT authentication
func (m *SupabaseAuthMiddleware) WithAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("🔐 Authentication middleware processing request from %s", r.RemoteAddr)

		// Check if we're in testing mode
		if os.Getenv("TESTING_MODE") == "true" {
			log.Printf("🧪 Testing mode enabled - skipping JWT validation")
			testUser := &models.User{
				ID:             core.NewID("u"),
				AuthProvider:   "test",
				AuthProviderID: "test-user-123",
				Email:          "test@example.com",
				CreatedAt:      time.Now(),
				UpdatedAt:      time.Now(),
			}

			log.Printf("✅ Test user created: %s", testUser.ID)
			ctx := appctx.SetUser(r.Context(), testUser)
			next(w, r.WithContext(ctx))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ Missing Authorization header")
			m.writeErrorResponse(w, "missing authorization header", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Printf("❌ Invalid Authorization header format")
			m.writeErrorResponse(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			log.Printf("❌ Empty bearer token")
			m.writeErrorResponse(w, "empty bearer token", http.StatusUnauthorized)
			return
		}

		claims := &supabaseClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !parsed.Valid {
			log.Printf("❌ JWT verification failed: %v", err)
			m.writeErrorResponse(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if claims.Subject == "" {
			log.Printf("❌ JWT is missing a subject claim")
			m.writeErrorResponse(w, "invalid token", http.StatusUnauthorized)
			return
		}

		log.Printf("✅ JWT token verified successfully for subject: %s", claims.Subject)
		user, err := m.usersService.GetOrCreateUser(r.Context(), "supabase", claims.Subject, claims.Email)
		if err != nil {
			log.Printf("❌ Failed to get or create user: %v", err)
			m.writeErrorResponse(w, "internal server error", http.StatusInternalServerError)
			return
		}

		log.Printf("✅ User authenticated successfully: %s", user.ID)
		ctx := appctx.SetUser(r.Context(), user)
		next(w, r.WithContext(ctx))
	}
}

// writeErrorResponse writes a standardized error response
func (m *SupabaseAuthMiddleware) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("❌ Failed to encode error response: %v", err)
	}
}
