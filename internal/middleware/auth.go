package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"seoAnalyzerGO/internal/config"
)

// UserInfoKey is the gin context key holding the authenticated *UserInfo
const UserInfoKey = "userInfo"

// KeycloakAuth guards routes with tokens issued by a Keycloak realm
type KeycloakAuth struct {
	keycloakConfig config.KeycloakConfig
	client         *http.Client
	logger         *slog.Logger
}

// UserInfo contains the user information returned by the userinfo endpoint
type UserInfo struct {
	Sub               string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// NewKeycloakAuth creates a new Keycloak authentication middleware
func NewKeycloakAuth(keycloakConfig config.KeycloakConfig, logger *slog.Logger) *KeycloakAuth {
	return &KeycloakAuth{
		keycloakConfig: keycloakConfig,
		client:         &http.Client{Timeout: 5 * time.Second},
		logger:         logger,
	}
}

// Authenticate rejects requests without a token the realm accepts
func (k *KeycloakAuth) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c.Request)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Unauthorized", "Invalid or missing token")
			return
		}

		userInfo, err := k.verifyToken(c.Request.Context(), token)
		if err != nil {
			k.logger.Warn("Failed to verify token", "error", err)
			abort(c, http.StatusUnauthorized, "Unauthorized", "Invalid token")
			return
		}

		c.Set(UserInfoKey, userInfo)
		c.Next()
	}
}

// RequireRoles rejects authenticated users holding none of roles
func (k *KeycloakAuth) RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(UserInfoKey)
		user, ok := value.(*UserInfo)
		if !exists || !ok {
			abort(c, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
			return
		}

		if !hasRequiredRole(user, roles) {
			abort(c, http.StatusForbidden, "Forbidden", "Insufficient permissions")
			return
		}

		c.Next()
	}
}

func abort(c *gin.Context, status int, message, reason string) {
	c.AbortWithStatusJSON(status, gin.H{
		"status_code": status,
		"message":     message,
		"error":       reason,
	})
}

// extractToken extracts the bearer token from the Authorization header
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header is missing")
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", errors.New("invalid authorization header format")
	}

	return token, nil
}

// verifyToken exchanges the token for the user's claims at the realm's userinfo endpoint
func (k *KeycloakAuth) verifyToken(ctx context.Context, token string) (*UserInfo, error) {
	userinfoURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/userinfo",
		strings.TrimRight(k.keycloakConfig.URL, "/"),
		k.keycloakConfig.Realm)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid token or userinfo request failed: %d", resp.StatusCode)
	}

	var userInfo UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse userinfo response: %w", err)
	}

	return &userInfo, nil
}

// hasRequiredRole checks if the user has any of the required roles
func hasRequiredRole(user *UserInfo, requiredRoles []string) bool {
	if len(requiredRoles) == 0 {
		return true
	}

	for _, required := range requiredRoles {
		if slices.Contains(user.RealmAccess.Roles, required) {
			return true
		}
	}

	return false
}
