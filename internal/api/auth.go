package api

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

type tokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// issueToken exchanges the configured API credentials for a signed JWT.
// The background jobs and any external caller use it to reach the /api
// group.
func (s *Server) issueToken(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if req.Username != s.cfg.Web.Username || req.Password != s.cfg.Web.Password {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	token, err := SignToken(s.cfg.Web.Secret, req.Username, 24*time.Hour)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", nil)
	}
	return ok(c, map[string]interface{}{"token": token})
}

// SignToken signs an HS256 JWT carrying the username. Shared with the
// cron jobs, which authenticate against their own API.
func SignToken(secret, username string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"usr": username,
		"exp": time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
