package utils

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// UserIDContextKey is where the auth middleware stores the authenticated user id.
const UserIDContextKey = "userID"

var ErrMissingUserID = errors.New("user id not found in context")

// GetUserIDFromContext returns the id set by the JWT middleware.
func GetUserIDFromContext(c echo.Context) (int, error) {
	userID, ok := c.Get(UserIDContextKey).(int)
	if !ok || userID <= 0 {
		return 0, ErrMissingUserID
	}
	return userID, nil
}
