package api

import (
	"net/http"

	"drivent-backend/internal/api/middleware"
	"drivent-backend/internal/modules/enrollment"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	jwtSecret string,
	enrollmentHandler *enrollment.Handler,
	healthHandler *HealthHandler,
) {
	authMiddleware := middleware.JWTMAuth(jwtSecret)

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to Drivent!"})
	})
	e.GET("/health", healthHandler.Check)

	// --- Enrollment Routes ---
	enrollmentGroup := e.Group("/enrollments", authMiddleware)
	{
		enrollmentGroup.GET("", enrollmentHandler.GetEnrollment)
		enrollmentGroup.POST("", enrollmentHandler.PostEnrollment)
		enrollmentGroup.GET("/cep", enrollmentHandler.GetAddressFromCEP)
	}
}
