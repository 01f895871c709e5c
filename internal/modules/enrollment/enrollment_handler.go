package enrollment

import (
	"drivent-backend/internal/models"
	"drivent-backend/pkg/utils"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var cepPattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)

type Handler struct {
	service  ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new enrollment handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{
		service:  service,
		validate: NewValidator(),
	}
}

// NewValidator returns a validator that knows the "cep" tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cep", func(fl validator.FieldLevel) bool {
		return cepPattern.MatchString(fl.Field().String())
	})
	return v
}

func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fmt.Sprintf("%s failed on the '%s' rule", fe.Namespace(), fe.Tag()))
	}
	return details
}

// GetEnrollment returns the authenticated user's enrollment with its address.
func (h *Handler) GetEnrollment(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: err.Error()})
	}

	enrollment, err := h.service.GetOneWithAddressByUserID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Enrollment not found"})
		}
		c.Logger().Error("Handler.GetEnrollment: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve enrollment"})
	}

	return c.JSON(http.StatusOK, enrollment)
}

// PostEnrollment creates or updates the authenticated user's enrollment and address.
func (h *Handler) PostEnrollment(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: err.Error()})
	}

	var req models.CreateOrUpdateEnrollmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed", Details: validationDetails(err)})
	}

	err = h.service.CreateOrUpdateEnrollmentWithAddress(c.Request().Context(), models.CreateOrUpdateEnrollmentParams{
		UserID:           userID,
		EnrollmentParams: req.EnrollmentParams,
		Address:          req.Address,
	})
	if err != nil {
		var invalid *models.InvalidDataError
		if errors.As(err, &invalid) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid data", Details: invalid.Details})
		}
		c.Logger().Error("Handler.PostEnrollment: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to save enrollment"})
	}

	return c.NoContent(http.StatusOK)
}

// GetAddressFromCEP resolves ?cep= for form autocompletion.
// Any lookup failure answers 204 No Content.
func (h *Handler) GetAddressFromCEP(c echo.Context) error {
	cep := c.QueryParam("cep")
	if cep == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Query parameter 'cep' is required"})
	}

	address, err := h.service.GetAddressFromCEP(c.Request().Context(), cep)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			c.Logger().Error("Handler.GetAddressFromCEP: ", err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusOK, address)
}
