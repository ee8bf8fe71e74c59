package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sibstore/storefront/internal/application/services"
	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/domain/shamsi"
	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/ports"
)

// ClaimsKey is the echo context key holding *ports.Claims for authenticated admins.
const ClaimsKey = "admin_claims"

// Pagination bounds for list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator that also understands the "shamsi" tag.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("shamsi", func(fl validator.FieldLevel) bool {
		return shamsi.IsValid(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(req); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fields := make(map[string]interface{}, len(verrs))
	onlyDates := true
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
		if fe.Tag() != "shamsi" {
			onlyDates = false
		}
	}

	// A well-formed request whose only problem is an impossible Shamsi date
	// gets the same 422 the order service returns for it.
	if onlyDates {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, ports.ErrorResponse{
			Message: entities.ErrInvalidBirthDate.Error(),
			Details: fields,
		})
	}
	return echo.NewHTTPError(http.StatusBadRequest, ports.ErrorResponse{
		Message: "validation failed",
		Details: fields,
	})
}

// errorStatus maps domain errors to HTTP errors. Unknown errors become 500
// with the cause kept as the internal error for logging.
func errorStatus(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, entities.ErrProductNotFound),
		errors.Is(err, entities.ErrUsedPhoneNotFound),
		errors.Is(err, entities.ErrOrderNotFound),
		errors.Is(err, entities.ErrAdminNotFound):
		code = http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidOrderTarget),
		errors.Is(err, entities.ErrInvalidStatus),
		errors.Is(err, services.ErrWeakPassword):
		code = http.StatusBadRequest
	case errors.Is(err, entities.ErrInvalidBirthDate):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, entities.ErrUsedPhoneSold),
		errors.Is(err, entities.ErrProductUnavailable),
		errors.Is(err, entities.ErrAdminExists):
		code = http.StatusConflict
	case errors.Is(err, entities.ErrInvalidCredentials),
		errors.Is(err, entities.ErrSessionNotFound):
		code = http.StatusUnauthorized
	case errors.Is(err, entities.ErrAccountInactive):
		code = http.StatusForbidden
	case errors.Is(err, entities.ErrChatUnavailable):
		code = http.StatusServiceUnavailable
	}

	if code == http.StatusInternalServerError {
		return echo.NewHTTPError(code, "Internal server error").SetInternal(err)
	}
	return echo.NewHTTPError(code, rootMessage(err))
}

// rootMessage returns the message of the sentinel at the bottom of a
// wrapped error chain.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return id, nil
}

// parsePagination reads limit and offset query parameters.
func parsePagination(c echo.Context) (limit, offset int, err error) {
	limit = DefaultPageSize
	if s := c.QueryParam("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter")
		}
		if limit > MaxPageSize {
			limit = MaxPageSize
		}
	}
	if s := c.QueryParam("offset"); s != "" {
		offset, err = strconv.Atoi(s)
		if err != nil || offset < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid offset parameter")
		}
	}
	return limit, offset, nil
}

func parseOptionalBool(c echo.Context, name string) (*bool, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" parameter")
	}
	return &b, nil
}

func optionalString(c echo.Context, name string) *string {
	if s := c.QueryParam(name); s != "" {
		return &s
	}
	return nil
}

// logAdminAction records a dashboard mutation against the acting admin.
func logAdminAction(log *logger.Logger, c echo.Context, action, targetID string) {
	adminID := ""
	if claims := claimsFromContext(c); claims != nil {
		adminID = claims.AdminID.String()
	}
	log.LogAdminAction(adminID, action, map[string]interface{}{"target_id": targetID})
}

func claimsFromContext(c echo.Context) *ports.Claims {
	claims, _ := c.Get(ClaimsKey).(*ports.Claims)
	return claims
}

func paginated[T any](data []T, total, limit, offset int) ports.PaginatedResponse[T] {
	return ports.PaginatedResponse[T]{
		Data:   data,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}
