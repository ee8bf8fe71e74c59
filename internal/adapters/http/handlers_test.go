package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/ports"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{entities.ErrProductNotFound, http.StatusNotFound},
		{fmt.Errorf("lookup: %w", entities.ErrOrderNotFound), http.StatusNotFound},
		{entities.ErrInvalidOrderTarget, http.StatusBadRequest},
		{fmt.Errorf("%w: bad", entities.ErrInvalidBirthDate), http.StatusUnprocessableEntity},
		{entities.ErrUsedPhoneSold, http.StatusConflict},
		{entities.ErrProductUnavailable, http.StatusConflict},
		{entities.ErrInvalidCredentials, http.StatusUnauthorized},
		{entities.ErrAccountInactive, http.StatusForbidden},
		{entities.ErrChatUnavailable, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
		{echo.NewHTTPError(http.StatusTeapot, "tea"), http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			var he *echo.HTTPError
			if !errors.As(errorStatus(tt.err), &he) {
				t.Fatal("errorStatus() did not return *echo.HTTPError")
			}
			if he.Code != tt.want {
				t.Errorf("code = %d, want %d", he.Code, tt.want)
			}
		})
	}
}

func TestErrorStatusHidesInternalCause(t *testing.T) {
	cause := errors.New("pq: connection refused")

	var he *echo.HTTPError
	errors.As(errorStatus(cause), &he)
	if he.Message != "Internal server error" {
		t.Errorf("message = %v, want generic text", he.Message)
	}
	if !errors.Is(he.Internal, cause) {
		t.Error("internal cause not kept")
	}
}

func TestErrorStatusUsesRootMessage(t *testing.T) {
	err := fmt.Errorf("%w: 1403/02/40", entities.ErrInvalidBirthDate)

	var he *echo.HTTPError
	errors.As(errorStatus(err), &he)
	if he.Message != entities.ErrInvalidBirthDate.Error() {
		t.Errorf("message = %v, want %q", he.Message, entities.ErrInvalidBirthDate.Error())
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{"", DefaultPageSize, 0, false},
		{"limit=5&offset=10", 5, 10, false},
		{"limit=1000", MaxPageSize, 0, false},
		{"limit=0", 0, 0, true},
		{"limit=abc", 0, 0, true},
		{"offset=-1", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := newContext(http.MethodGet, "/?"+tt.query, "")
			limit, offset, err := parsePagination(c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (limit != tt.wantLimit || offset != tt.wantOffset) {
				t.Errorf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestShamsiValidationTag(t *testing.T) {
	tests := []struct {
		date string
		ok   bool
	}{
		{"1380/05/15", true},
		{"1403/12/30", true},
		{"1380-05-15", false},
		{"1380/13/01", false},
		{"1380/05/32", false},
		{"", false},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			req := ports.AppleIDOrderRequest{
				FullName:        "Sara Ahmadi",
				Phone:           "09351234567",
				BirthDateShamsi: tt.date,
			}
			err := v.Validate(req)
			if (err == nil) != tt.ok {
				t.Errorf("Validate() error = %v, want ok %v", err, tt.ok)
			}
		})
	}
}

func TestBindAndValidateReportsFields(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/", `{"full_name":"Sara","birth_date_shamsi":"bad"}`)

	var req ports.AppleIDOrderRequest
	err := bindAndValidate(c, &req)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
	resp, ok := he.Message.(ports.ErrorResponse)
	if !ok {
		t.Fatalf("message type = %T", he.Message)
	}
	if resp.Details["Phone"] != "required" || resp.Details["BirthDateShamsi"] != "shamsi" {
		t.Errorf("details = %v", resp.Details)
	}
}

func TestBindAndValidateBadBirthDate(t *testing.T) {
	tests := []string{"13800515", "1380/13/01", "1380/05/32"}
	for _, date := range tests {
		t.Run(date, func(t *testing.T) {
			body := fmt.Sprintf(`{"full_name":"Sara","phone":"09351234567","birth_date_shamsi":%q}`, date)
			c, _ := newContext(http.MethodPost, "/", body)

			var req ports.AppleIDOrderRequest
			err := bindAndValidate(c, &req)

			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
				t.Fatalf("err = %v, want 422", err)
			}
			resp := he.Message.(ports.ErrorResponse)
			if resp.Message != entities.ErrInvalidBirthDate.Error() || resp.Details["BirthDateShamsi"] != "shamsi" {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestCalendarHandler(t *testing.T) {
	h := NewCalendarHandler()

	c, rec := newContext(http.MethodGet, "/?date=1380/05/15", "")
	if err := h.ToGregorian(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"gregorian":"2001-08-06"`) {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}

	c, rec = newContext(http.MethodGet, "/?date=garbage", "")
	if err := h.ToGregorian(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), `"valid":false`) {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}
