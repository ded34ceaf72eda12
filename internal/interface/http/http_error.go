package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/planetary-hours/internal/domain/planetary"
	apperrors "github.com/yanqian/planetary-hours/pkg/errors"
)

// HTTPError carries the status and code rendered in an error response.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// domainStatus maps AppError codes onto HTTP statuses.
var domainStatus = map[string]int{
	apperrors.CodeInvalidInput:       http.StatusBadRequest,
	apperrors.CodeNotFound:           http.StatusNotFound,
	apperrors.CodeStorage:            http.StatusInternalServerError,
	planetary.CodeAstronomical:       http.StatusUnprocessableEntity,
	planetary.CodeDegenerateInterval: http.StatusUnprocessableEntity,
}

// domainError converts a service error. Errors without a known code get
// fallbackCode and a 500.
func domainError(err error, fallbackCode string) *HTTPError {
	code := apperrors.CodeOf(err)
	status, ok := domainStatus[code]
	if !ok {
		return NewHTTPError(http.StatusInternalServerError, fallbackCode, errMessage(err), err)
	}
	message := errMessage(err)
	if code == apperrors.CodeStorage {
		message = "storage unavailable"
	}
	return NewHTTPError(status, code, message, err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
