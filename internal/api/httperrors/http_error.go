// Package httperrors maps wallet errors onto HTTP responses.
package httperrors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/chapool/web3connect/internal/types"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HTTPError is the JSON body of every failed request. Code is stable and
// meant for clients to branch on.
type HTTPError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"error"`

	Internal error `json:"-"`
}

func NewHTTPError(status int, code string, message string) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message}
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s - %v", e.Status, e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Status, e.Code, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

// HTTPValidationError is an HTTPError listing the schema violations of a
// request payload.
type HTTPValidationError struct {
	HTTPError

	ValidationErrors []*types.HTTPValidationErrorDetail `json:"validationErrors"`
}

func NewHTTPValidationError(status int, code string, message string, details []*types.HTTPValidationErrorDetail) *HTTPValidationError {
	return &HTTPValidationError{
		HTTPError:        HTTPError{Status: status, Code: code, Message: message},
		ValidationErrors: details,
	}
}

var statusByKind = map[core.Kind]int{
	core.KindInvalidPassword:       http.StatusForbidden,
	core.KindPasswordRequired:      http.StatusUnauthorized,
	core.KindDecryption:            http.StatusUnprocessableEntity,
	core.KindMissingSeed:           http.StatusNotFound,
	core.KindInvalidSeed:           http.StatusBadRequest,
	core.KindBackupUnavailable:     http.StatusNotFound,
	core.KindInvalidDerivationPath: http.StatusBadRequest,
	core.KindChainUnavailable:      http.StatusBadRequest,
	core.KindNoExternalProvider:    http.StatusFailedDependency,
	core.KindNotReady:              http.StatusConflict,
	core.KindNotAuthenticated:      http.StatusUnauthorized,
	core.KindUnsupported:           http.StatusUnprocessableEntity,
}

// StatusForKind returns the HTTP status of a wallet error kind.
func StatusForKind(kind core.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError converts err into an HTTPError. Wallet errors keep their kind as
// code, echo errors keep their status, anything else is an opaque 500.
func FromError(err error) *HTTPError {
	var valErr *HTTPValidationError
	if errors.As(err, &valErr) {
		return &valErr.HTTPError
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return &HTTPError{
			Status:   echoErr.Code,
			Code:     codeForStatus(echoErr.Code),
			Message:  fmt.Sprint(echoErr.Message),
			Internal: err,
		}
	}

	kind := core.KindOf(err)
	if kind == core.KindInternal {
		return &HTTPError{
			Status:   http.StatusInternalServerError,
			Code:     string(core.KindInternal),
			Message:  http.StatusText(http.StatusInternalServerError),
			Internal: err,
		}
	}

	return &HTTPError{
		Status:   StatusForKind(kind),
		Code:     string(kind),
		Message:  err.Error(),
		Internal: err,
	}
}

// codeForStatus turns "Method Not Allowed" into "method_not_allowed".
func codeForStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "http_error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
