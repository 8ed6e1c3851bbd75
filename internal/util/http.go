package util

import (
	"net/http"

	"github.com/chapool/web3connect/internal/api/httperrors"
	"github.com/chapool/web3connect/internal/types"
	oerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BindAndValidateBody binds the JSON body of c into v and validates it
// against its schema. An empty body leaves v untouched before validation.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	binder := &echo.DefaultBinder{}
	if err := binder.BindBody(c, v); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Failed to bind request body")
		return err
	}

	return validatePayload(c, v)
}

// ValidateAndReturn validates v against its schema before writing it as JSON.
// A response violating its own schema is an internal error.
func ValidateAndReturn(c echo.Context, code int, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response failed validation")
		return err
	}

	return c.JSON(code, v)
}

func validatePayload(c echo.Context, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Request body failed validation")

		var compositeErr *oerrors.CompositeError
		if errors.As(err, &compositeErr) {
			return httperrors.NewHTTPValidationError(http.StatusBadRequest, "bad_request", http.StatusText(http.StatusBadRequest), formatValidationErrors(compositeErr))
		}

		var validationErr *oerrors.Validation
		if errors.As(err, &validationErr) {
			return httperrors.NewHTTPValidationError(http.StatusBadRequest, "bad_request", http.StatusText(http.StatusBadRequest), formatValidationErrors(oerrors.CompositeValidationError(validationErr)))
		}

		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}

func formatValidationErrors(err *oerrors.CompositeError) []*types.HTTPValidationErrorDetail {
	details := make([]*types.HTTPValidationErrorDetail, 0, len(err.Errors))
	for _, e := range err.Errors {
		switch ee := e.(type) {
		case *oerrors.CompositeError:
			details = append(details, formatValidationErrors(ee)...)
		case *oerrors.Validation:
			details = append(details, &types.HTTPValidationErrorDetail{
				Key:   swag.String(ee.Name),
				In:    swag.String(ee.In),
				Error: swag.String(ee.Error()),
			})
		default:
			details = append(details, &types.HTTPValidationErrorDetail{
				Key:   swag.String("generic"),
				In:    swag.String("body"),
				Error: swag.String(e.Error()),
			})
		}
	}

	return details
}
