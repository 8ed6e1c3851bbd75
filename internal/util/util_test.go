package util_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chapool/web3connect/internal/api/httperrors"
	"github.com/chapool/web3connect/internal/util"
	oerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFalseIfNil(t *testing.T) {
	b := true
	assert.True(t, util.FalseIfNil(&b))
	b = false
	assert.False(t, util.FalseIfNil(&b))
	assert.False(t, util.FalseIfNil(nil))
}

func TestLogFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, &log.Logger, util.LogFromContext(ctx))

	l := zerolog.New(os.Stdout).With().Str("component", "test").Logger()
	ctx = util.WithLogger(ctx, l)
	assert.NotEqual(t, &log.Logger, util.LogFromContext(ctx))

	disabled := util.DisableLogger(context.Background(), true)
	assert.Equal(t, zerolog.Disabled, util.LogFromContext(disabled).GetLevel())
}

func TestConfigureLoggerFile(t *testing.T) {
	global := log.Logger
	level := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = global
		zerolog.SetGlobalLevel(level)
	})

	path := filepath.Join(t.TempDir(), "web3connect.log")
	closer := util.ConfigureLogger(util.LoggerConfig{
		Level:      zerolog.InfoLevel,
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
	})

	log.Info().Str("chain", "evm").Msg("derived wallet")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "derived wallet")
}

func TestIsStructInitialized(t *testing.T) {
	type components struct {
		Skipped *int `wire:"-"`
		Name    string
		Values  []int
		hidden  string
	}

	err := util.IsStructInitialized(&components{Name: "x", Values: []int{1}})
	require.NoError(t, err)

	err = util.IsStructInitialized(&components{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Values")

	require.Error(t, util.IsStructInitialized((*components)(nil)))
	require.Error(t, util.IsStructInitialized(42))
}

type pingPayload struct {
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
}

func (p *pingPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("name", "body", p.Name); err != nil {
		res = append(res, err)
	}

	if err := validate.MinimumInt("size", "body", p.Size, 0, false); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return oerrors.CompositeValidationError(res...)
	}
	return nil
}

func TestBindAndValidateBody(t *testing.T) {
	e := echo.New()

	run := func(body string) (*pingPayload, error) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := e.NewContext(req, httptest.NewRecorder())

		var p pingPayload
		err := util.BindAndValidateBody(c, &p)
		return &p, err
	}

	p, err := run(`{"name":"alice"}`)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Name)

	_, err = run(`{"size":-1}`)
	var valErr *httperrors.HTTPValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, http.StatusBadRequest, valErr.Status)
	assert.Equal(t, "bad_request", valErr.Code)
	require.Len(t, valErr.ValidationErrors, 2)
	assert.Equal(t, "name", swag.StringValue(valErr.ValidationErrors[0].Key))
	assert.Equal(t, "body", swag.StringValue(valErr.ValidationErrors[0].In))
	assert.Equal(t, "size", swag.StringValue(valErr.ValidationErrors[1].Key))

	_, err = run(`{"name":`)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestValidateAndReturn(t *testing.T) {
	e := echo.New()

	run := func(p *pingPayload) (*httptest.ResponseRecorder, error) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		return rec, util.ValidateAndReturn(c, http.StatusOK, p)
	}

	rec, err := run(&pingPayload{Name: "alice", Size: 3})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"alice","size":3}`, rec.Body.String())

	rec, err = run(&pingPayload{})
	var compositeErr *oerrors.CompositeError
	require.ErrorAs(t, err, &compositeErr)
	assert.Empty(t, rec.Body.String())
}
