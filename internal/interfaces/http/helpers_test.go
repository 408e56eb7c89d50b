package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/permission"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domainperm "github.com/jhoicas/almacen-api/internal/domain/permission"
	apphttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/almacen-api/pkg/jwt"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "almacen-api-test"
	testExpMin    = 60
)

// fakeResolver principales por usuario; un id ausente es ErrNotFound.
type fakeResolver struct {
	principals map[int64]*permission.Principal
	inactive   map[int64]bool
}

func (f *fakeResolver) Resolve(_ context.Context, userID int64) (*permission.Principal, error) {
	if f.inactive[userID] {
		return nil, domain.ErrForbidden
	}
	p, ok := f.principals[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func principal(id int64, admin bool, grants ...domainperm.Capability) *permission.Principal {
	caps := domainperm.NewCapabilitySet(admin)
	for _, g := range grants {
		caps.Grant(g.Module, g.Action)
	}
	return &permission.Principal{
		User:    &entity.User{ID: id, Active: true},
		Context: domainperm.LegacyContext{Group: "usuario"},
		Caps:    caps,
	}
}

func capOf(m domainperm.Module, a domainperm.Action) domainperm.Capability {
	return domainperm.Capability{Module: m, Action: a}
}

// newTestApp app con el mismo ErrorHandler y middlewares que producción.
func newTestApp(production bool) *fiber.App {
	return apphttp.NewApp(apphttp.AppConfig{Name: "test", Production: production}, logger.Nop())
}

func bearer(t *testing.T, userID int64) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, "", "usuario", testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func do(t *testing.T, app *fiber.App, method, path, auth string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
