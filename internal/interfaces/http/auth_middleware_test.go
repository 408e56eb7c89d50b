package http_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/almacen-api/pkg/jwt"
)

func authApp() *fiber.App {
	app := newTestApp(false)
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"role":    apphttp.GetRole(c),
			"group":   apphttp.GetGroup(c),
		})
	})
	return app
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, 7, "compras", "compras", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := do(t, authApp(), http.MethodGet, "/me", "Bearer "+tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, float64(7), body["user_id"])
	assert.Equal(t, "compras", body["role"])
	assert.Equal(t, "compras", body["group"])
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	expired, err := pkgjwt.Generate(testJWTSecret, 7, "", "", testIssuer, -1)
	require.NoError(t, err)
	otherSecret, err := pkgjwt.Generate("otro-secret-completamente-distinto", 7, "", "", testIssuer, testExpMin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"formato", "Token abc", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"otro secret", "Bearer " + otherSecret, "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, authApp(), http.MethodGet, "/me", tt.header, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.code, decode(t, resp)["code"])
		})
	}
}

func TestRequestLogger_EchoesRequestID(t *testing.T) {
	app := newTestApp(false)
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp := do(t, app, http.MethodGet, "/ping", "", nil)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	resp = do(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
