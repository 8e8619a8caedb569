package http

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaec/admin-api/pkg/jwt"
)

const secretPrueba = "secreto-de-test"

// appProtegida arma una app mínima con el middleware de auth y una ruta que
// exige rol administrador, devolviendo lo extraído a Locals.
func appProtegida() *fiber.App {
	app := fiber.New()
	app.Get("/protegida", AuthMiddleware(secretPrueba), RequireRol("SUPERADMIN", "ADMIN"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   GetUserID(c),
			"emisor_id": GetEmisorID(c),
			"rol":       GetRol(c),
		})
	})
	return app
}

func solicitar(t *testing.T, app *fiber.App, authHeader string) (*nethttp.Response, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodGet, "/protegida", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	cuerpo, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decodificado map[string]string
	_ = json.Unmarshal(cuerpo, &decodificado)
	return resp, decodificado
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	resp, cuerpo := solicitar(t, appProtegida(), "")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", cuerpo["code"])
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	resp, cuerpo := solicitar(t, appProtegida(), "Basic abc123")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", cuerpo["code"])
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	resp, cuerpo := solicitar(t, appProtegida(), "Bearer no-es-un-jwt")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", cuerpo["code"])
}

func TestAuthMiddleware_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("otro-secreto", "user-1", "", "ADMIN", "test", 5)
	require.NoError(t, err)

	resp, _ := solicitar(t, appProtegida(), "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRol_RolSinAcceso(t *testing.T) {
	token, err := jwt.Generate(secretPrueba, "user-1", "emisor-1", "EMISOR", "test", 5)
	require.NoError(t, err)

	resp, cuerpo := solicitar(t, appProtegida(), "Bearer "+token)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", cuerpo["code"])
}

func TestAuthMiddleware_TokenValido(t *testing.T) {
	token, err := jwt.Generate(secretPrueba, "user-1", "emisor-1", "ADMIN", "test", 5)
	require.NoError(t, err)

	resp, cuerpo := solicitar(t, appProtegida(), "Bearer "+token)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-1", cuerpo["user_id"])
	assert.Equal(t, "emisor-1", cuerpo["emisor_id"])
	assert.Equal(t, "ADMIN", cuerpo["rol"])
}
