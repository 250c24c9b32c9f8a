package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/internal/bootstrap"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Cotiza-api/internal/interfaces/http"
)

type testAPI struct {
	t   *testing.T
	app *fiber.App
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	svc := bootstrap.NewServices(&bootstrap.Storage{Repos: store.Set(), Tx: store, Close: func() {}}, bootstrap.Options{
		BaseCurrency: "USD",
		JWT:          auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "cotiza-test"},
	})
	errs := apphttp.NewErrorResponder(nil)
	app := fiber.New(fiber.Config{ErrorHandler: errs.FiberErrorHandler})
	apphttp.Router(app, apphttp.NewRouterDeps(svc, errs))
	return &testAPI{t: t, app: app}
}

// do envía la petición y devuelve la respuesta con el cuerpo ya leído.
func (a *testAPI) do(method, path string, body any, token string) (*http.Response, []byte) {
	a.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp, data
}

func (a *testAPI) json(method, path string, body any, token string, wantStatus int) map[string]any {
	a.t.Helper()
	resp, data := a.do(method, path, body, token)
	require.Equal(a.t, wantStatus, resp.StatusCode, string(data))
	out := map[string]any{}
	if len(data) > 0 && data[0] == '{' {
		require.NoError(a.t, json.Unmarshal(data, &out))
	}
	return out
}

func (a *testAPI) signUp(email string) string {
	a.t.Helper()
	out := a.json(http.MethodPost, "/api/auth/signup", map[string]string{
		"email": email, "password": "secreto123", "name": "Prueba",
	}, "", http.StatusCreated)
	tok, _ := out["token"].(string)
	require.NotEmpty(a.t, tok)
	return tok
}

func decimalField(t *testing.T, m map[string]any, key string) decimal.Decimal {
	t.Helper()
	s, ok := m[key].(string)
	require.True(t, ok, "%s debe serializarse como string: %v", key, m[key])
	return decimal.RequireFromString(s)
}

func TestAuth_SignUpMeSignOut(t *testing.T) {
	api := newTestAPI(t)
	token := api.signUp("admin@cotiza.co")

	me := api.json(http.MethodGet, "/api/me", nil, token, http.StatusOK)
	assert.Equal(t, auth.AdminRoleName, me["role"])
	perms, _ := me["permissions"].([]any)
	assert.NotEmpty(t, perms)

	signin := api.json(http.MethodPost, "/api/auth/signin", map[string]string{
		"email": "ADMIN@cotiza.co", "password": "secreto123",
	}, "", http.StatusOK)
	assert.NotEmpty(t, signin["token"])

	bad := api.json(http.MethodPost, "/api/auth/signin", map[string]string{
		"email": "admin@cotiza.co", "password": "otra-clave",
	}, "", http.StatusUnauthorized)
	assert.Equal(t, "UNAUTHORIZED", bad["code"])

	resp, _ := api.do(http.MethodPost, "/api/auth/signout", nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	revoked := api.json(http.MethodGet, "/api/me", nil, token, http.StatusUnauthorized)
	assert.Equal(t, "UNAUTHORIZED", revoked["code"])
}

func TestAuthMiddleware_TokenAusenteOMalFormado(t *testing.T) {
	api := newTestAPI(t)

	missing := api.json(http.MethodGet, "/api/quotes", nil, "", http.StatusUnauthorized)
	assert.Equal(t, "MISSING_TOKEN", missing["code"])

	req := httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	garbage := api.json(http.MethodGet, "/api/quotes", nil, "no-es-un-jwt", http.StatusUnauthorized)
	assert.Equal(t, "UNAUTHORIZED", garbage["code"])
}

func TestRequirePermission_UsuarioSinRol(t *testing.T) {
	api := newTestAPI(t)
	api.signUp("admin@cotiza.co")
	token := api.signUp("invitado@cotiza.co")

	denied := api.json(http.MethodGet, "/api/quotes", nil, token, http.StatusForbidden)
	assert.Equal(t, "FORBIDDEN", denied["code"])
	assert.Contains(t, denied["message"], "manage_quotes")

	api.json(http.MethodGet, "/api/dashboard/summary", nil, token, http.StatusForbidden)

	me := api.json(http.MethodGet, "/api/me", nil, token, http.StatusOK)
	perms, _ := me["permissions"].([]any)
	assert.Empty(t, perms)
}

func TestErrores_ValidacionCuerpoYNoEncontrado(t *testing.T) {
	api := newTestAPI(t)
	token := api.signUp("admin@cotiza.co")

	invalid := api.json(http.MethodPost, "/api/clients", map[string]string{"email": "no-es-email"}, token, http.StatusUnprocessableEntity)
	assert.Equal(t, "VALIDATION", invalid["code"])
	fields, _ := invalid["fields"].(map[string]any)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")

	malformed := api.json(http.MethodPost, "/api/clients", "{", token, http.StatusBadRequest)
	assert.Equal(t, "INVALID_BODY", malformed["code"])

	missing := api.json(http.MethodGet, "/api/quotes/no-existe", nil, token, http.StatusNotFound)
	assert.Equal(t, "NOT_FOUND", missing["code"])

	month := api.json(http.MethodGet, "/api/dashboard/summary?month=marzo", nil, token, http.StatusUnprocessableEntity)
	fields, _ = month["fields"].(map[string]any)
	assert.Contains(t, fields, "month")
}

func TestQuoteCalculate(t *testing.T) {
	api := newTestAPI(t)
	token := api.signUp("admin@cotiza.co")

	out := api.json(http.MethodPost, "/api/quotes/calculate", map[string]any{
		"items": []map[string]any{{
			"description": "Soporte", "quantity": "1", "unit_price": "300", "unit_cost": "100",
			"billing_frequency": "monthly", "contract_months": 3,
			"down_payment": map[string]string{"value": "50", "kind": "fixed"},
		}},
		"discount":        map[string]string{"value": "0", "kind": "fixed"},
		"commission_rate": "10",
	}, token, http.StatusOK)

	totals, ok := out["totals"].(map[string]any)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(900).Equal(decimalField(t, totals, "total_amount")))
	assert.True(t, decimal.NewFromInt(350).Equal(decimalField(t, totals, "due_at_signing")))
}

// Flujo completo: cliente, cotización, aprobación, factura, documentos y pago.
func TestQuoteToInvoiceFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.signUp("admin@cotiza.co")

	client := api.json(http.MethodPost, "/api/clients", map[string]string{"name": "Acme"}, token, http.StatusCreated)
	clientID, _ := client["id"].(string)
	require.NotEmpty(t, clientID)

	draft := map[string]any{
		"client_id": clientID,
		"items": []map[string]any{{
			"description": "Implementación", "quantity": "2", "unit_price": "100", "unit_cost": "40",
			"billing_frequency": "one_time", "contract_months": 1,
			"down_payment": map[string]string{"value": "0", "kind": "fixed"},
		}},
		"discount": map[string]string{"value": "0", "kind": "fixed"},
	}
	quote := api.json(http.MethodPost, "/api/quotes", draft, token, http.StatusCreated)
	quoteID, _ := quote["id"].(string)
	require.NotEmpty(t, quoteID)
	assert.Equal(t, "draft", quote["status"])

	early := api.json(http.MethodPost, "/api/quotes/"+quoteID+"/convert", nil, token, http.StatusConflict)
	assert.Equal(t, "INVALID_TRANSITION", early["code"])

	api.json(http.MethodPost, "/api/quotes/"+quoteID+"/transition", map[string]string{"status": "sent"}, token, http.StatusOK)
	approved := api.json(http.MethodPost, "/api/quotes/"+quoteID+"/transition", map[string]string{"status": "approved"}, token, http.StatusOK)
	assert.Equal(t, "approved", approved["status"])

	immutable := api.json(http.MethodPut, "/api/quotes/"+quoteID, draft, token, http.StatusConflict)
	assert.Equal(t, "IMMUTABLE_QUOTE", immutable["code"])

	resp, data := api.do(http.MethodGet, "/api/quotes/"+quoteID+"/pdf", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	invoice := api.json(http.MethodPost, "/api/quotes/"+quoteID+"/convert", nil, token, http.StatusCreated)
	invoiceID, _ := invoice["id"].(string)
	require.NotEmpty(t, invoiceID)
	assert.True(t, decimal.NewFromInt(200).Equal(decimalField(t, invoice, "total_amount")))

	again := api.json(http.MethodPost, "/api/quotes/"+quoteID+"/convert", nil, token, http.StatusConflict)
	assert.Equal(t, "ALREADY_CONVERTED", again["code"])

	resp, data = api.do(http.MethodGet, "/api/invoices/"+invoiceID+"/xml", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderDocumentDigest))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(t, string(data), "<Invoice")

	paid := api.json(http.MethodPost, "/api/invoices/"+invoiceID+"/payments", map[string]string{"amount": "50"}, token, http.StatusCreated)
	assert.True(t, decimal.NewFromInt(150).Equal(decimalField(t, paid, "balance")))

	over := api.json(http.MethodPost, "/api/invoices/"+invoiceID+"/payments", map[string]string{"amount": "500"}, token, http.StatusUnprocessableEntity)
	assert.Equal(t, "VALIDATION", over["code"])

	sync := api.json(http.MethodPost, "/api/recurring/sync", nil, token, http.StatusOK)
	assert.Contains(t, sync, "invoices_created")
}
