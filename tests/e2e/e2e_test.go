//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookpos/internal/config"
	"bookpos/internal/infra"
	"bookpos/internal/router"
	"bookpos/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

const operatorPassword = "fair-2026"

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("bookpos_test"),
		tcPostgres.WithUsername("bookpos"),
		tcPostgres.WithPassword("bookpos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(operatorPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                 8000,
		Env:                  "test",
		JWTSecret:            "test-secret-key",
		JWTExpirationHours:   8,
		OperatorPasswordHash: string(hash),
		DatabaseURL:          pgURL,
		RedisURL:             rdURL,
		WorkerPoolSize:       1,
		FairName:             "E2E Book Fair",
		PDFStoragePath:       t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{
			"password":      operatorPassword,
			"operator_name": "E2E Operator",
			"station_id":    "till-e2e",
		}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func createBook(t *testing.T, env *testEnv, title string, salePrice float64, qty int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/books",
		jsonBody(t, map[string]any{
			"code":        fmt.Sprintf("E2E-%s-%d", title[:2], time.Now().UnixNano()),
			"title":       title,
			"author":      "E2E Author",
			"cover_price": salePrice - 3,
			"sale_price":  salePrice,
			"quantity":    qty,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var book struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &book)
	return book.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)

	bookID := createBook(t, env, "Gaseous Clouds", 25, 10)

	openResp := do(t, env.server, "POST", "/v1/registers/open",
		jsonBody(t, map[string]any{"initial_amount": 200.0}), env.token)
	require.Equal(t, http.StatusCreated, openResp.StatusCode)
	var register struct {
		ID string `json:"id"`
	}
	decodeJSON(t, openResp, &register)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"book_id": bookID, "quantity": 2, "item_total": 50.0},
			},
			"payments": []map[string]any{
				{"method": "cash", "amount": 50.0},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		SaleGroupID    string `json:"sale_group_id"`
		FirstReceiptNo int    `json:"first_receipt_no"`
		TotalItems     int    `json:"total_items"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, 1, sale.FirstReceiptNo)
	assert.Equal(t, 1, sale.TotalItems)
	assert.NotEmpty(t, sale.SaleGroupID)

	// Balance reflects the sale.
	currentResp := do(t, env.server, "GET", "/v1/registers/open", nil, env.token)
	require.Equal(t, http.StatusOK, currentResp.StatusCode)
	var current struct {
		CurrentBalance string `json:"current_balance"`
	}
	decodeJSON(t, currentResp, &current)
	assert.Equal(t, "250", current.CurrentBalance)

	// The day's ledger lists the sale.
	listResp := do(t, env.server, "GET", "/v1/transactions", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, int64(1), list.Total)

	// Stock went down.
	bookResp := do(t, env.server, "GET", "/v1/books/"+bookID, nil, env.token)
	require.Equal(t, http.StatusOK, bookResp.StatusCode)
	var book struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, bookResp, &book)
	assert.Equal(t, 8, book.Quantity)

	// Close out the session.
	closeResp := do(t, env.server, "POST", "/v1/registers/"+register.ID+"/close",
		jsonBody(t, map[string]any{"final_amount": 250.0}), env.token)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
}

func TestE2E_SingleOpenSession(t *testing.T) {
	env := setupTestEnv(t)

	first := do(t, env.server, "POST", "/v1/registers/open",
		jsonBody(t, map[string]any{"initial_amount": 100.0}), env.token)
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second := do(t, env.server, "POST", "/v1/registers/open",
		jsonBody(t, map[string]any{"initial_amount": 50.0}), env.token)
	require.Equal(t, http.StatusConflict, second.StatusCode)
	var body struct {
		Error string `json:"error"`
	}
	decodeJSON(t, second, &body)
	assert.Equal(t, "session_already_open", body.Error)
}

func TestE2E_SaleInsufficientStockAtomic(t *testing.T) {
	env := setupTestEnv(t)

	bookA := createBook(t, env, "Plenty", 10, 5)
	bookB := createBook(t, env, "Scarce", 10, 1)

	openResp := do(t, env.server, "POST", "/v1/registers/open",
		jsonBody(t, map[string]any{"initial_amount": 100.0}), env.token)
	require.Equal(t, http.StatusCreated, openResp.StatusCode)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"book_id": bookA, "quantity": 2, "item_total": 20.0},
				{"book_id": bookB, "quantity": 3, "item_total": 30.0},
			},
			"payments": []map[string]any{
				{"method": "cash", "amount": 50.0},
			},
		}), env.token)
	require.Equal(t, http.StatusConflict, saleResp.StatusCode)
	var body struct {
		Error string `json:"error"`
	}
	decodeJSON(t, saleResp, &body)
	assert.Equal(t, "insufficient_stock", body.Error)

	// Nothing moved — the sale was rejected as a whole.
	bookResp := do(t, env.server, "GET", "/v1/books/"+bookA, nil, env.token)
	var book struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, bookResp, &book)
	assert.Equal(t, 5, book.Quantity)
}

func TestE2E_ExchangeCancelRestoresStock(t *testing.T) {
	env := setupTestEnv(t)

	returned := createBook(t, env, "Returned", 20, 0)
	replacement := createBook(t, env, "Replacement", 22, 2)

	openResp := do(t, env.server, "POST", "/v1/registers/open",
		jsonBody(t, map[string]any{"initial_amount": 100.0}), env.token)
	require.Equal(t, http.StatusCreated, openResp.StatusCode)

	exResp := do(t, env.server, "POST", "/v1/exchanges",
		jsonBody(t, map[string]any{
			"returned_book_id": returned,
			"new_book_id":      replacement,
		}), env.token)
	require.Equal(t, http.StatusCreated, exResp.StatusCode)
	var exchange struct {
		ID string `json:"id"`
	}
	decodeJSON(t, exResp, &exchange)

	cancelResp := do(t, env.server, "DELETE", "/v1/exchanges/"+exchange.ID, nil, env.token)
	require.Equal(t, http.StatusOK, cancelResp.StatusCode)

	for id, want := range map[string]int{returned: 0, replacement: 2} {
		resp := do(t, env.server, "GET", "/v1/books/"+id, nil, env.token)
		var book struct {
			Quantity int `json:"quantity"`
		}
		decodeJSON(t, resp, &book)
		assert.Equal(t, want, book.Quantity)
	}
}

func TestE2E_SaleRequiresOpenSession(t *testing.T) {
	env := setupTestEnv(t)
	bookID := createBook(t, env, "Orphan Sale", 10, 5)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"book_id": bookID, "quantity": 1, "item_total": 10.0},
			},
			"payments": []map[string]any{
				{"method": "cash", "amount": 10.0},
			},
		}), env.token)
	require.Equal(t, http.StatusConflict, saleResp.StatusCode)
	var body struct {
		Error string `json:"error"`
	}
	decodeJSON(t, saleResp, &body)
	assert.Equal(t, "no_open_session", body.Error)
}
