package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/api/shared"
	"github.com/phrazzld/shopping-list-api/internal/config"
	"github.com/phrazzld/shopping-list-api/internal/listquery"
	"github.com/phrazzld/shopping-list-api/internal/pagination"
	"github.com/phrazzld/shopping-list-api/internal/platform/memory"
	"github.com/phrazzld/shopping-list-api/internal/service"
	"github.com/phrazzld/shopping-list-api/internal/service/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-at-least-32-chars-long"

type testEnv struct {
	tokens auth.JWTService
	users  *memory.UserStore
	items  *memory.ShoppingItemStore
	auth   *AuthHandler
	list   *ShoppingListHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   testSecret,
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60,
		BCryptCost:                  bcrypt.MinCost,
	})
	require.NoError(t, err)

	users := memory.NewUserStore(bcrypt.MinCost)
	items := memory.NewShoppingItemStore()

	userService, err := service.NewUserService(users, memory.NewTransactor(), tokens, auth.NewBcryptVerifier(), nil)
	require.NoError(t, err)
	listService, err := service.NewShoppingListService(items, nil)
	require.NoError(t, err)
	queries, err := listquery.NewService(items, nil)
	require.NoError(t, err)
	listHandler, err := NewShoppingListHandler(listService, queries, pagination.New(10, 100), nil)
	require.NoError(t, err)

	return &testEnv{
		tokens: tokens,
		users:  users,
		items:  items,
		auth:   NewAuthHandler(userService, nil),
		list:   listHandler,
	}
}

// jsonRequest builds a request with body marshalled from v, or sent raw when
// v is a string.
func jsonRequest(t *testing.T, method, target string, v interface{}) *http.Request {
	t.Helper()
	var body []byte
	switch b := v.(type) {
	case nil:
	case string:
		body = []byte(b)
	default:
		var err error
		body, err = json.Marshal(v)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(shared.WithUserID(req.Context(), userID))
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) shared.Envelope {
	t.Helper()
	var env shared.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// itemEnvelope is an Envelope whose data is a shopping item.
type itemEnvelope struct {
	Error bool                 `json:"error"`
	Code  string               `json:"code"`
	Data  ShoppingItemResponse `json:"data"`
}

func decodeItem(t *testing.T, w *httptest.ResponseRecorder) ShoppingItemResponse {
	t.Helper()
	var env itemEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Data
}

func (e *testEnv) createItem(t *testing.T, userID uuid.UUID, name string, quantity int, note *string) ShoppingItemResponse {
	t.Helper()
	req := asUser(jsonRequest(t, http.MethodPost, "/shopping-list/", CreateItemRequest{
		Name: name, Quantity: &quantity, Note: note,
	}), userID)
	w := serve(e.list.CreateItem, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeItem(t, w)
}

func strPtr(s string) *string { return &s }

