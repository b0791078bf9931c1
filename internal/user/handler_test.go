// AngelaMos | 2026
// handler_test.go

package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/user-backend/internal/authctx"
	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

const roleHeader = "X-Test-Claims"

// headerAuth builds the principal from a comma separated claim list so
// tests can act as admin, plain user or anonymous.
func headerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := r.Header.Get(roleHeader)
		if claims == "" {
			next.ServeHTTP(w, r)
			return
		}
		p := &authctx.Principal{
			UserID: "caller-1",
			Email:  "caller@example.com",
			Claims: strings.Split(claims, ","),
		}
		next.ServeHTTP(w, r.WithContext(authctx.With(r.Context(), p)))
	})
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *core.AppError  `json:"error"`
	Meta    *core.Meta      `json:"meta"`
}

func newTestRouter(t *testing.T) (*chi.Mux, *memStore) {
	t.Helper()

	svc, store := newTestService(t)
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, headerAuth)
	return r, store
}

func do(t *testing.T, h http.Handler, method, target, claims, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if claims != "" {
		req.Header.Set(roleHeader, claims)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

const (
	asAdmin = ClaimAdmin + "," + ClaimUser
	asUser  = ClaimUser
)

func addUser(t *testing.T, h http.Handler, email string) UserResponse {
	t.Helper()

	body, err := json.Marshal(validCreate(email))
	require.NoError(t, err)

	rec, env := do(t, h, http.MethodPost, "/users", asUser, string(body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var u UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &u))
	return u
}

func TestHandler_AddAndLookups(t *testing.T) {
	r, _ := newTestRouter(t)

	created := addUser(t, r, "Alice@Example.com")
	assert.Equal(t, "alice@example.com", created.Email)

	rec, env := do(t, r, http.MethodGet, "/users/"+created.ID, asUser, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	var got UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created.ID, got.ID)

	rec, env = do(t, r, http.MethodGet, "/users/by-mail?email=alice@example.com", asUser, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created.ID, got.ID)

	rec, env = do(t, r, http.MethodGet, "/users/"+created.ID+"/claims", asUser, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var claims []OperationClaim
	require.NoError(t, json.Unmarshal(env.Data, &claims))
	assert.Equal(t, []string{ClaimUser}, ClaimNames(claims))
}

func TestHandler_BadRequests(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"get by mail without email", http.MethodGet, "/users/by-mail", "", http.StatusBadRequest},
		{"delete by mail without email", http.MethodDelete, "/users/by-mail", "", http.StatusBadRequest},
		{"activate without email", http.MethodPost, "/users/activate", "", http.StatusBadRequest},
		{"malformed add body", http.MethodPost, "/users", "{", http.StatusBadRequest},
		{"malformed update body", http.MethodPut, "/users", "{", http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/users/00000000-0000-0000-0000-000000000000", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := do(t, r, tc.method, tc.target, asAdmin, tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
		})
	}
}

func TestHandler_Update(t *testing.T) {
	r, _ := newTestRouter(t)
	created := addUser(t, r, "alice@example.com")

	body := `{"id":"` + created.ID + `","first_name":"Alicia","last_name":"Smith",` +
		`"email":"alicia@example.com","user_name":"alicia"}`
	rec, env := do(t, r, http.MethodPut, "/users", asUser, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Alicia", got.FirstName)
	assert.Equal(t, "alicia@example.com", got.Email)

	rec, env = do(t, r, http.MethodPut, "/users", asUser,
		`{"id":"not-a-uuid","first_name":"A","last_name":"Smith","email":"x@example.com","user_name":"alicia"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	require.NotEmpty(t, env.Error.Fields)

	fields := make(map[string]bool)
	for _, f := range env.Error.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["id"])
	assert.True(t, fields["first_name"])
}

func TestHandler_AdminOnlyRoutes(t *testing.T) {
	r, _ := newTestRouter(t)
	created := addUser(t, r, "alice@example.com")

	tests := []struct {
		name   string
		method string
		target string
	}{
		{"list", http.MethodGet, "/users"},
		{"delete by id", http.MethodDelete, "/users/" + created.ID},
		{"delete by mail", http.MethodDelete, "/users/by-mail?email=alice@example.com"},
	}

	for _, tc := range tests {
		t.Run(tc.name+" as user", func(t *testing.T) {
			rec, _ := do(t, r, tc.method, tc.target, asUser, "")
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
		t.Run(tc.name+" anonymous", func(t *testing.T) {
			rec, _ := do(t, r, tc.method, tc.target, "", "")
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}

	rec, _ := do(t, r, http.MethodGet, "/users/"+created.ID, asUser, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_ListPages(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		addUser(t, r, email)
	}

	rec, env := do(t, r, http.MethodGet, "/users?page_index=1&page_size=2", asAdmin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 3, env.Meta.Total)
	assert.Equal(t, 2, env.Meta.Pages)
	assert.True(t, env.Meta.HasPrevious)
	assert.False(t, env.Meta.HasNext)

	var items []UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "c@example.com", items[0].Email)

	rec, env = do(t, r, http.MethodGet, "/users?page_index=99999999999", asAdmin, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "page_index", env.Error.Fields[0].Field)
}

func TestHandler_DeleteThenActivate(t *testing.T) {
	r, _ := newTestRouter(t)
	created := addUser(t, r, "alice@example.com")

	rec, env := do(t, r, http.MethodDelete, "/users/"+created.ID, asAdmin, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var deleted DeletedUserResponse
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	assert.Equal(t, created.ID, deleted.ID)
	assert.False(t, deleted.DeletedAt.IsZero())

	rec, _ = do(t, r, http.MethodGet, "/users/"+created.ID, asUser, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = do(t, r, http.MethodGet, "/users/by-mail?email=alice@example.com", asUser, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = do(t, r, http.MethodPost, "/users/activate?email=alice@example.com", asUser, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, "true", string(env.Data))

	rec, env = do(t, r, http.MethodGet, "/users/"+created.ID, asUser, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var back UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &back))
	assert.True(t, back.Status)
	assert.Nil(t, back.DeletedAt)

	rec, _ = do(t, r, http.MethodDelete, "/users/by-mail?email=alice@example.com", asAdmin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, r, http.MethodDelete, "/users/by-mail?email=alice@example.com", asAdmin, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, r, http.MethodPost, "/users/activate?email=ghost@example.com", asUser, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
