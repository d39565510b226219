package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/go-roster/internal/api/handlers"
	"github.com/hugh/go-roster/internal/testutil"
)

func setupTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	users := handlers.NewUserHandler(tc.Service, tc.Logger)
	roles := handlers.NewRoleHandler(tc.Service, tc.Logger)
	txs := handlers.NewTransactionHandler(tc.Service, tc.Logger)
	health := handlers.NewHealthHandler(tc.DB, nil)

	r := chi.NewRouter()
	r.Get("/health", health.Health)
	r.Get("/ready", health.Ready)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", users.List)
			r.Post("/", users.Create)
			r.Get("/{id}", users.Get)
			r.Put("/{id}", users.Update)
			r.Delete("/{id}", users.Delete)
		})
		r.Route("/roles", func(r chi.Router) {
			r.Get("/", roles.List)
			r.Post("/", roles.Create)
			r.Get("/{id}", roles.Get)
			r.Put("/{id}", roles.Update)
			r.Delete("/{id}", roles.Delete)
			r.Get("/{id}/users", roles.Users)
		})
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/assign-users-to-role", txs.AssignUsersToRole)
			r.Post("/transfer-users-between-roles", txs.TransferUsersBetweenRoles)
			r.Delete("/roles/{id}", txs.DeleteRoleWithReassignment)
			r.Post("/create-user-with-role", txs.CreateUserWithRole)
		})
	})

	return r, tc
}

func serve(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, testutil.JSONRequest(t, method, path, body))
	return rr
}

// envelope mirrors dto.Envelope with a concrete data type.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Count   *int   `json:"count"`
}

type errorBody struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details"`
}
