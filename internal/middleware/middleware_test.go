package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billminder/internal/auth"
	"github.com/mmynk/billminder/internal/metrics"
)

func fixedResolver(owner string) auth.OwnerResolver {
	return auth.ResolverFunc(func(*http.Request) (string, bool) {
		return owner, owner != ""
	})
}

func newRouter(resolver auth.OwnerResolver, m *metrics.Collector, h http.HandlerFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(Logging(m))
	r.Use(Recover)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(RequireOwner(resolver, m))
	api.HandleFunc("/status", h).Methods(http.MethodGet)
	return r
}

func TestRequireOwner(t *testing.T) {
	m := metrics.New()
	var seen string
	handler := func(w http.ResponseWriter, r *http.Request) {
		seen = GetOwnerID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}

	t.Run("adds owner to context", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newRouter(fixedResolver("alice"), m, handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "alice", seen)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/status", "204")))
	})

	t.Run("rejects anonymous requests", func(t *testing.T) {
		seen = ""
		rec := httptest.NewRecorder()
		newRouter(fixedResolver(""), m, handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Not authenticated"}`, rec.Body.String())
		assert.Empty(t, seen)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthFailures.WithLabelValues("/api/status")))
	})
}

func TestRecover(t *testing.T) {
	rec := httptest.NewRecorder()
	router := newRouter(fixedResolver("alice"), nil, func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := CORS(auth.DefaultPrincipalHeader)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/bills", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), auth.DefaultPrincipalHeader)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bills", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
