package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type observed struct {
	route  string
	method string
	status int
}

type fakeObserver struct {
	calls []observed
}

func (f *fakeObserver) ObserveRequest(route, method string, status int, _ time.Duration) {
	f.calls = append(f.calls, observed{route, method, status})
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	obs := &fakeObserver{}
	r := mux.NewRouter()
	r.Use(Metrics(obs))
	r.HandleFunc("/incubators/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/incubators/7/status", nil))

	require.Len(t, obs.calls, 1)
	assert.Equal(t, observed{"/incubators/{id}/status", http.MethodGet, http.StatusTeapot}, obs.calls[0])
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := mux.NewRouter()
	r.Use(AccessLog(zap.New(core)))
	r.HandleFunc("/samples", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/samples", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(200), fields["status"])
	assert.Equal(t, int64(2), fields["bytes"])
	assert.Equal(t, "/samples", fields["route"])
}

func TestRecovery(t *testing.T) {
	h := Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://dashboard.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://dashboard.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
