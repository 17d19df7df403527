package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/smarthealth/internal/config"
	"github.com/jwalitptl/smarthealth/internal/model"
	apperrors "github.com/jwalitptl/smarthealth/pkg/errors"
	"github.com/jwalitptl/smarthealth/pkg/listing"
	"github.com/jwalitptl/smarthealth/pkg/metrics"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(config.APIConfig{BaseURL: srv.URL + "/api/", Timeout: 5 * time.Second}, opts...)
	require.NoError(t, err)
	return c
}

func TestDoSendsHeadersAndDecodesEnvelope(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"id":4,"fullName":"Dr. Roy","specialty":"Cardiology","status":"ACTIVE"}}`)
	}, WithTokenSource(TokenFunc(func() string { return "tok" })))

	var d model.Doctor
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/doctors/4", nil, nil, &d))

	assert.Equal(t, "/api/doctors/4", got.URL.Path)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, int64(4), d.ID)
	assert.Equal(t, "Cardiology", d.Specialty)
}

func TestDoWithoutTokenOmitsAuthorization(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Do(context.Background(), http.MethodDelete, "/doctors/4", nil, nil, nil))
	assert.Empty(t, auth)
}

func TestDoEmptyBodyIsFine(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var d model.Doctor
	require.NoError(t, c.Do(context.Background(), http.MethodDelete, "/doctors/4", nil, nil, &d))
	assert.Zero(t, d.ID)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    apperrors.Kind
		message string
	}{
		{"validation", http.StatusBadRequest, `{"statusCode":400,"message":"Email already exists"}`, apperrors.KindValidation, "Email already exists"},
		{"validation error text", http.StatusConflict, `{"statusCode":409,"error":"Conflict"}`, apperrors.KindValidation, "Conflict"},
		{"unauthorized", http.StatusUnauthorized, `{"message":"Token expired"}`, apperrors.KindUnauthorized, "Token expired"},
		{"not found", http.StatusNotFound, ``, apperrors.KindNotFound, apperrors.GenericMessage},
		{"server with message", http.StatusInternalServerError, `{"message":"Database unavailable"}`, apperrors.KindServer, "Database unavailable"},
		{"server without message", http.StatusBadGateway, `{"statusCode":502,"error":"Bad Gateway"}`, apperrors.KindServer, apperrors.GenericMessage},
		{"server html", http.StatusInternalServerError, `<html>oops</html>`, apperrors.KindServer, apperrors.GenericMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := c.Do(context.Background(), http.MethodPost, "/appointments", nil, map[string]string{"a": "b"}, nil)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
			assert.Equal(t, tt.message, apperrors.UserMessage(err))
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New(config.APIConfig{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	err = c.Do(context.Background(), http.MethodGet, "/doctors", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNetwork))
	assert.Equal(t, apperrors.GenericMessage, apperrors.UserMessage(err))
}

func TestGetPage(t *testing.T) {
	var query url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		io.WriteString(w, `{"data":{"data":[{"id":1,"status":"PENDING"},{"id":2,"status":"CONFIRMED"}],"meta":{"page":2,"pageSize":2,"pages":7,"total":14}}}`)
	})

	q := listing.NewQuery(2, listing.ParseSort("appointmentDate,desc"))
	q.Page = 2
	q.Filters["status"] = listing.All
	params := listing.BuildParams(q, listing.Schema{})

	page, err := GetPage[model.Appointment](context.Background(), c, "/appointments", params)
	require.NoError(t, err)

	assert.Equal(t, "2", query.Get("page"))
	assert.Equal(t, "appointmentDate,desc", query.Get("sort"))
	assert.False(t, query.Has("filter"))
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 14, page.TotalItems)
	assert.Equal(t, 7, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
}

func TestGetPageMissingPayload(t *testing.T) {
	for _, body := range []string{``, `{}`, `{"data":null}`, `{"data":{"data":[{"id":1}]}}`} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		})

		page, err := GetPage[model.Appointment](context.Background(), c, "/appointments", url.Values{"page": {"3"}})
		require.NoError(t, err, body)
		assert.NotNil(t, page.Items, body)
		assert.Empty(t, page.Items, body)
		assert.Zero(t, page.TotalPages, body)
		assert.Equal(t, 3, page.CurrentPage, body)
	}
}

func TestRequestMetrics(t *testing.T) {
	m := metrics.New("test", prometheus.NewRegistry())
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, `{"data":{}}`)
	}, WithMetrics(m))

	ctx := context.Background()
	require.NoError(t, c.Do(ctx, http.MethodGet, "/doctors/1", nil, nil, nil))
	require.Error(t, c.Do(ctx, http.MethodGet, "/doctors/missing", nil, nil, nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("doctors", "GET", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("doctors", "GET", "not_found")))
}

func TestRateLimiterHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c, err := New(config.APIConfig{BaseURL: srv.URL, Timeout: time.Second, RateLimitRPS: 0.001, RateLimitBurst: 1})
	require.NoError(t, err)

	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/doctors", nil, nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = c.Do(ctx, http.MethodGet, "/doctors", nil, nil, nil)
	assert.True(t, apperrors.Is(err, apperrors.KindNetwork))
}
