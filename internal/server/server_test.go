package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/mmynk/boleto/internal/auth"
	"github.com/mmynk/boleto/internal/boleto"
	"github.com/mmynk/boleto/internal/metrics"
	"github.com/mmynk/boleto/internal/middleware"
	"github.com/mmynk/boleto/internal/service"
)

const validBarcode = "00191100100000100500000001234567001234500017"

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	opts.Gatherer = reg
	svc := service.NewBoletoService(boleto.NewDecoder(), metrics.New(reg))
	srv := httptest.NewServer(NewHandler(svc, opts))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, header http.Header) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestLookup(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, body := get(t, srv.URL+"/api/v1/boletos/"+validBarcode, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "1997-10-08", got["due_date"])
	assert.Equal(t, "100.50", got["amount"])
	assert.Equal(t, true, got["checksum_valid"])
}

func TestLookupRejectsBadLength(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, body := get(t, srv.URL+"/api/v1/boletos/12345", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "invalid_length", got["error"])
}

func TestLookupEscapedCodeline(t *testing.T) {
	srv := newTestServer(t, Options{})

	printed := "00190%2E00009%2001234%2E567009%2012345%2E000176%201%2010010000010050"
	resp, body := get(t, srv.URL+"/api/v1/boletos/"+printed, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "codeline", got["format"])
	assert.Equal(t, validBarcode, got["barcode"])
	assert.Equal(t, "100.50", got["amount"])
}

func TestLookupRejectsBadEscape(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := service.NewBoletoService(boleto.NewDecoder(), metrics.New(reg))
	h := NewHandler(svc, Options{Gatherer: reg})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/boletos/x", nil)
	req.URL.RawPath = "/api/v1/boletos/00190%zz"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "invalid_escape", got["error"])
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(t, Options{})

	id := "6f1c7d0e-0d3a-4b8e-9d7e-1f0a2b3c4d5e"
	resp, _ := get(t, srv.URL+"/healthz", http.Header{middleware.RequestIDHeader: {id}})
	assert.Equal(t, id, resp.Header.Get(middleware.RequestIDHeader))

	resp, _ = get(t, srv.URL+"/healthz", http.Header{middleware.RequestIDHeader: {"not-a-uuid"}})
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(middleware.RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, Options{})

	client := service.NewBoletoServiceClient(http.DefaultClient, srv.URL)
	_, err := client.Decode(context.Background(), connect.NewRequest(wrapperspb.String(validBarcode)))
	require.NoError(t, err)

	resp, body := get(t, srv.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `boleto_decodes_total{format="barcode",outcome="valid"} 1`)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp, body := get(t, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	srv := newTestServer(t, Options{JWT: jwtManager, RequireAuth: true})
	client := service.NewBoletoServiceClient(http.DefaultClient, srv.URL)

	t.Run("rpc without token", func(t *testing.T) {
		_, err := client.Decode(context.Background(), connect.NewRequest(wrapperspb.String(validBarcode)))
		var connectErr *connect.Error
		require.True(t, errors.As(err, &connectErr))
		assert.Equal(t, connect.CodeUnauthenticated, connectErr.Code())
	})

	t.Run("rpc with token", func(t *testing.T) {
		token, err := jwtManager.Generate("scanner-1", "")
		require.NoError(t, err)
		req := connect.NewRequest(wrapperspb.String(validBarcode))
		req.Header().Set("Authorization", "Bearer "+token)
		resp, err := client.Decode(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, true, resp.Msg.AsMap()["checksum_valid"])
	})

	t.Run("rest without token", func(t *testing.T) {
		resp, _ := get(t, srv.URL+"/api/v1/boletos/"+validBarcode, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rest with malformed header", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/api/v1/boletos/"+validBarcode, http.Header{"Authorization": {"Token abc"}})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.True(t, strings.Contains(string(body), "invalid"))
	})

	t.Run("health stays open", func(t *testing.T) {
		resp, _ := get(t, srv.URL+"/healthz", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	srv := newTestServer(t, Options{JWT: auth.NewJWTManager("test-secret", time.Hour)})
	client := service.NewBoletoServiceClient(http.DefaultClient, srv.URL)

	req := connect.NewRequest(wrapperspb.String(validBarcode))
	req.Header().Set("Authorization", "Bearer garbage")
	_, err := client.Decode(context.Background(), req)
	assert.NoError(t, err)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, "127.0.0.1:0", http.NotFoundHandler())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
