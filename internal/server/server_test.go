package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"poolDetails/internal/details"
	"poolDetails/internal/metrics"
)

type stubCaller struct {
	payload string
	err     error
}

func (s stubCaller) CallFunction(_ context.Context, _, _ string, _ any, out any) error {
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.payload), out)
}

const poolsPayload = `{
	"acme": {
		"name": "Acme Pool",
		"country": "DE",
		"url": "acme.example",
		"twitter": "@acmepool",
		"telegram": "acmechat"
	},
	"zebra.poolv1.near": {"name": "Zebra"}
}`

func newTestServer(t *testing.T, caller details.ContractCaller, load bool) *Server {
	t.Helper()
	m := metrics.New()
	svc := details.NewService(details.Config{}, caller, m, nil)
	if load {
		svc.Load(context.Background())
	}
	return New(svc, m, nil)
}

func doGet(t *testing.T, srv *Server, path string) (int, string, http.Header) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, path, nil)
	require.NoError(t, err)
	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, stubCaller{payload: poolsPayload}, true)

	code, body, _ := doGet(t, srv, "/health")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"status":"ok","loaded":true,"pools":2}`, body)
}

func TestHealthDegradedAfterFailedLoad(t *testing.T) {
	srv := newTestServer(t, stubCaller{err: errors.New("Server error")}, true)

	code, body, _ := doGet(t, srv, "/health")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Contains(t, body, `"status":"degraded"`)
	require.Contains(t, body, "Server error")
}

func TestHealthBeforeLoad(t *testing.T) {
	srv := newTestServer(t, stubCaller{payload: poolsPayload}, false)

	code, body, _ := doGet(t, srv, "/health")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Contains(t, body, `"status":"loading"`)
}

func TestListPools(t *testing.T) {
	srv := newTestServer(t, stubCaller{payload: poolsPayload}, true)

	code, body, _ := doGet(t, srv, "/pools")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `["acme","zebra.poolv1.near"]`, body)
}

func TestGetPool(t *testing.T) {
	srv := newTestServer(t, stubCaller{payload: poolsPayload}, true)

	code, body, _ := doGet(t, srv, "/pools/acme.poolv1.near")
	require.Equal(t, http.StatusOK, code)

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &fields))
	require.Len(t, fields, 10)
	require.Equal(t, "Acme Pool", fields["name"])
	require.Nil(t, fields["email"])

	code, _, _ = doGet(t, srv, "/pools/unknown")
	require.Equal(t, http.StatusNotFound, code)
}

func TestGetPoolHTML(t *testing.T) {
	srv := newTestServer(t, stubCaller{payload: poolsPayload}, true)

	code, body, header := doGet(t, srv, "/pools/acme/html")
	require.Equal(t, http.StatusOK, code)
	require.True(t, strings.HasPrefix(header.Get("Content-Type"), "text/html"))
	require.Contains(t, body, `href="http://acme.example"`)
	require.Contains(t, body, "https://twitter.com/acmepool")
	require.Contains(t, body, "https://t.me/acmechat")

	code, body, _ = doGet(t, srv, "/pools/acme/html?skip_quick_links=true")
	require.Equal(t, http.StatusOK, code)
	require.NotContains(t, body, "acme.example")
	require.NotContains(t, body, "twitter.com")
	require.Contains(t, body, "https://t.me/acmechat")

	code, _, _ = doGet(t, srv, "/pools/unknown/html")
	require.Equal(t, http.StatusNotFound, code)
}

func TestGetPoolTooltip(t *testing.T) {
	srv := newTestServer(t, stubCaller{payload: poolsPayload}, true)

	code, body, _ := doGet(t, srv, "/pools/acme.near/tooltip")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Acme Pool | DE", body)

	code, _, _ = doGet(t, srv, "/pools/unknown/tooltip")
	require.Equal(t, http.StatusNotFound, code)
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, stubCaller{payload: poolsPayload}, true)

	code, body, _ := doGet(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "pooldetails_load_total")
	require.Contains(t, body, "pooldetails_pools_loaded 2")
}
