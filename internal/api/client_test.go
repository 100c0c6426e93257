package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetSerializesFlatParams(t *testing.T) {
	t.Parallel()

	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api", 0)
	payload, err := c.Get(context.Background(), "transactions", Params{
		"page":       1,
		"limit":      10,
		"type":       "TRANSFER",
		"isFraud":    0,
		"min_amount": 50.5,
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"ok": true}, payload)

	require.Equal(t, []string{"1"}, gotQuery["page"])
	require.Equal(t, []string{"10"}, gotQuery["limit"])
	require.Equal(t, []string{"TRANSFER"}, gotQuery["type"])
	require.Equal(t, []string{"0"}, gotQuery["isFraud"])
	require.Equal(t, []string{"50.5"}, gotQuery["min_amount"])
}

func TestGetRejectsNestedParamsBeforeDispatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call expected for invalid input")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.Get(context.Background(), "transactions", Params{"amount_range": []any{1, 2}})
	require.Error(t, err)
	require.Equal(t, KindInvalidInput, Classify(err).Kind)
}

func TestPostSendsJSONBody(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{"count": 0, "transactions": []any{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.Post(context.Background(), "transactions/search", Params{
		"type":         "TRANSFER",
		"amount_range": []any{100.0, 999999999.0},
	})
	require.NoError(t, err)
	require.Equal(t, "application/json", gotContentType)
	require.Equal(t, "TRANSFER", gotBody["type"])
	require.Equal(t, []any{100.0, 999999999.0}, gotBody["amount_range"])
}

func TestPostNilBodyPostsEmptyObject(t *testing.T) {
	t.Parallel()

	var raw json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.Post(context.Background(), "fraud/predict", nil)
	require.NoError(t, err)
	require.JSONEq(t, "{}", string(raw))
}

func TestHTTPErrorCarriesStatusAndDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"detail": "model unavailable"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.Get(context.Background(), "stats/overview", nil)
	require.Error(t, err)
	apiErr := Classify(err)
	require.Equal(t, KindHTTP, apiErr.Kind)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	require.Equal(t, "model unavailable", apiErr.Message)
}

func TestHTTPErrorFallsBackToStatusText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain text, not json", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.Get(context.Background(), "transactions/999999", nil)
	apiErr := Classify(err)
	require.Equal(t, KindHTTP, apiErr.Kind)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, http.StatusText(http.StatusNotFound), apiErr.Message)
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, 0)
	_, err := c.Get(context.Background(), "transactions", nil)
	require.Error(t, err)
	require.Equal(t, KindTransport, Classify(err).Kind)
}

func TestUndecodableSuccessBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.Get(context.Background(), "system/metadata", nil)
	require.Error(t, err)
	require.Equal(t, KindTransport, Classify(err).Kind)
}

func TestDispatchByRoute(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"path": r.URL.Path, "method": r.Method})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api", 0)

	get, err := Lookup(CategoryStatistics, "overview")
	require.NoError(t, err)
	res := c.Dispatch(context.Background(), get, nil)
	require.True(t, res.OK())
	require.Equal(t, "/api/stats/overview", res.Payload.(map[string]any)["path"])

	post, err := Lookup(CategoryTransactions, "search")
	require.NoError(t, err)
	res = c.Dispatch(context.Background(), post, Params{})
	require.True(t, res.OK())
	require.Equal(t, http.MethodPost, res.Payload.(map[string]any)["method"])
}

func TestDispatchRejectsUnfilledPlaceholder(t *testing.T) {
	t.Parallel()

	c := NewClient("http://localhost:0", 0)
	r, err := Lookup(CategoryTransactions, "get")
	require.NoError(t, err)
	res := c.Dispatch(context.Background(), r, nil)
	require.False(t, res.OK())
	require.Equal(t, KindInvalidInput, res.Err.Kind)
}

func TestProbeLiveness(t *testing.T) {
	t.Parallel()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/system/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	}))
	defer healthy.Close()
	require.True(t, NewClient(healthy.URL+"/api", 0).ProbeLiveness(context.Background()))

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()
	require.False(t, NewClient(failing.URL+"/api", 0).ProbeLiveness(context.Background()))
}

func TestProbeLivenessUnreachableReturnsFalseWithinWindow(t *testing.T) {
	t.Parallel()

	// Reserved TEST-NET address; connect either refuses quickly or hangs
	// until the probe's own deadline fires.
	c := NewClient("http://192.0.2.1:9", 0)
	start := time.Now()
	alive := c.ProbeLiveness(context.Background())
	require.False(t, alive)
	require.Less(t, time.Since(start), probeTimeout+time.Second)
}
