package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/saadjs/unitconv/internal/message"
	"github.com/saadjs/unitconv/internal/server"
)

func newTestServer(t *testing.T, opts server.Options) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(server.NewRouter(message.NewHandler(nil), opts))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, server.Options{Version: "1.2.3"})

	var body map[string]string
	if status := doJSON(t, "GET", ts.URL+"/health", "", &body); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["status"] != "ok" || body["version"] != "1.2.3" {
		t.Fatalf("unexpected health body %+v", body)
	}
}

func TestCategoriesAndUnits(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, server.Options{})

	var cats []struct {
		Code     string `json:"code"`
		BaseUnit string `json:"baseUnit"`
		Units    int    `json:"units"`
	}
	if status := doJSON(t, "GET", ts.URL+"/api/v1/categories", "", &cats); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(cats) != 10 || cats[0].Code != "length" || cats[0].BaseUnit != "m" || cats[0].Units != 8 {
		t.Fatalf("unexpected categories %+v", cats)
	}

	var list []struct {
		Code  string `json:"code"`
		Label string `json:"label"`
		Name  string `json:"name"`
	}
	if status := doJSON(t, "GET", ts.URL+"/api/v1/categories/temperature/units", "", &list); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(list) != 3 || list[0].Code != "celsius" || list[0].Label != "°C" {
		t.Fatalf("unexpected units %+v", list)
	}

	var e message.ErrorResponse
	if status := doJSON(t, "GET", ts.URL+"/api/v1/categories/colour/units", "", &e); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestPairConversion(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, server.Options{})

	var out struct {
		Value          float64 `json:"value"`
		FormattedValue string  `json:"formattedValue"`
	}
	status := doJSON(t, "GET", ts.URL+"/api/v1/categories/length/convert?value=1&from=ft&to=m&places=4", "", &out)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if out.FormattedValue != "0.3048" {
		t.Fatalf("expected 0.3048, got %+v", out)
	}

	var e message.ErrorResponse
	if status := doJSON(t, "GET", ts.URL+"/api/v1/categories/length/convert?value=abc&from=ft&to=m", "", &e); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad value, got %d", status)
	}
	if status := doJSON(t, "GET", ts.URL+"/api/v1/categories/length/convert?value=1&from=ft&to=kg", "", &e); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown unit, got %d", status)
	}
	e = message.ErrorResponse{}
	status = doJSON(t, "GET", ts.URL+"/api/v1/categories/data/convert?value=1e308&from=tb&to=bit", "", &e)
	if status != http.StatusBadRequest || e.Error == "" {
		t.Fatalf("expected 400 with an error body for an overflowing result, got %d %+v", status, e)
	}
}

func TestConvertAndDetectEndpoints(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, server.Options{})

	var conv message.ConvertResponse
	status := doJSON(t, "POST", ts.URL+"/api/v1/convert", `{"value":1,"unitCode":"kg","category":"weight"}`, &conv)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(conv.Conversions) != 5 || conv.Conversions[0].UnitCode != "lb" {
		t.Fatalf("unexpected conversions %+v", conv.Conversions)
	}

	var e message.ErrorResponse
	status = doJSON(t, "POST", ts.URL+"/api/v1/convert", `{"value":1,"unitCode":"kg","category":"length"}`, &e)
	if status != http.StatusBadRequest || !strings.HasPrefix(e.Error, "Conversion failed") {
		t.Fatalf("expected 400 conversion failure, got %d %+v", status, e)
	}

	var det message.DetectResponse
	status = doJSON(t, "POST", ts.URL+"/api/v1/detect", `{"text":"1500 mbar"}`, &det)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(det.Detections) != 1 || det.Detections[0].UnitCode != "bar" || det.Detections[0].Value != 1.5 {
		t.Fatalf("unexpected detections %+v", det.Detections)
	}

	if status := doJSON(t, "POST", ts.URL+"/api/v1/detect", `{`, &e); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", status)
	}
}

func TestMessagesEndpoint(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, server.Options{})

	var e message.ErrorResponse
	status := doJSON(t, "POST", ts.URL+"/api/v1/messages", `{"type":"BOGUS"}`, &e)
	if status != http.StatusOK || e.Error != "Unknown message type" {
		t.Fatalf("unexpected response %d %+v", status, e)
	}

	var prefs map[string]any
	if status := doJSON(t, "POST", ts.URL+"/api/v1/messages", `{"type":"GET_PREFERENCES"}`, &prefs); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if prefs["decimalPlaces"] != float64(2) {
		t.Fatalf("unexpected preferences %+v", prefs)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, server.Options{AllowedOrigins: []string{"http://localhost:5173"}})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/convert", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected allowed origin to be echoed, got %q", got)
	}

	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected unknown origin to be refused, got %q", got)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	router := server.NewRouter(message.NewHandler(nil), server.Options{Logger: log.New(&buf, "", 0)})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "GET /health 200") {
		t.Fatalf("expected request to be logged, got %q", buf.String())
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, ln, server.NewRouter(message.NewHandler(nil), server.Options{}), log.New(io.Discard, "", 0))
	}()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + ln.Addr().String() + "/health")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
