// Package server exposes the message protocol and the unit tables over HTTP.
package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/saadjs/unitconv/internal/message"
	"github.com/saadjs/unitconv/internal/units"
)

const maxBodyBytes = 1 << 20

type Options struct {
	// AllowedOrigins are echoed in Access-Control-Allow-Origin. Empty means
	// no cross-origin access.
	AllowedOrigins []string
	Version        string
	Logger         *log.Logger
}

type categoryInfo struct {
	Code     units.Category `json:"code"`
	BaseUnit string         `json:"baseUnit"`
	Units    int            `json:"units"`
}

type unitInfo struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Name  string `json:"name"`
}

type pairConversion struct {
	Value          float64        `json:"value"`
	FormattedValue string         `json:"formattedValue"`
	From           string         `json:"from"`
	To             string         `json:"to"`
	Category       units.Category `json:"category"`
}

// NewRouter wires every route onto a fresh gorilla/mux router.
func NewRouter(h *message.Handler, opts Options) *mux.Router {
	r := mux.NewRouter()
	setupRoutes(r, h, opts)
	return r
}

func setupRoutes(r *mux.Router, h *message.Handler, opts Options) {
	r.Use(corsMiddleware(opts.AllowedOrigins))
	if opts.Logger != nil {
		r.Use(loggingMiddleware(opts.Logger))
	}

	r.HandleFunc("/health", healthHandler(opts.Version)).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/categories", categoriesHandler).Methods("GET")
	api.HandleFunc("/categories/{category}/units", unitsHandler).Methods("GET")
	api.HandleFunc("/categories/{category}/convert", pairHandler).Methods("GET")
	api.HandleFunc("/convert", typedMessageHandler(h, message.TypeConvertUnits)).Methods("POST", "OPTIONS")
	api.HandleFunc("/detect", typedMessageHandler(h, message.TypeDetectUnits)).Methods("POST", "OPTIONS")
	api.HandleFunc("/messages", messagesHandler(h)).Methods("POST", "OPTIONS")
}

func healthHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "unitconv",
			"version": version,
		})
	}
}

func categoriesHandler(w http.ResponseWriter, r *http.Request) {
	out := make([]categoryInfo, 0)
	for _, c := range units.Categories() {
		out = append(out, categoryInfo{Code: c, BaseUnit: c.BaseUnit(), Units: len(units.UnitCodes(c))})
	}
	writeJSON(w, http.StatusOK, out)
}

func unitsHandler(w http.ResponseWriter, r *http.Request) {
	c, err := units.ParseCategory(mux.Vars(r)["category"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, message.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]unitInfo, 0)
	for _, u := range units.UnitsOf(c) {
		out = append(out, unitInfo{Code: u.Code, Label: u.Label, Name: u.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// pairHandler converts between two units: ?value=5&from=km&to=mi&places=2.
func pairHandler(w http.ResponseWriter, r *http.Request) {
	c, err := units.ParseCategory(mux.Vars(r)["category"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, message.ErrorResponse{Error: err.Error()})
		return
	}
	q := r.URL.Query()
	value, err := strconv.ParseFloat(strings.TrimSpace(q.Get("value")), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, message.ErrorResponse{Error: "invalid value " + strconv.Quote(q.Get("value"))})
		return
	}
	places := units.DefaultDecimalPlaces
	if raw := q.Get("places"); raw != "" {
		places, err = strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, message.ErrorResponse{Error: "invalid places " + strconv.Quote(raw)})
			return
		}
	}
	from, to := q.Get("from"), q.Get("to")
	converted, err := units.Convert(value, from, to, c)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, message.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, pairConversion{
		Value:          converted,
		FormattedValue: units.FormatNumber(converted, places),
		From:           from,
		To:             to,
		Category:       c,
	})
}

// typedMessageHandler serves a request body that is a message without its
// type field.
func typedMessageHandler(h *message.Handler, msgType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req message.Request
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, message.ErrorResponse{Error: "Invalid message: " + err.Error()})
			return
		}
		req.Type = msgType
		resp := h.Dispatch(r.Context(), req)
		status := http.StatusOK
		if _, failed := resp.(message.ErrorResponse); failed {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, resp)
	}
}

// messagesHandler carries the full protocol. Protocol errors are part of the
// response body, so the status is always 200 once the body is read.
func messagesHandler(h *message.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, message.ErrorResponse{Error: "read body: " + err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, h.Handle(r.Context(), raw))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func corsMiddleware(allowed []string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			for _, o := range allowed {
				if origin != "" && (o == "*" || o == origin) {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *log.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
		})
	}
}
