// Package message implements the JSON request/response protocol shared by
// the stdio bridge and the HTTP API.
package message

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/saadjs/unitconv/internal/detect"
	"github.com/saadjs/unitconv/internal/model"
	"github.com/saadjs/unitconv/internal/service"
	"github.com/saadjs/unitconv/internal/units"
)

const (
	TypeConvertUnits   = "CONVERT_UNITS"
	TypeDetectUnits    = "DETECT_UNITS"
	TypeGetPreferences = "GET_PREFERENCES"
	TypeSetPreferences = "SET_PREFERENCES"

	legacyConvertAction = "convert"
)

type Request struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`

	Value    *float64 `json:"value,omitempty"`
	UnitCode string   `json:"unitCode,omitempty"`
	// UnitType is the older name of UnitCode.
	UnitType string `json:"unitType,omitempty"`
	Category string `json:"category,omitempty"`

	Text      string `json:"text,omitempty"`
	Selection bool   `json:"selection,omitempty"`

	Preferences *model.Preferences `json:"preferences,omitempty"`
}

type ConvertResponse struct {
	Conversions []units.ConversionResult `json:"conversions"`
}

type DetectResponse struct {
	Detections  []detect.Detection       `json:"detections"`
	Conversions []units.ConversionResult `json:"conversions,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Store is where preferences live between messages.
type Store interface {
	Preferences() (model.Preferences, error)
	SavePreferences(model.Preferences) error
}

// Recorder is implemented by stores that keep a conversion history.
type Recorder interface {
	Record(input string, value float64, unitCode string, c units.Category) error
}

type Handler struct {
	store Store
}

// NewHandler returns a Handler backed by store. A nil store serves the
// default preferences and rejects SET_PREFERENCES.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Handle decodes one raw message and returns the response value to encode.
func (h *Handler) Handle(ctx context.Context, raw []byte) any {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return ErrorResponse{Error: "Invalid message: " + err.Error()}
	}
	return h.Dispatch(ctx, req)
}

func (h *Handler) Dispatch(ctx context.Context, req Request) any {
	if err := ctx.Err(); err != nil {
		return ErrorResponse{Error: err.Error()}
	}
	switch req.Type {
	case TypeConvertUnits:
		return h.convert(req)
	case TypeDetectUnits:
		return h.detect(req)
	case TypeGetPreferences:
		p, err := h.preferences()
		if err != nil {
			return ErrorResponse{Error: "Failed to load preferences: " + err.Error()}
		}
		return p
	case TypeSetPreferences:
		return h.setPreferences(req)
	}
	if req.Action == legacyConvertAction {
		return SuccessResponse{Success: true}
	}
	return ErrorResponse{Error: "Unknown message type"}
}

func (h *Handler) convert(req Request) any {
	if req.Value == nil {
		return conversionFailed(fmt.Errorf("value is required"))
	}
	code := strings.TrimSpace(req.UnitCode)
	if code == "" {
		code = strings.TrimSpace(req.UnitType)
	}
	c, err := units.ParseCategory(req.Category)
	if err != nil {
		return conversionFailed(err)
	}
	p, err := h.preferences()
	if err != nil {
		return conversionFailed(err)
	}
	out, err := service.Present(p, *req.Value, code, c)
	if err != nil {
		return conversionFailed(err)
	}
	return ConvertResponse{Conversions: out}
}

func (h *Handler) detect(req Request) any {
	resp := DetectResponse{Detections: []detect.Detection{}}
	if req.Selection && service.SelectionTooLong(req.Text) {
		return resp
	}
	resp.Detections = detect.Detect(req.Text)
	if len(resp.Detections) == 0 {
		return resp
	}
	first := resp.Detections[0]
	p, err := h.preferences()
	if err != nil {
		return conversionFailed(err)
	}
	out, err := service.Present(p, first.Value, first.UnitCode, first.Category)
	if err != nil {
		return conversionFailed(err)
	}
	resp.Conversions = out
	if rec, ok := h.store.(Recorder); ok {
		if err := rec.Record(first.FullMatch, first.Value, first.UnitCode, first.Category); err != nil {
			return ErrorResponse{Error: "Failed to record history: " + err.Error()}
		}
	}
	return resp
}

func (h *Handler) setPreferences(req Request) any {
	if req.Preferences == nil {
		return ErrorResponse{Error: "preferences are required"}
	}
	if h.store == nil {
		return ErrorResponse{Error: "preferences cannot be saved without a store"}
	}
	if err := h.store.SavePreferences(service.FillDefaults(*req.Preferences)); err != nil {
		return ErrorResponse{Error: "Failed to save preferences: " + err.Error()}
	}
	return SuccessResponse{Success: true}
}

func (h *Handler) preferences() (model.Preferences, error) {
	if h.store == nil {
		return service.DefaultPreferences(), nil
	}
	return h.store.Preferences()
}

func conversionFailed(err error) ErrorResponse {
	return ErrorResponse{Error: "Conversion failed: " + err.Error()}
}
