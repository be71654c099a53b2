package models

import (
	"errors"

	"github.com/tidwall/gjson"
)

// Date type tags sent by the analytics backend in computed.date_type
const (
	DateTypeSingle = "single"
	DateTypeRange  = "range"
)

// OperationNone is the op value meaning no secondary operation was requested
const OperationNone = "none"

// ErrMalformedPayload is returned when the body is not a JSON object
var ErrMalformedPayload = errors.New("payload is not a JSON object")

// AnalyticsPayload is the analytics answer returned by the backend for one question.
// Every field is optional; a nil pointer or empty string means "absent".
type AnalyticsPayload struct {
	Computed      *Computed `json:"computed,omitempty"`
	Debug         *Debug    `json:"debug,omitempty"`
	Response      string    `json:"response,omitempty"`
	LLMResponse   string    `json:"llm_response,omitempty"`
	Error         string    `json:"error,omitempty"`
	ExecutionTime string    `json:"execution_time,omitempty"`
}

// Computed holds the pre-aggregated figures for the queried period.
// Quantities are expressed in tonnes.
type Computed struct {
	Sum                  *float64            `json:"sum,omitempty"`
	Mean                 *float64            `json:"mean,omitempty"`
	Min                  *float64            `json:"min,omitempty"`
	Max                  *float64            `json:"max,omitempty"`
	Count                *int                `json:"count,omitempty"`
	DateType             string              `json:"date_type,omitempty"`
	DailyBreakdown       []DailyStat         `json:"daily_breakdown,omitempty"`
	OperationRequested   *OperationRequested `json:"operation_requested,omitempty"`
	OperationResult      *float64            `json:"operation_result,omitempty"`
	OperationExplanation string              `json:"operation_explanation,omitempty"`
}

// DailyStat is one entry of the daily breakdown, in the order it appeared in the document
type DailyStat struct {
	Key     string   `json:"key"`
	Total   *float64 `json:"total,omitempty"`
	Entries *int     `json:"entries,omitempty"`
}

// OperationRequested describes the secondary arithmetic operation asked for, if any
type OperationRequested struct {
	Op string `json:"op"`
}

// Debug echoes the parameters the backend extracted from the question
type Debug struct {
	ParsedStart    string `json:"parsed_start,omitempty"`
	ParsedEnd      string `json:"parsed_end,omitempty"`
	DetectedFamily string `json:"detected_family,omitempty"`
}

// Narrative returns the natural-language answer, preferring response over llm_response
func (p *AnalyticsPayload) Narrative() string {
	if p == nil {
		return ""
	}
	if p.Response != "" {
		return p.Response
	}
	return p.LLMResponse
}

// ParsePayload decodes a backend body leniently. Only a body that is not a JSON
// object is rejected; fields with an unexpected type are treated as absent.
func ParsePayload(raw []byte) (*AnalyticsPayload, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrMalformedPayload
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, ErrMalformedPayload
	}

	payload := &AnalyticsPayload{
		Response:      optString(root.Get("response")),
		LLMResponse:   optString(root.Get("llm_response")),
		Error:         optString(root.Get("error")),
		ExecutionTime: optString(root.Get("execution_time")),
	}
	if payload.ExecutionTime == "" {
		payload.ExecutionTime = optString(root.Get("executionTime"))
	}

	if computed := root.Get("computed"); computed.IsObject() {
		payload.Computed = parseComputed(computed)
	}

	if debug := root.Get("debug"); debug.IsObject() {
		payload.Debug = &Debug{
			ParsedStart:    optString(debug.Get("parsed_start")),
			ParsedEnd:      optString(debug.Get("parsed_end")),
			DetectedFamily: optString(debug.Get("detected_family")),
		}
	}

	return payload, nil
}

func parseComputed(c gjson.Result) *Computed {
	computed := &Computed{
		Sum:                  optFloat(c.Get("sum")),
		Mean:                 optFloat(c.Get("mean")),
		Min:                  optFloat(c.Get("min")),
		Max:                  optFloat(c.Get("max")),
		Count:                optInt(c.Get("count")),
		DateType:             optString(c.Get("date_type")),
		OperationResult:      optFloat(c.Get("operation_result")),
		OperationExplanation: optString(c.Get("operation_explanation")),
	}

	if op := c.Get("operation_requested"); op.IsObject() {
		computed.OperationRequested = &OperationRequested{Op: optString(op.Get("op"))}
	}

	// ForEach walks keys in document order, which the date sort relies on for ties
	if daily := c.Get("daily_breakdown"); daily.IsObject() {
		daily.ForEach(func(key, value gjson.Result) bool {
			computed.DailyBreakdown = append(computed.DailyBreakdown, DailyStat{
				Key:     key.String(),
				Total:   optFloat(value.Get("total")),
				Entries: optInt(value.Get("entries")),
			})
			return true
		})
	}

	return computed
}

func optFloat(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	return &v
}

func optInt(r gjson.Result) *int {
	if r.Type != gjson.Number {
		return nil
	}
	v := int(r.Int())
	return &v
}

func optString(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}
