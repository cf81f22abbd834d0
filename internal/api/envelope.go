package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoData is returned by Envelope.Decode when the envelope carries no data
var ErrNoData = errors.New("envelope has no data")

// Kind tells how an envelope was produced. It is decided once, when the response is read.
type Kind int

const (
	// KindWrapped is a 2xx response whose body carried its own success flag
	KindWrapped Kind = iota + 1
	// KindRaw is a 2xx response without a success flag, the whole body is the data
	KindRaw
	// KindBackendFailure is a rejected response whose body carried a success flag
	KindBackendFailure
	// KindTransportFailure is a network error or a rejected response without a structured body
	KindTransportFailure
)

// String returns the kind name used in logs
func (k Kind) String() string {
	switch k {
	case KindWrapped:
		return "wrapped"
	case KindRaw:
		return "raw"
	case KindBackendFailure:
		return "backend_failure"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Envelope is the single result shape every API call returns.
//
// StatusCode is zero when unknown. Data holds the raw JSON payload, use Decode to read it.
type Envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode,omitempty"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      any             `json:"error,omitempty"`
	Path       string          `json:"path"`
	Method     string          `json:"method"`
	Kind       Kind            `json:"-"`
}

// HasData reports whether the envelope carries a non-null payload
func (e *Envelope) HasData() bool {
	data := bytes.TrimSpace(e.Data)
	return len(data) > 0 && !bytes.Equal(data, []byte("null"))
}

// Decode unmarshals the envelope data into v
func (e *Envelope) Decode(v any) error {
	if !e.HasData() {
		return ErrNoData
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s %s response data: %w", e.Method, e.Path, err)
	}
	return nil
}

// ErrorMessage returns the message a caller should show for a failed envelope.
//
// It prefers Message and falls back to a textual form of Error.
func (e *Envelope) ErrorMessage() string {
	if e.Message != "" {
		return e.Message
	}
	switch v := e.Error.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.RawMessage:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// MessageOr returns the envelope message, or fallback when the backend sent none
func (e *Envelope) MessageOr(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// backendBody is the optional {success, statusCode, message, data} wrapper a backend may send
type backendBody struct {
	success    json.RawMessage
	statusCode json.RawMessage
	message    json.RawMessage
	data       json.RawMessage
}

// parseBackendBody returns the wrapper fields when body is a JSON object with a "success" key
func parseBackendBody(body []byte) (*backendBody, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}
	success, ok := fields["success"]
	if !ok {
		return nil, false
	}
	return &backendBody{
		success:    success,
		statusCode: fields["statusCode"],
		message:    fields["message"],
		data:       fields["data"],
	}, true
}

// fromResponse builds the envelope for a response the transport accepted (2xx)
func fromResponse(method, path string, body []byte) *Envelope {
	if b, ok := parseBackendBody(body); ok {
		return &Envelope{
			Success:    truthy(b.success),
			StatusCode: jsonInt(b.statusCode),
			Message:    jsonString(b.message),
			Data:       nullToNil(b.data),
			Path:       path,
			Method:     method,
			Kind:       KindWrapped,
		}
	}

	return &Envelope{
		Success: true,
		Data:    rawData(body),
		Path:    path,
		Method:  method,
		Kind:    KindRaw,
	}
}

// fromRejection builds the envelope for a network error or a non-2xx response.
//
// status is zero and body is empty when no response was received.
func fromRejection(method, path string, status int, body []byte, cause error) *Envelope {
	causeText := "request failed"
	if cause != nil {
		causeText = cause.Error()
	}

	if b, ok := parseBackendBody(body); ok {
		env := &Envelope{
			Success:    truthy(b.success),
			StatusCode: jsonInt(b.statusCode),
			Message:    jsonString(b.message),
			Data:       nullToNil(b.data),
			Error:      json.RawMessage(bytes.TrimSpace(body)),
			Path:       path,
			Method:     method,
			Kind:       KindBackendFailure,
		}
		if env.StatusCode == 0 {
			env.StatusCode = status
		}
		if env.Message == "" {
			env.Message = causeText
		}
		return env
	}

	env := &Envelope{
		Success:    false,
		StatusCode: status,
		Message:    causeText,
		Error:      causeText,
		Path:       path,
		Method:     method,
		Kind:       KindTransportFailure,
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return env
	}
	if json.Valid(trimmed) {
		env.Error = json.RawMessage(trimmed)
		if msg := objectMessage(trimmed); msg != "" {
			env.Message = msg
		}
	} else {
		env.Error = string(trimmed)
	}
	return env
}

// rawData turns a response body into envelope data, wrapping non-JSON text as a JSON string
func rawData(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, err := json.Marshal(string(trimmed))
	if err != nil {
		return nil
	}
	return quoted
}

func nullToNil(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return trimmed
}

// truthy follows the loose truthiness backends rely on for the success flag
func truthy(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case nil:
		return false
	default:
		return true
	}
}

// jsonInt reads a number, or a string holding one, and returns 0 for anything else
func jsonInt(raw json.RawMessage) int {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int(n)
}

func jsonString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if t := bytes.TrimSpace(raw); !bytes.Equal(t, []byte("null")) {
		return string(t)
	}
	return ""
}

func objectMessage(body []byte) string {
	var obj struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}
	return jsonString(obj.Message)
}
