package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
)

// InvocationEvent is the direct-invoke payload: {"data": "<text to explain>"}.
type InvocationEvent struct {
	Data string `json:"data"`
}

// UnmarshalJSON accepts any JSON type for data so a malformed event still
// reaches the input gate instead of failing inside the runtime. Strings are
// used as is; null, false, "" and any number equal to zero count as missing;
// anything else is kept as its JSON text.
func (e *InvocationEvent) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		// not an object: no data field
		e.Data = ""
		return nil
	}
	e.Data = dataText(raw["data"])
	return nil
}

func dataText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return ""
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
		return ""
	}
	switch string(v) {
	case "null", "false":
		return ""
	}
	if v[0] == '-' || (v[0] >= '0' && v[0] <= '9') {
		if f, err := strconv.ParseFloat(string(v), 64); err == nil && f == 0 {
			return ""
		}
	}
	return string(v)
}

// Result is what the handler returns for every invocation.
type Result struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin": "*",
	}
}

func textResult(status int, body string) Result {
	return Result{StatusCode: status, Headers: corsHeaders(), Body: body}
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func providerErrResult(err error) Result {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// two plain strings always encode
	_ = enc.Encode(errorBody{Message: "An error occurred", Error: err.Error()})
	return textResult(http.StatusInternalServerError, string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))))
}
