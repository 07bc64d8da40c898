package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvocationEvent_Unmarshal(t *testing.T) {
	cases := map[string]string{
		`{"data":"hello"}`:         "hello",
		`{"data":"  spaced  "}`:    "  spaced  ",
		`{"data":""}`:              "",
		`{"data":null}`:            "",
		`{}`:                       "",
		`{"data":false}`:           "",
		`{"data":0}`:               "",
		`{"data":0.0}`:             "",
		`{"data":-0}`:              "",
		`{"data":0e0}`:             "",
		`{"data":-0.0E+5}`:         "",
		`{"data":0.5}`:             "0.5",
		`{"data":-3}`:              "-3",
		`{"data":42}`:              "42",
		`{"data":true}`:            "true",
		`{"data":["a"]}`:           `["a"]`,
		`{"other":"x","data":"y"}`: "y",
		`"just a string"`:          "",
		`null`:                     "",
	}
	for raw, want := range cases {
		var ev InvocationEvent
		require.NoError(t, json.Unmarshal([]byte(raw), &ev), raw)
		assert.Equal(t, want, ev.Data, raw)
	}
}

func TestResult_JSONShape(t *testing.T) {
	b, err := json.Marshal(textResult(400, MissingTextMessage))
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode":400,"headers":{"Access-Control-Allow-Origin":"*"},"body":"Missing text to explain"}`, string(b))
}
