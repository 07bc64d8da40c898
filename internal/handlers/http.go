package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// HandleHTTP serves the same contract behind an API Gateway HTTP API or a
// function URL. The request body carries {"data": "..."}.
func (h *ExplainHandler) HandleHTTP(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	switch {
	case req.RequestContext.HTTP.Method == http.MethodOptions:
		return preflight(), nil
	case req.RequestContext.HTTP.Method == http.MethodGet && req.RawPath == "/health":
		return h.health(), nil
	}

	res := h.explain(ctx, eventFromBody(req).Data)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: res.StatusCode,
		Headers:    res.Headers,
		Body:       res.Body,
	}, nil
}

func eventFromBody(req events.APIGatewayV2HTTPRequest) InvocationEvent {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return InvocationEvent{}
		}
		body = b
	}

	var ev InvocationEvent
	_ = json.Unmarshal(body, &ev)
	return ev
}

// healthResponse reports liveness (OK is true whenever the function answers)
// and whether the provider key is present.
type healthResponse struct {
	OK               bool   `json:"ok"`
	Service          string `json:"service"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}

// health reports readiness without calling the provider.
func (h *ExplainHandler) health() events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(healthResponse{
		OK:               true,
		Service:          "explain",
		APIKeyConfigured: h.cfg.APIKey != "",
	})
	headers := corsHeaders()
	headers["Content-Type"] = "application/json"
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       string(body),
	}
}

func preflight() events.APIGatewayV2HTTPResponse {
	headers := corsHeaders()
	headers["Access-Control-Allow-Methods"] = "POST, OPTIONS"
	headers["Access-Control-Allow-Headers"] = "Content-Type"
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusNoContent,
		Headers:    headers,
	}
}
