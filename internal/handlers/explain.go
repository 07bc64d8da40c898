package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"explainer/internal/alerts"
	"explainer/internal/config"
	"explainer/internal/transport"
	"explainer/internal/usage"
)

// Fixed bodies for the two gates that reject before the provider is called.
const (
	MissingKeyMessage  = "Missing " + config.APIKeyEnv + " in environment variables"
	MissingTextMessage = "Missing text to explain"
)

// ErrorKind classifies why an invocation did not return 200.
type ErrorKind string

const (
	KindNone                 ErrorKind = ""
	KindConfigurationMissing ErrorKind = "ConfigurationMissing"
	KindInputMissing         ErrorKind = "InputMissing"
	KindProviderError        ErrorKind = "ProviderError"
)

// Explainer turns text into an explanation using the provider.
type Explainer interface {
	Explain(ctx context.Context, apiKey, text string) (string, error)
}

type UsageRecorder interface {
	Record(ctx context.Context, inv usage.Invocation) error
}

type Alerter interface {
	Notify(ctx context.Context, a alerts.Alert) error
}

type ExplainHandler struct {
	cfg      config.Config
	provider Explainer
	usage    UsageRecorder
	alerts   Alerter
	log      *slog.Logger
	now      func() time.Time
}

type Option func(*ExplainHandler)

func WithUsageRecorder(r UsageRecorder) Option {
	return func(h *ExplainHandler) { h.usage = r }
}

func WithAlerter(a Alerter) Option {
	return func(h *ExplainHandler) { h.alerts = a }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *ExplainHandler) { h.log = l }
}

func withClock(now func() time.Time) Option {
	return func(h *ExplainHandler) { h.now = now }
}

// NewExplainHandler returns a handler bound to cfg. Usage recording and
// alerting are off unless the matching options are given.
func NewExplainHandler(cfg config.Config, provider Explainer, opts ...Option) *ExplainHandler {
	h := &ExplainHandler{
		cfg:      cfg,
		provider: provider,
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Handle serves a direct invocation. The returned error is always nil;
// failures are reported in the Result.
func (h *ExplainHandler) Handle(ctx context.Context, ev InvocationEvent) (Result, error) {
	return h.explain(ctx, ev.Data), nil
}

type outcome struct {
	result Result
	kind   ErrorKind
	err    error
	answer int
}

func (h *ExplainHandler) explain(ctx context.Context, text string) Result {
	start := h.now()
	reqID := requestID(ctx)
	log := h.log.With("request_id", reqID)
	log.Info("explain: event received", "text_length", len(text))

	out := h.run(ctx, log, text)

	h.record(ctx, log, usage.Invocation{
		RequestID:    reqID,
		StatusCode:   out.result.StatusCode,
		ErrorKind:    string(out.kind),
		InputLength:  len(text),
		AnswerLength: out.answer,
		Latency:      h.now().Sub(start),
		At:           start,
	})
	if out.kind == KindProviderError {
		h.alert(ctx, log, reqID, out.err)
	}
	return out.result
}

func (h *ExplainHandler) run(ctx context.Context, log *slog.Logger, text string) outcome {
	if h.cfg.APIKey == "" {
		log.Error("explain: " + MissingKeyMessage)
		return outcome{result: textResult(http.StatusInternalServerError, MissingKeyMessage), kind: KindConfigurationMissing}
	}

	if text == "" {
		log.Warn("explain: " + MissingTextMessage)
		return outcome{result: textResult(http.StatusBadRequest, MissingTextMessage), kind: KindInputMissing}
	}

	log.Info("explain: sending request to provider")
	answer, err := h.provider.Explain(ctx, h.cfg.APIKey, text)
	if err != nil {
		log.Error("explain: provider call failed", "error", err)
		return outcome{result: providerErrResult(err), kind: KindProviderError, err: err}
	}

	log.Info("explain: answer received", "answer_length", len(answer))
	return outcome{result: textResult(http.StatusOK, answer), kind: KindNone, answer: len(answer)}
}

func (h *ExplainHandler) record(ctx context.Context, log *slog.Logger, inv usage.Invocation) {
	if h.usage == nil {
		return
	}
	if err := h.usage.Record(ctx, inv); err != nil {
		log.Warn("explain: usage record failed", "error", err)
	}
}

func (h *ExplainHandler) alert(ctx context.Context, log *slog.Logger, reqID string, err error) {
	if h.alerts == nil {
		return
	}
	a := alerts.Alert{RequestID: reqID, Error: err.Error()}
	var se *transport.StatusError
	if errors.As(err, &se) {
		a.StatusCode = se.StatusCode
	}
	if perr := h.alerts.Notify(ctx, a); perr != nil {
		log.Warn("explain: alert publish failed", "error", perr)
	}
}

func requestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}
