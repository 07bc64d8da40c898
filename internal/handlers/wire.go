package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"explainer/internal/alerts"
	"explainer/internal/config"
	"explainer/internal/gemini"
	"explainer/internal/transport"
	"explainer/internal/usage"
)

// NewExplainHandlerFromConfig builds the production handler: the Gemini
// client plus usage records and alerts when they are configured.
func NewExplainHandlerFromConfig(cfg config.Config, awsCfg aws.Config, logger *slog.Logger) *ExplainHandler {
	tr := transport.New(&http.Client{Timeout: cfg.HTTPTimeout}, logger)

	opts := []Option{WithLogger(logger)}
	if cfg.UsageTable != "" {
		opts = append(opts, WithUsageRecorder(usage.NewRecorder(dynamodb.NewFromConfig(awsCfg), cfg.UsageTable, cfg.UsageTTL)))
	}
	if cfg.AlertTopicARN != "" {
		opts = append(opts, WithAlerter(alerts.NewNotifier(sns.NewFromConfig(awsCfg), cfg.AlertTopicARN)))
	}

	return NewExplainHandler(cfg, gemini.NewClient(tr), opts...)
}
