package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"explainer/internal/config"
	"explainer/internal/handlers"
	"explainer/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	if err := config.ResolveAPIKey(ctx, ssm.NewFromConfig(awsCfg), &cfg); err != nil {
		// gate 1 reports the missing key on each invocation
		logger.Error("resolve api key", "error", err)
	}

	h := handlers.NewExplainHandlerFromConfig(cfg, awsCfg, logger)
	lambda.Start(h.Handle)
}
