package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Environment variable names.
const (
	APIKeyEnv      = "GEMINI_API_KEY"
	APIKeyParamEnv = "GEMINI_API_KEY_PARAM"
	UsageTableEnv  = "EXPLAIN_USAGE_TABLE"
	UsageTTLEnv    = "EXPLAIN_USAGE_TTL_SECONDS"
	AlertTopicEnv  = "EXPLAIN_ALERT_TOPIC_ARN"
	HTTPTimeoutEnv = "EXPLAIN_HTTP_TIMEOUT"
	LogLevelEnv    = "LOG_LEVEL"
)

const defaultUsageTTL = 30 * 24 * time.Hour

// Config is read once per cold start and handed to the handler.
type Config struct {
	APIKey        string
	APIKeyParam   string // SSM parameter consulted when APIKey is empty
	UsageTable    string // empty disables usage records
	UsageTTL      time.Duration
	AlertTopicARN string // empty disables failure alerts
	HTTPTimeout   time.Duration
	LogLevel      string
}

// ParamClient is the subset of the SSM client used to resolve the API key.
type ParamClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// FromEnv builds a Config from the process environment.
func FromEnv() (Config, error) {
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config using getenv for every variable.
// A missing API key is not an error here; the handler reports it per invocation.
func FromLookup(getenv func(string) string) (Config, error) {
	cfg := Config{
		APIKey:        getenv(APIKeyEnv),
		APIKeyParam:   strings.TrimSpace(getenv(APIKeyParamEnv)),
		UsageTable:    strings.TrimSpace(getenv(UsageTableEnv)),
		UsageTTL:      defaultUsageTTL,
		AlertTopicARN: strings.TrimSpace(getenv(AlertTopicEnv)),
		LogLevel:      strings.TrimSpace(getenv(LogLevelEnv)),
	}

	if v := strings.TrimSpace(getenv(UsageTTLEnv)); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("parse %s %q: must be a positive integer", UsageTTLEnv, v)
		}
		cfg.UsageTTL = time.Duration(n) * time.Second
	}

	if v := strings.TrimSpace(getenv(HTTPTimeoutEnv)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s %q: %w", HTTPTimeoutEnv, v, err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("parse %s %q: must not be negative", HTTPTimeoutEnv, v)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}

// ResolveAPIKey fills cfg.APIKey from SSM when it is empty and a parameter
// name is configured. It is a no-op otherwise.
func ResolveAPIKey(ctx context.Context, c ParamClient, cfg *Config) error {
	if cfg.APIKey != "" || cfg.APIKeyParam == "" {
		return nil
	}

	out, err := c.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(cfg.APIKeyParam),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("ssm GetParameter %s: %w", cfg.APIKeyParam, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return fmt.Errorf("ssm parameter %s has no value", cfg.APIKeyParam)
	}

	cfg.APIKey = strings.TrimSpace(aws.ToString(out.Parameter.Value))
	return nil
}
