package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/myna/pkg/adapter"
	"github.com/m-mizutani/myna/pkg/model"
	"github.com/m-mizutani/myna/pkg/usecase/assistant"
	"github.com/m-mizutani/myna/pkg/usecase/knowledge"
	"github.com/m-mizutani/myna/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	baseURL     string
	apiKey      string
	assistantID string

	ownerName    string
	businessName string

	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Hosting service base URL",
			Value:       "https://api.myna.dev",
			Sources:     cli.EnvVars("MYNA_BASE_URL"),
			Destination: &cfg.baseURL,
		},
		&cli.StringFlag{
			Name:        "api-key",
			Usage:       "Hosting service API key",
			Sources:     cli.EnvVars("MYNA_API_KEY"),
			Destination: &cfg.apiKey,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "assistant-id",
			Aliases:     []string{"id"},
			Usage:       "Assistant ID to operate on",
			Sources:     cli.EnvVars("MYNA_ASSISTANT_ID"),
			Destination: &cfg.assistantID,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("MYNA_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// ownerFlags returns flags for the settings record pass-through fields
func ownerFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "owner-name",
			Usage:       "Account owner name for the settings record",
			Sources:     cli.EnvVars("MYNA_OWNER_NAME"),
			Destination: &cfg.ownerName,
		},
		&cli.StringFlag{
			Name:        "business-name",
			Usage:       "Business name for the settings record",
			Sources:     cli.EnvVars("MYNA_BUSINESS_NAME"),
			Destination: &cfg.businessName,
		},
	}
}

// setup installs the logger into the context
func (cfg *config) setup(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newSession creates an assistant session for the configured assistant
func (cfg *config) newSession() (*assistant.Session, error) {
	if cfg.baseURL == "" {
		return nil, goerr.New("base-url is required")
	}
	if cfg.apiKey == "" {
		return nil, goerr.New("api-key is required")
	}

	svc := adapter.NewAssistant(cfg.baseURL, cfg.apiKey)
	return assistant.NewSession(svc, model.AssistantID(cfg.assistantID),
		assistant.WithOwner(cfg.ownerName, cfg.businessName),
	), nil
}

// newKnowledge creates a knowledge UseCase, probing upload capability once
func (cfg *config) newKnowledge(ctx context.Context, opts ...knowledge.Option) (*knowledge.UseCase, error) {
	if cfg.baseURL == "" {
		return nil, goerr.New("base-url is required")
	}
	if cfg.apiKey == "" {
		return nil, goerr.New("api-key is required")
	}

	svc := adapter.NewKnowledge(ctx, cfg.baseURL, cfg.apiKey)
	return knowledge.New(svc, model.AssistantID(cfg.assistantID), opts...), nil
}
