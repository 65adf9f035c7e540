package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sallandpioneers/team-auth/internal/actions"
	"github.com/sallandpioneers/team-auth/internal/authz"
	"github.com/sallandpioneers/team-auth/internal/config"
	"github.com/sallandpioneers/team-auth/internal/providers"
	"github.com/sallandpioneers/team-auth/internal/security"
	"github.com/sallandpioneers/team-auth/internal/telemetry"
)

func checkCmd(publisher *actions.Publisher) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the authorization check (default command)",
		Long: `Run the authorization check and publish its outputs.

Example:
  INPUT_USERNAME=octocat INPUT_ORG=acme INPUT_TEAM=maintainers \
  INPUT_GITHUB_TOKEN=... team-auth check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckCmd(publisher)
		},
	}
}

// checkOptions carries the command line state into a run
type checkOptions struct {
	configPath string
	logFile    string
	verbose    bool
	environ    []string
}

func runCheckCmd(publisher *actions.Publisher) error {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	opts := checkOptions{
		configPath: configPath,
		logFile:    logFile,
		verbose:    verbose,
		environ:    os.Environ(),
	}
	return runCheck(ctx, opts, publisher)
}

func runCheck(ctx context.Context, opts checkOptions, publisher *actions.Publisher) error {
	// Load config
	cfg, err := config.LoadWithEnv(opts.configPath, opts.environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Determine log file path (CLI flag takes precedence over config)
	logFilePath := opts.logFile
	if logFilePath == "" {
		logFilePath = cfg.Log.File
	}

	logger, cleanup, err := setupLogger(logFilePath, opts.verbose || cfg.Log.Debug, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	defer cleanup()

	runID := uuid.NewString()
	logger = logger.With().Str("run_id", runID).Logger()

	tracer, shutdown, err := telemetry.Init(ctx, cfg.Telemetry, runID)
	if err != nil {
		return fmt.Errorf("failed to setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Failed to flush traces")
		}
	}()

	// The lookup is only needed when a team is configured
	var lookup providers.MembershipLookup
	if cfg.TeamCheckEnabled() {
		lookup, err = createProvider(cfg)
		if err != nil {
			return fmt.Errorf("failed to create provider: %w", err)
		}
	}

	settings := authz.Settings{
		Whitelist: security.ParseWhitelist(cfg.Whitelist),
		Org:       cfg.Org,
		Team:      cfg.Team,
	}
	decider := authz.NewDecider(settings, lookup, logger, authz.WithTracer(tracer))

	logger.Info().
		Str("username", cfg.Username).
		Str("org", cfg.Org).
		Str("team", cfg.Team).
		Str("whitelist", settings.Whitelist.String()).
		Bool("multi_user", cfg.MultiUser).
		Msg("Checking authorization")

	var results []authz.Result
	var outputs authz.Outputs
	if cfg.MultiUser {
		results = decider.DecideAll(ctx, authz.SplitSubjects(cfg.Username, cfg.MultiDelimiter))
		outputs = authz.BatchOutputs(results)
	} else {
		result := decider.Decide(ctx, strings.TrimSpace(cfg.Username))
		results = []authz.Result{result}
		outputs = authz.SingleOutputs(result)
	}

	for _, r := range results {
		if r.Indeterminate {
			publisher.Indeterminate(r.Subject, cfg.Org, cfg.Team)
		}
	}

	publisher.SetOutputs(outputs.Map())

	logger.Info().
		Str("whitelisted", outputs.Whitelisted).
		Str("team_member", outputs.TeamMember).
		Str("authorized", outputs.Authorized).
		Str("indeterminate", outputs.Indeterminate).
		Msg("Published outputs")

	return nil
}

func createProvider(cfg *config.Config) (providers.MembershipLookup, error) {
	opts := providers.Options{
		BaseURL: cfg.APIURL,
		Token:   cfg.Token,
		Timeout: cfg.RequestTimeout,
	}

	switch cfg.Provider {
	case config.ProviderGitHub:
		return providers.NewGitHubProvider(opts), nil
	case config.ProviderGitea:
		return providers.NewGiteaProvider(opts), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
