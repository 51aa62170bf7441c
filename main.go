package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toydbclient/internal/config"
	"toydbclient/internal/eventbus"
	"toydbclient/internal/logging"
	"toydbclient/internal/logic"
	"toydbclient/internal/query"
	"toydbclient/internal/transport"
	"toydbclient/internal/ui"
)

var (
	configPath string
	endpoint   string
	timeout    time.Duration
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "toydbclient",
	Short: "Terminal client for a ToyDB server",
	Long: `Type a query, press ctrl+s and read the server's answer.

The query text is sent as-is in the body of a POST to the configured
endpoint and the reply is shown without modification.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runTUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file (default: "+config.DefaultPath()+")")
	flags.StringVarP(&endpoint, "endpoint", "e", "", "Server endpoint, overrides config and "+config.EnvEndpoint)
	flags.DurationVar(&timeout, "timeout", 0, "Per-query timeout, overrides config")
	flags.BoolVar(&debug, "debug", false, "Log at debug level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves configuration: file, then environment, then flags
func loadConfig(bus eventbus.EventBus) (*config.Config, config.ConfigService, error) {
	var svc config.ConfigService
	if bus != nil {
		svc = config.NewConfigServiceWithBus(configPath, bus)
	} else {
		svc = config.NewConfigService(configPath)
	}

	cfg, err := svc.Load()
	if err != nil {
		return nil, svc, err
	}
	cfg.ApplyEnv(os.Getenv)
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if timeout > 0 {
		cfg.RequestTimeout = timeout.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, svc, fmt.Errorf("invalid configuration in %s: %w", svc.Path(), err)
	}
	return cfg, svc, nil
}

// setupLogging installs the file logger and returns its cleanup
func setupLogging(cfg *config.Config) func() {
	return logging.Install(logging.New(cfg.LogFile, debug))
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()

	// Subscribed before the config is loaded so the UI sees where it came from
	forwarder := newEventForwarder(ctx, 100)
	bus.Subscribe(eventbus.EventConfigLoaded, forwarder.Forward)
	bus.Subscribe(eventbus.EventResponseReceived, forwarder.Forward)
	bus.Subscribe(eventbus.EventQueryFailed, forwarder.Forward)

	cfg, _, err := loadConfig(bus)
	if err != nil {
		return err
	}
	defer setupLogging(cfg)()

	client, err := transport.NewClient(cfg.Endpoint)
	if err != nil {
		return err
	}
	defer client.Close()

	svc := query.NewService(ctx, bus, client, cfg.Timeout())
	holder := logic.NewResponseHolder(cfg.Placeholder)

	model := ui.NewModel(bus, cfg, holder)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Start forwarding events to UI in background
	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		forwarder.Run(p.Send)
	}()

	zap.S().Infow("starting UI", "endpoint", cfg.Endpoint, "timeout", cfg.Timeout())
	_, runErr := p.Run()
	sigErr := ctx.Err()

	// Abort whatever is still in flight; nobody is left to display it
	cancel()
	svc.Wait()
	<-forwardDone

	if err := programError(runErr, sigErr); err != nil {
		zap.S().Errorw("error running program", "error", runErr)
		return err
	}
	zap.S().Info("UI exited normally")
	return nil
}

// programError decides the exit status of the interactive client.
// sigErr is the signal context's error observed when the program returned;
// a program killed by that signal exits cleanly, any other failure is reported.
func programError(runErr, sigErr error) error {
	if runErr == nil {
		return nil
	}
	if sigErr != nil && errors.Is(runErr, tea.ErrProgramKilled) {
		return nil
	}
	return fmt.Errorf("error running program: %w", runErr)
}
