package kitchen

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"restaurant-pos/internal/kitchen/api/http"
	"restaurant-pos/internal/kitchen/app/core"
	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/logger"
)

type params struct {
	kitchenParams *core.KitchenParams
	configPath    string
	cfg           *config.Config
}

// Execute starts kitchen service
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, cancel := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_parse_completed").Debug("Received params", "port", params.kitchenParams.Port, "config_path", params.configPath)

	if err := validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_validation_completed").Info("Successfully validate params")

	server := http.NewServer(newCtx, context.Background(), params.cfg, params.kitchenParams, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("kitchen_service_failed").Error("Server failed unexpectedly", err)
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return nil
	}
}

// parseParams parse params from terminal
func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("kitchen-service", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")
	port := fs.Int("port", 3002, "Port to run the kitchen service")
	pollInterval := fs.Duration("poll-interval", 0, "How often the board re-reads orders (default from config, 10s)")

	if err := fs.Parse(args); err != nil {
		return nil, core.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, core.ErrHelp
	}

	return &params{
		kitchenParams: &core.KitchenParams{
			Port:         *port,
			PollInterval: *pollInterval,
		},
		configPath: *configPath,
	}, nil
}

// validateParams validates params
func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	params.cfg = cfg

	p := params.kitchenParams
	if p.Port <= 0 || p.Port >= 65536 {
		return fmt.Errorf("port must be in [1: 65,535]: %d", p.Port)
	}
	if p.PollInterval == 0 {
		p.PollInterval = cfg.Kitchen.PollInterval
	}
	if p.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive: %s", p.PollInterval)
	}
	return nil
}
