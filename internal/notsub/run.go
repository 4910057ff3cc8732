package notsub

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"restaurant-pos/internal/notsub/adapter/consumer"
	"restaurant-pos/internal/notsub/app/core"
	"restaurant-pos/internal/notsub/app/services"
	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/logger"
)

type params struct {
	configPath string
	cfg        *config.Config
}

// Execute starts notification subscriber
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, close := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer close()

	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_parse_completed").Debug("Received params", "config_path", params.configPath)

	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_validation_completed").Info("Successfully validate params")

	service := services.NewNotificationService(os.Stdout, mylog)
	notsub := consumer.NewNotification(newCtx, context.Background(), params.cfg, service, mylog)

	if err := notsub.Run(); err != nil {
		mylog.Action("notsub_run_failed").Error("Notification subscriber stopped with error", err)
		return err
	}
	return notsub.Stop(context.Background())
}

// parseParams parse params from terminal
func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("notification-subscriber", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")

	if err := fs.Parse(args); err != nil {
		return nil, core.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, core.ErrHelp
	}

	return &params{
		configPath: *configPath,
	}, nil
}

// validateParams validates params
func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	if !cfg.RMQ.Enabled() {
		return core.ErrBrokerDisabled
	}
	params.cfg = cfg
	return nil
}
