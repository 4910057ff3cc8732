package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"restaurant-pos/internal/admin"
	"restaurant-pos/internal/kitchen"
	"restaurant-pos/internal/notsub"
	"restaurant-pos/internal/ordering"
	xerrors "restaurant-pos/internal/xpkg/errors"
	"restaurant-pos/internal/xpkg/logger"
)

type service struct {
	name    string
	execute func(ctx context.Context, mylog logger.Logger, args []string) error
}

var services = map[string]service{
	"admin-service":           {"admin-service", admin.Execute},
	"as":                      {"admin-service", admin.Execute},
	"ordering-service":        {"ordering-service", ordering.Execute},
	"os":                      {"ordering-service", ordering.Execute},
	"kitchen-service":         {"kitchen-service", kitchen.Execute},
	"ks":                      {"kitchen-service", kitchen.Execute},
	"notification-subscriber": {"notification-subscriber", notsub.Execute},
	"ns":                      {"notification-subscriber", notsub.Execute},
}

func main() {
	mylogger, err := logger.New(os.Getenv("POS_LOG_LEVEL"))
	if err != nil {
		log.Fatalf("log error: %v", err)
	}

	mylogger.Action("restaurant_pos_started").Info("Successfully started")
	// Global flags for selecting the service mode
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	mode := fs.String("mode", "", "service to run: admin-service | ordering-service | kitchen-service | notification-subscriber")

	// Only parse the first few args for `--mode`, the rest go to the service
	args := os.Args[1:]
	modeArgs := []string{}
	for i, arg := range args {
		if strings.HasPrefix(arg, "--mode") || strings.HasPrefix(arg, "-mode") {
			modeArgs = args[:i+1]
			if !strings.Contains(arg, "=") && i+1 < len(args) {
				modeArgs = args[:i+2]
			}
			break
		}
	}
	if err := fs.Parse(modeArgs); err != nil {
		mylogger.Action("restaurant_pos_failed").Error("Failed to parse flags", err)
		help(fs)
		return
	}

	if *mode == "" {
		mylogger.Action("restaurant_pos_failed").Error("Failed to start restaurant pos", xerrors.ErrModeFlag)
		help(fs)
		return
	}

	svc, ok := services[*mode]
	if !ok {
		mylogger.Action("restaurant_pos_failed").Error("Failed to start restaurant pos", xerrors.ErrUnknownService)
		help(fs)
		return
	}

	// Remaining args after parsing --mode
	remainingArgs := args[len(modeArgs):]
	action := strings.ReplaceAll(svc.name, "-", "_")

	l := mylogger.With("service", svc.name)
	l.Action(action + "_started").Info("Successfully started")
	if err := svc.execute(context.Background(), l, remainingArgs); err != nil {
		if errors.Is(err, xerrors.ErrHelp) {
			return
		}
		l.Action(action+"_failed").Error("Error in "+svc.name, err)
		log.Fatalf("failed to execute %s: %s", svc.name, err)
	}
	l.Action(action + "_completed").Info("Successfully completed")
}

func help(fs *flag.FlagSet) {
	fmt.Println("\nUsage:")
	fs.PrintDefaults()
	fmt.Println("\nExample:")
	fmt.Println("  ./restaurant-pos --mode=ordering-service --port=3000 --table=4 --guests=2")
	fmt.Println("  ./restaurant-pos --mode=kitchen-service --poll-interval=10s")
}
