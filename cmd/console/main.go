// Package main provides the operator console for the settings service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pesio-ai/be-plt-settings/internal/client"
	"github.com/pesio-ai/be-plt-settings/internal/console"
	"github.com/pesio-ai/be-plt-settings/internal/platform/config"
	"github.com/pesio-ai/be-plt-settings/internal/platform/logger"
)

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred cleanup, the NATS drain in
// particular, happens before the process exits.
func run() int {
	env, err := config.LoadConsole()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := console.ParseConfig(flag.CommandLine, os.Args[1:], *env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	log := logger.New(logger.Config{
		Level:       env.LogLevel,
		Environment: "development",
		Output:      os.Stderr,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := client.Connect(env.NATSURL, "be-plt-settings-console")
	if err != nil {
		log.Warn().Err(err).Msg("Notifications will only be shown locally")
	}
	publisher := client.NewNotificationPublisher(conn, env.NATSTopic, log.Component("notifications").Logger)
	defer publisher.Close()

	runner := &console.Runner{
		API:      client.NewSettingsClient(env.APIURL, env.Timeout, cfg.ActorID),
		Notifier: client.Notifiers{client.NewLogNotifier(log.Logger), publisher},
		Out:      os.Stdout,
		Log:      log,
	}
	if err := runner.Run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
