package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/wireform/packages/mock"
	"github.com/spf13/cobra"
)

var (
	mockPortFlag  int
	mockDelayFlag string
	mockWatchFlag bool
)

var mockCmd = &cobra.Command{
	Use:   "mock <routes.yaml>...",
	Short: "Start a local server for trying requests",
	Long: `Start an HTTP server whose routes are described in YAML route files.

A route can:
- Describe the body it receives as JSON (inspect: true)
- Replay a text/event-stream file block by block (events: file.txt)
- Answer with a fixed body, with {{param}} path parameters substituted

Examples:
  wireform mock mock.yaml
  wireform mock mock.yaml --port 8080 --delay 100ms
  wireform mock mock.yaml --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: mockCommand,
}

func init() {
	mockCmd.Flags().IntVarP(&mockPortFlag, "port", "p", 3000, "Port to run the mock server on")
	mockCmd.Flags().StringVarP(&mockDelayFlag, "delay", "d", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
	mockCmd.Flags().BoolVarP(&mockWatchFlag, "watch", "w", false, "Reload routes when a route or event file changes")
	rootCmd.AddCommand(mockCmd)
}

func mockCommand(cmd *cobra.Command, args []string) error {
	var delay time.Duration
	if mockDelayFlag != "0" {
		var err error
		delay, err = time.ParseDuration(mockDelayFlag)
		if err != nil {
			return withExitCode(ExitUsageError, fmt.Errorf("invalid delay value %q: %w", mockDelayFlag, err))
		}
	}

	server := mock.NewServer(
		mock.WithPort(mockPortFlag),
		mock.WithDelay(delay),
		mock.WithLogger(logger),
	)

	if err := server.LoadFiles(args); err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("failed to load routes: %w", err))
	}

	routes := server.GetRoutes()
	if len(routes) == 0 {
		return withExitCode(ExitConfigError, fmt.Errorf("no routes found in the provided files"))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d routes, listening on http://localhost:%d\n", len(routes), mockPortFlag)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if mockWatchFlag {
		watcher, err := server.NewRouteWatcher(args)
		if err != nil {
			return withExitCode(ExitConfigError, err)
		}
		out := cmd.OutOrStdout()
		watcher.OnReload = func(err error) {
			if err != nil {
				fmt.Fprintf(out, "Reload failed, keeping previous routes: %v\n", err)
				return
			}
			fmt.Fprintf(out, "Reloaded %d routes\n", len(server.GetRoutes()))
		}
		go watcher.Run(ctx)
		fmt.Fprintf(out, "Watching route files for changes\n")
	}

	return server.StartWithContext(ctx)
}
