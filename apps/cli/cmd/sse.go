package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/wireform/packages/sse"
	"github.com/spf13/cobra"
)

var sseCmd = &cobra.Command{
	Use:   "sse [file|-]",
	Short: "Interpret a text/event-stream",
	Long: `Read an event stream from a file, stdin or a URL and print each
dispatched event.

Examples:
  wireform sse capture.txt
  curl -sN https://example.com/events | wireform sse -
  wireform sse --url https://example.com/events --max 10
  wireform sse capture.txt --path choices.0.delta.content`,
	Args: cobra.MaximumNArgs(1),
	RunE: sseCommand,
}

var (
	sseURLFlag         string
	ssePathFlag        string
	sseMaxFlag         int
	sseJSONFlag        bool
	sseLastEventIDFlag string
)

func init() {
	sseCmd.Flags().StringVar(&sseURLFlag, "url", "", "Connect to an SSE endpoint instead of reading a file")
	sseCmd.Flags().StringVar(&ssePathFlag, "path", "", "gjson path applied to JSON event data")
	sseCmd.Flags().IntVar(&sseMaxFlag, "max", 0, "Stop after this many events (0 = no limit)")
	sseCmd.Flags().BoolVar(&sseJSONFlag, "json", false, "Print events as JSON lines")
	sseCmd.Flags().StringVar(&sseLastEventIDFlag, "last-event-id", "", "Last-Event-ID to resume from (with --url)")
}

func sseCommand(cmd *cobra.Command, args []string) error {
	printer := &eventPrinter{w: cmd.OutOrStdout(), path: ssePathFlag, jsonMode: sseJSONFlag}

	if sseURLFlag != "" {
		if len(args) > 0 {
			return withExitCode(ExitUsageError, fmt.Errorf("pass either a file or --url, not both"))
		}
		return streamURL(cmd, printer)
	}

	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return withExitCode(ExitUsageError, err)
		}
		defer f.Close()
		r = f
	}

	return printEvents(r, printer, sseMaxFlag)
}

func printEvents(r io.Reader, printer *eventPrinter, max int) error {
	count := 0
	for event, err := range sse.ParseReader(r) {
		if err != nil {
			return withExitCode(ExitFailure, err)
		}
		if err := printer.print(event); err != nil {
			return err
		}
		count++
		if max > 0 && count >= max {
			break
		}
	}
	logger.Debug("event stream finished", "events", count)
	return nil
}

func streamURL(cmd *cobra.Command, printer *eventPrinter) error {
	client := sse.NewClient(sseURLFlag,
		sse.WithHeaders(cfg.Headers),
		sse.WithLastEventID(sseLastEventIDFlag),
		sse.WithTimeout(cfg.TimeoutDuration()),
		sse.WithLogger(logger),
	)

	count := 0
	var printErr error
	err := client.StreamWithHandler(cmd.Context(), func(event sse.Event) bool {
		if printErr = printer.print(event); printErr != nil {
			return false
		}
		count++
		return sseMaxFlag <= 0 || count < sseMaxFlag
	})
	if printErr != nil {
		return printErr
	}
	if err != nil {
		return withExitCode(ExitNetworkError, err)
	}

	if id := client.LastEventID(); id != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "last-event-id: %s\n", id)
	}
	return nil
}
