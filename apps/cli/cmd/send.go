package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/abdul-hamid-achik/wireform/packages/body"
	wfhttp "github.com/abdul-hamid-achik/wireform/packages/http"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <url> <descriptor.yaml>",
	Short: "Encode a body descriptor and send it",
	Long: `Encode a YAML body descriptor and send it to a URL. Event stream
responses are printed event by event.

Examples:
  wireform send https://example.com/upload upload.yaml
  wireform send https://example.com/items item.yaml --method PUT
  wireform send https://example.com/chat prompt.yaml -H "Authorization: Bearer x"`,
	Args: cobra.ExactArgs(2),
	RunE: sendCommand,
}

var (
	methodFlag  string
	headerFlags []string
	sendMaxFlag int
)

func init() {
	sendCmd.Flags().StringVarP(&methodFlag, "method", "X", http.MethodPost, "HTTP method")
	sendCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, "Extra request header (\"Name: value\"), repeatable")
	sendCmd.Flags().IntVar(&sendMaxFlag, "max", 0, "Print at most this many events from an event stream response")
	sendCmd.Flags().Int64Var(&seedFlag, "seed", 0, "Seed boundary generation (env: WIREFORM_SEED)")
	sendCmd.Flags().StringVar(&charsetFlag, "charset", "", "Default encoding for text bodies and tagged fields")
	sendCmd.Flags().BoolVar(&fieldContentTypeFlag, "field-content-type", false, "Give multipart text fields a Content-Type with charset")
}

func sendCommand(cmd *cobra.Command, args []string) error {
	target := args[0]
	if err := wfhttp.ValidateURL(target); err != nil {
		return withExitCode(ExitUsageError, err)
	}

	built, err := loadDescriptor(args[1])
	if err != nil {
		return err
	}
	defer built.Close()

	settings := currentEncodeSettings(cmd)

	req := wfhttp.NewRequest(strings.ToUpper(methodFlag), target).SetBody(built.Body)
	if ct := descriptorContentType(built, nil, settings.charset); ct != "" {
		req.SetHeader("Content-Type", ct)
	}
	for _, h := range headerFlags {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return withExitCode(ExitUsageError, fmt.Errorf("invalid header %q, expected \"Name: value\"", h))
		}
		req.SetHeader(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	client := newHTTPClient(settings)

	resp, err := client.DoContext(cmd.Context(), req)
	if err != nil {
		return withExitCode(ExitNetworkError, err)
	}

	statusColor := color.New(color.FgGreen)
	if !resp.IsSuccess() {
		statusColor = color.New(color.FgRed)
	}
	statusColor.Fprintf(cmd.ErrOrStderr(), "%s", resp.Status)
	fmt.Fprintf(cmd.ErrOrStderr(), " (%dms)\n", resp.DurationMs())

	if resp.IsEventStream() {
		printer := &eventPrinter{w: cmd.OutOrStdout()}
		count := 0
		for event, err := range resp.Events() {
			if err != nil {
				return withExitCode(ExitFailure, err)
			}
			if err := printer.print(event); err != nil {
				return err
			}
			count++
			if sendMaxFlag > 0 && count >= sendMaxFlag {
				break
			}
		}
	} else {
		cmd.OutOrStdout().Write(resp.Body)
	}

	if !resp.IsSuccess() {
		return withExitCode(ExitFailure, fmt.Errorf("request failed: %s", resp.Status))
	}
	return nil
}

func newHTTPClient(settings encodeSettings) *wfhttp.Client {
	opts := []wfhttp.ClientOption{
		wfhttp.WithTimeout(cfg.TimeoutDuration()),
		wfhttp.WithFollowRedirects(cfg.GetFollowRedirects()),
		wfhttp.WithMaxRedirects(cfg.MaxRedirects),
		wfhttp.WithValidateSSL(cfg.GetValidateSSL()),
		wfhttp.WithDefaultHeaders(cfg.Headers),
		wfhttp.WithCharset(settings.charset),
		wfhttp.WithLogger(logger),
		wfhttp.WithEncoderFactory(func() *body.Encoder {
			return body.NewEncoder(settings.options()...)
		}),
	}
	if cfg.Proxy != "" {
		opts = append(opts, wfhttp.WithProxy(cfg.Proxy))
	}
	return wfhttp.NewClient(opts...)
}
