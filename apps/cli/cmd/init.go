package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/wireform/packages/bodyspec"
	"github.com/abdul-hamid-achik/wireform/packages/core/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new wireform project",
	Long: `Initialize a new wireform project.

This creates:
  - .wireform.config.json - Configuration file
  - upload.yaml           - Example multipart body descriptor
  - notes.txt             - File streamed by the example
  - mock.yaml             - Route file for "wireform mock"
  - events.txt            - Event stream replayed by the mock

Examples:
  wireform init
  wireform init ./playground --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

const exampleNotes = "Quarterly numbers attached.\n"

const exampleRoutes = `routes:
  - name: upload
    path: /upload
    inspect: true
  - name: events
    method: GET
    path: /events
    events: events.txt
    interval: 250ms
`

const exampleEvents = `retry: 3000

id: 1
data: {"status": "queued"}

id: 2
event: progress
data: {"status": "running", "percent": 50}

id: 3
data: {"status": "done"}

`

func initCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return withExitCode(ExitUsageError, err)
	}

	descriptor, err := yaml.Marshal(exampleDescriptor())
	if err != nil {
		return err
	}

	files := []struct {
		name    string
		content []byte
	}{
		{"upload.yaml", descriptor},
		{"notes.txt", []byte(exampleNotes)},
		{"mock.yaml", []byte(exampleRoutes)},
		{"events.txt", []byte(exampleEvents)},
	}
	configFile := filepath.Join(dir, config.ConfigFilenames[0])

	if !forceInit {
		paths := []string{configFile}
		for _, f := range files {
			paths = append(paths, filepath.Join(dir, f.name))
		}
		for _, p := range paths {
			if _, err := os.Stat(p); err == nil {
				return withExitCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", p))
			}
		}
	}

	if err := config.DefaultConfig().SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.content, 0644); err != nil {
			return fmt.Errorf("failed to create %s: %w", f.name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", path)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintln(cmd.OutOrStdout(), "  wireform encode upload.yaml --seed 1")
	fmt.Fprintln(cmd.OutOrStdout(), "  wireform mock mock.yaml --port 3000")
	fmt.Fprintln(cmd.OutOrStdout(), "  wireform send http://localhost:3000/upload upload.yaml")
	fmt.Fprintln(cmd.OutOrStdout(), "  wireform sse --url http://localhost:3000/events")

	return nil
}

func exampleDescriptor() *bodyspec.Document {
	title := "Quarterly report"
	greeting := "Hello from wireform"
	return &bodyspec.Document{
		Kind: "form",
		Parts: []bodyspec.Part{
			{Name: "title", Value: &title},
			{Name: "notes", File: &bodyspec.File{
				Filename:    "notes.txt",
				ContentType: "text/plain",
				Path:        "notes.txt",
			}},
			{Name: "attachments", Files: []bodyspec.File{
				{Filename: "hello.txt", ContentType: "text/plain", Text: &greeting},
				{Filename: "pixel.gif", ContentType: "image/gif", Base64: strPtr("R0lGODlhAQABAAAAACw=")},
			}},
		},
	}
}

func strPtr(s string) *string {
	return &s
}
