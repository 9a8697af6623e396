package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/wireform/packages/import/curl"
	"github.com/spf13/cobra"
)

var (
	importOutputFlag    string
	importNoRequestLine bool
)

var importCmd = &cobra.Command{
	Use:   "import <format> <source>",
	Short: "Convert requests from other tools into body descriptors",
	Long: `Convert requests from other tools into wireform body descriptors.

Supported formats:
  curl - curl command lines (-F, -d, --data-urlencode, --form-string)

Examples:
  wireform import curl 'curl -F title=Q -F "doc=@report.pdf;type=application/pdf" https://example.com/upload'
  wireform import curl commands.sh -o descriptors/`,
}

var importCurlCmd = &cobra.Command{
	Use:   "curl <command-or-file>",
	Short: "Convert curl commands",
	Long: `Convert a curl command, or a file of curl commands, into body
descriptors. A single command is printed to stdout unless -o names a file.
A file of commands writes one <name>.yaml per command into the -o directory.`,
	Args: cobra.ExactArgs(1),
	RunE: importCurlCommand,
}

func init() {
	importCmd.PersistentFlags().StringVarP(&importOutputFlag, "output", "o", "", "Output file or directory")
	importCmd.PersistentFlags().BoolVar(&importNoRequestLine, "no-request-line", false, "Omit the method, URL and header comments")

	importCmd.AddCommand(importCurlCmd)
	rootCmd.AddCommand(importCmd)
}

func importCurlCommand(cmd *cobra.Command, args []string) error {
	converter := curl.NewConverter(curl.WithRequestLine(!importNoRequestLine))
	source := args[0]

	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		convs, err := converter.ConvertFile(source)
		if err != nil {
			return withExitCode(ExitDescriptorError, err)
		}
		dir := importOutputFlag
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return withExitCode(ExitUsageError, err)
		}
		for _, conv := range convs {
			out, err := converter.YAML(conv)
			if err != nil {
				return err
			}
			path := filepath.Join(dir, conv.Name+".yaml")
			if err := os.WriteFile(path, out, 0644); err != nil {
				return withExitCode(ExitUsageError, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
		}
		return nil
	}

	conv, err := converter.ConvertCommand(source)
	if err != nil {
		return withExitCode(ExitDescriptorError, err)
	}
	out, err := converter.YAML(conv)
	if err != nil {
		return err
	}

	if importOutputFlag == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(importOutputFlag, out, 0644); err != nil {
		return withExitCode(ExitUsageError, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", importOutputFlag)
	return nil
}
