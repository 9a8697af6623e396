package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/wireform/packages/bodyspec"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <descriptor|directory>...",
	Short: "Validate body descriptors",
	Long: `Validate body descriptors against the schema and check that the
files they reference exist, without encoding anything.

Examples:
  wireform validate upload.yaml
  wireform validate ./bodies/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectDescriptors(args)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no .yaml or .yml descriptors found"))
	}

	hasErrors := false
	for _, file := range files {
		if err := validateDescriptor(file); err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return withExitCode(ExitDescriptorError, fmt.Errorf("validation failed"))
	}

	return nil
}

func validateDescriptor(path string) error {
	built, err := loadDescriptor(path)
	if err != nil {
		return err
	}
	return built.Close()
}

// collectDescriptors expands directories into the descriptor files they
// contain. Explicit file arguments are kept whatever their extension.
func collectDescriptors(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			ext := strings.ToLower(filepath.Ext(path))
			if !d.IsDir() && (ext == ".yaml" || ext == ".yml") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
