package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/wireform/packages/bodyspec"
	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Print the body descriptor JSON schema",
	Long: `Print the JSON schema that body descriptors are validated against.
Editors with YAML language support can use it for completion.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), string(bodyspec.Schema()))
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
