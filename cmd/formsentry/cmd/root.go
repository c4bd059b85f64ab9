package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formsentry",
	Short: "FormSentry detects automated HTML form submissions",
	Long: `Anti-automation checks for HTML forms: a honeypot field, a
minimum-elapsed-time check, and a rotating hidden field name.
The server subcommand runs a demo form protected by all three.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
