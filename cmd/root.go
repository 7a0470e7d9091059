package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docyard",
	Short: "document lifecycle and archival engine",
	Example: `docyard register -d runbook-oncall -t "On-call runbook" -f 14
docyard get -d runbook-oncall
docyard due
docyard review -d runbook-oncall -r alice -V 0
docyard score -d runbook-oncall
docyard archive -d runbook-oncall -r "superseded" -b alice -R runbook-v2 -V 1
docyard restore -d runbook-oncall -V 2`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
