package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sallandpioneers/team-auth/internal/actions"
)

const version = "v1.2.0"

var (
	configPath string
	logFile    string
	verbose    bool
)

func main() {
	publisher := actions.New()

	rootCmd := &cobra.Command{
		Use:   "team-auth",
		Short: "Authorize a user by whitelist or organization team membership",
		Long: `team-auth decides whether a user is authorized to continue a workflow.

A user is authorized when they are in the static whitelist or an active
member of the configured organization team. Inputs are read from the
action environment (INPUT_*), optionally layered over a YAML config file.

Outputs:
- whitelisted:   the user is in the whitelist
- team_member:   the user is an active team member
- authorized:    whitelisted or team_member
- indeterminate: team membership could not be verified

In multi-user mode each output is a comma-separated list aligned with the
usernames.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckCmd(publisher)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (optional)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(checkCmd(publisher))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		publisher.Fail(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("team-auth " + version)
		},
	}
}
