package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eventsathi/esadmin/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage esadmin configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default esadmin.yaml to the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "esadmin.yaml"
			if cfgFile != "" {
				path = cfgFile
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			if err := config.WriteDefaultConfig(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			fmt.Printf("Wrote %s\n", path)
			fmt.Println("Set EVENTSATHI_BOOTSTRAP_EMAIL and EVENTSATHI_BOOTSTRAP_PASSWORD before starting the server.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// The bootstrap password never leaves the process, even masked
			// output invites copy-paste into tickets.
			if cfg.Bootstrap.Password != "" {
				cfg.Bootstrap.Password = "<redacted>"
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Set a runtime setting in the store",
		Long: `Set a runtime setting persisted in the store. Currently used for
telemetry.enabled, e.g.:

  esadmin config set telemetry.enabled false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := cliContext()
			defer cancel()
			if err := st.SetSetting(ctx, args[0], args[1]); err != nil {
				return err
			}

			fmt.Printf("%s = %s\n", args[0], args[1])
			return nil
		},
	}
}
