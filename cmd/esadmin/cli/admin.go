package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/eventsathi/esadmin/internal/model"
	"github.com/eventsathi/esadmin/internal/store"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage sub-admin accounts",
		Long: `Create, list, and remove sub-admin accounts directly against the
store, without going through the HTTP API. Useful for initial setup and
for recovery when no admin can log in.`,
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminListCmd())
	cmd.AddCommand(newAdminRemoveCmd())

	return cmd
}

func newAdminCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <email>",
		Short: "Create a sub-admin account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]
			if !model.ValidateSubAdminEmail(email) {
				return fmt.Errorf("email must be in format eventsathi{number}@.com")
			}

			password, err := promptPassword()
			if err != nil {
				return err
			}
			if ok, reason := model.ValidateSubAdminPassword(password); !ok {
				return errors.New(reason)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			admin := &model.AdminUser{
				Email:        email,
				PasswordHash: string(hash),
				AdminType:    model.AdminSub,
				IsActive:     true,
			}
			ctx, cancel := cliContext()
			defer cancel()
			if err := st.CreateAdmin(ctx, admin); err != nil {
				if errors.Is(err, store.ErrConflict) {
					return fmt.Errorf("sub-admin %s already exists", email)
				}
				return err
			}

			fmt.Printf("Sub-admin %s created (id %d)\n", admin.Email, admin.ID)
			return nil
		},
	}
}

func newAdminListCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sub-admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := cliContext()
			defer cancel()
			admins, err := st.ListSubAdmins(ctx)
			if err != nil {
				return err
			}

			if jsonOut {
				out, err := json.MarshalIndent(admins, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			if len(admins) == 0 {
				fmt.Println("No sub-admins.")
				return nil
			}

			fmt.Printf("%-6s %-30s %-8s %s\n", "ID", "EMAIL", "ACTIVE", "CREATED")
			for _, a := range admins {
				fmt.Printf("%-6d %-30s %-8t %s\n",
					a.ID, a.Email, a.IsActive, a.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")

	return cmd
}

func newAdminRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <email>",
		Short: "Remove a sub-admin account and revoke its sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := cliContext()
			defer cancel()
			if err := st.RemoveSubAdmin(ctx, args[0]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("sub-admin %s not found", args[0])
				}
				return err
			}

			fmt.Printf("Sub-admin %s removed\n", args[0])
			return nil
		},
	}
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password confirmation: %w", err)
	}

	if string(pw) != string(confirm) {
		return "", errors.New("passwords do not match")
	}
	return string(pw), nil
}

// openStore opens the store using the same configuration resolution as serve.
func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	storeCfg := store.Config{
		Driver:  cfg.Store.Driver,
		DSN:     cfg.Store.DSN,
		DataDir: cfg.Store.DataDir,
	}
	if dataDir != "" {
		storeCfg.DataDir = dataDir
	}
	return store.Open(storeCfg)
}

func cliContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
