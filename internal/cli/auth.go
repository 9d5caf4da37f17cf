package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/easelkit/easel/pkg/genimage"
	"github.com/easelkit/easel/pkg/session"
)

// authCommand creates the auth command with subcommands.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage generation-service credentials",
		Long: `Store and inspect the API key used for the generation service.

Without a key, expansions run anonymously and return preview-quality
results. Your key is stored in ~/.config/easel/sessions/ with 0600
permissions.`,
	}

	cmd.AddCommand(c.authLoginCommand())
	cmd.AddCommand(c.authLogoutCommand())
	cmd.AddCommand(c.authStatusCommand())

	return cmd
}

// authLoginCommand creates the login subcommand.
func (c *CLI) authLoginCommand() *cobra.Command {
	var keyFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key for the generation service",
		Long: `Save a generation-service API key.

The key is read from --key, the EASEL_API_KEY environment variable, or
interactively from stdin, in that order. It is verified against the
service before being stored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := session.NewCLIStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			if existing, _ := store.GetSession(ctx); existing != nil {
				printInfo("Already logged in")
				printDetail("Run 'easel auth logout' first to replace the key")
				return nil
			}

			apiKey := keyFlag
			if apiKey == "" {
				apiKey = os.Getenv("EASEL_API_KEY")
			}
			if apiKey == "" {
				printInline("API key: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read key: %w", err)
				}
				apiKey = strings.TrimSpace(line)
				fmt.Println()
			}
			if apiKey == "" {
				return fmt.Errorf("no API key provided")
			}

			verifyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			spinner := newSpinnerWithContext(verifyCtx, "Verifying key...")
			spinner.Start()

			client := genimage.NewClient(c.Config.Service.BaseURL, apiKey)
			if _, err := client.Models(verifyCtx); err != nil {
				spinner.StopWithError("Key rejected by the service")
				return err
			}
			spinner.Stop()

			sess, err := session.New(apiKey, nil, session.DefaultTTL)
			if err != nil {
				return fmt.Errorf("create session: %w", err)
			}
			if err := store.SaveSession(ctx, sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			printSuccess("Logged in")
			printDetail("Key stored at %s", store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&keyFlag, "key", "", "API key (prefer EASEL_API_KEY or interactive entry)")
	return cmd
}

// authLogoutCommand creates the logout subcommand.
func (c *CLI) authLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewCLIStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			if err := store.DeleteSession(cmd.Context()); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

// authStatusCommand creates the status subcommand.
func (c *CLI) authStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current credential status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := session.NewCLIStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}

			sess, err := store.GetSession(ctx)
			if err != nil {
				return fmt.Errorf("get session: %w", err)
			}
			if sess == nil {
				printInfo("Not logged in (expansions run anonymously)")
				printNextStep("Log in", "easel auth login")
				return nil
			}

			printSuccess("Logged in")
			printKeyValue("Key", maskKey(sess.APIKey))
			printKeyValue("Since", sess.CreatedAt.Format("Jan 2, 2006"))
			printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006"))
			return nil
		},
	}
}

// maskKey hides all but the last four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
