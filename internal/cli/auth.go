package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/docket/internal/gateway"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// envPassword supplies the password to login without a prompt.
const envPassword = "DOCKET_PASSWORD"

func newLoginCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in to the dashboard API",
		Long: "Log in and keep the session cookie in the config directory. The password\n" +
			"comes from --password, $DOCKET_PASSWORD or a prompt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			r, err := a.openRemote()
			if err != nil {
				return err
			}
			defer r.Detach()

			resp, err := gateway.NewAuthService(r.Client()).Login(cmd.Context(), args[0], pw)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", resp.User.Email, resp.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the API session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRemote()
			if err != nil {
				return err
			}
			defer r.Detach()

			if err := gateway.NewAuthService(r.Client()).Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRemote()
			if err != nil {
				return err
			}
			defer r.Detach()

			h, err := gateway.NewAuthService(r.Client()).Hydrate(cmd.Context())
			if err != nil {
				return fmt.Errorf("checking session: %w", err)
			}
			if h.Unauthorized || h.User == nil {
				return fmt.Errorf("not logged in: %w", types.ErrUnauthorized)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), h.User)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", h.User.Email, h.User.Role)
			return nil
		},
	}
}

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage dashboard users",
	}
	cmd.AddCommand(newUsersCreateCmd(a))
	return cmd
}

func newUsersCreateCmd(a *app) *cobra.Command {
	var password, role string
	cmd := &cobra.Command{
		Use:   "create <email>",
		Short: "Create a user (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := types.CreateUserData{Email: args[0], Password: password, Role: types.Role(role)}
			if err := data.Validate(); err != nil {
				return err
			}
			r, err := a.openRemote()
			if err != nil {
				return err
			}
			defer r.Detach()

			u, err := gateway.NewAuthService(r.Client()).CreateUser(cmd.Context(), data)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), u)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", string(types.RoleUser), "role: user or admin")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// readPassword returns the flag value, the environment value, a hidden
// terminal prompt, or the first line of a piped stdin, in that order.
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(envPassword); env != "" {
		return env, nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password required")
	}
	return line, nil
}
