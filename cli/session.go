package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jrsteele09/sop-console/apiclient"
	"github.com/jrsteele09/sop-console/credentials"
	"github.com/jrsteele09/sop-console/internal/config"
	"github.com/jrsteele09/sop-console/users"
	"github.com/spf13/cobra"
)

const passwordEnvVar = "CONSOLE_PASSWORD"

// newClient opens the credentials file and builds a session client on it.
func newClient(cfg config.Config) (*apiclient.Client, *credentials.FileStore, error) {
	store, err := credentials.NewFileStore(cfg.GetCredentialsFile(), cfg.GetCredentialsPassphrase())
	if err != nil {
		return nil, nil, err
	}
	policy, err := apiclient.LoadPolicy(cfg.GetPolicyFile())
	if err != nil {
		return nil, nil, err
	}
	return apiclient.New(apiclient.ConfigFrom(cfg, cfg), store, apiclient.WithPolicy(policy)), store, nil
}

func newLoginCommand(cfg config.Config) *cobra.Command {
	var user, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user == "" {
				return fmt.Errorf("--user is required")
			}
			if password == "" {
				password = os.Getenv(passwordEnvVar)
			}
			if password == "" {
				var err error
				if password, err = readPassword(cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
					return err
				}
			}

			client, store, err := newClient(cfg)
			if err != nil {
				return err
			}
			session, err := client.Login(cmd.Context(), user, password)
			if err != nil {
				if msg := apiclient.MessageOf(err); msg != "" {
					return fmt.Errorf("login failed: %s", msg)
				}
				return fmt.Errorf("login failed: %w", err)
			}
			cmd.Printf("Signed in as %s\n", users.FromProfile(session.Profile).DisplayName())
			cmd.Printf("Credentials saved to %s\n", store.Path())
			return nil
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "Employee code or email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password. Can also be set via "+passwordEnvVar+"; read from stdin otherwise.")
	return cmd
}

func newLogoutCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}
			client.Logout(cmd.Context())
			cmd.Println("Signed out")
			return nil
		},
	}
}

func newWhoamiCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who the stored session belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}
			session, err := client.Session(cmd.Context())
			if err != nil {
				return err
			}
			if session.Empty() {
				return fmt.Errorf("not signed in")
			}
			me, err := client.Me(cmd.Context())
			if err != nil {
				if apiclient.IsSessionEnded(err) {
					return fmt.Errorf("session ended, sign in again")
				}
				return err
			}
			cmd.Printf("%s (%s)\n", users.FromProfile(me.Profile).DisplayName(), me.Profile.EmployeeCode)
			if me.Profile.Email != "" {
				cmd.Printf("Email: %s\n", me.Profile.Email)
			}
			cmd.Printf("Roles: %s\n", strings.Join(me.Roles, ", "))
			return nil
		},
	}
}

func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprint(prompt, "Password: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
