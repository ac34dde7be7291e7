package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"signin-portal/internal/client"
	"signin-portal/internal/signin"
)

var (
	signInServer   string
	signInEmail    string
	signInPassword string
	signInTimeout  time.Duration
)

var signInCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with email and password",
	Long: `Sign in against a running portal through POST /api/auth/signin.

The password is read from --password, or from PORTAL_PASSWORD when the
flag is empty. Input is validated locally with the same rules as the web
form before any request is sent.

Examples:
  portalctl signin --email ada@example.com --password correct-horse
  PORTAL_PASSWORD=correct-horse portalctl signin --server https://portal.example.com --email ada@example.com`,
	Args: cobra.NoArgs,
	RunE: runSignIn,
}

func runSignIn(cmd *cobra.Command, _ []string) error {
	password := signInPassword
	if password == "" {
		password = os.Getenv("PORTAL_PASSWORD")
	}

	out := cmd.OutOrStdout()
	orch := signin.NewOrchestrator(
		client.New(signInServer, signInTimeout),
		consoleNotifier{w: out, email: signInEmail},
		nil,
	)
	ctrl := signin.NewController(signin.NewSchema(), orch,
		signin.WithObserver(func(s signin.Snapshot) {
			if s.State.Submitting() {
				fmt.Fprintln(out, "Signing in...")
			}
		}),
	)

	err := ctrl.Submit(cmd.Context(), signin.CredentialInput{Email: signInEmail, Password: password})
	if errors.Is(err, signin.ErrInvalidInput) {
		snap := ctrl.Snapshot()
		for _, f := range signin.Fields {
			if msg := snap.FieldError(f); msg != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", f, msg)
			}
		}
	}
	return err
}

type consoleNotifier struct {
	w     io.Writer
	email string
}

func (n consoleNotifier) SuccessSignIn() {
	fmt.Fprintf(n.w, "Signed in as %s.\n", n.email)
}

func (n consoleNotifier) ErrorSignIn(message string) {
	fmt.Fprintf(n.w, "Sign in failed: %s\n", message)
}

func init() {
	rootCmd.AddCommand(signInCmd)

	signInCmd.Flags().StringVarP(&signInServer, "server", "s", "http://localhost:8080", "Portal base URL")
	signInCmd.Flags().StringVarP(&signInEmail, "email", "e", "", "Account email")
	signInCmd.Flags().StringVarP(&signInPassword, "password", "p", "", "Account password (or PORTAL_PASSWORD)")
	signInCmd.Flags().DurationVar(&signInTimeout, "timeout", 10*time.Second, "Request timeout")
}
