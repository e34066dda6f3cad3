package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sagarc03/galleria"
	"github.com/sagarc03/galleria/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a session token for scripted clients",
	Long: `Prompt for the gallery username and password and print a session
token. Send it as the session cookie value to call the gallery from
scripts. The token expires after auth.cookie_timeout seconds.

When stdin is not a terminal, username and password are read as the
first two lines of input:

  printf 'admin\nsecret\n' | galleria token`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	if err = cfg.Auth.Validate(); err != nil {
		return err
	}

	var cred galleria.Credentials
	if term.IsTerminal(int(os.Stdin.Fd())) {
		cred, err = promptCredentials()
	} else {
		cred, err = readCredentials(cmd.InOrStdin())
	}
	if err != nil {
		return handlePromptError(err)
	}

	if !cred.Equal(cfg.Auth.Credentials()) {
		return errors.New("invalid credentials")
	}

	codec := galleria.NewSessionCodec(cfg.Auth.SecretKey, cfg.Auth.Salt, cfg.Auth.CookieTTL())
	token, err := codec.Issue(cred)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}

func promptCredentials() (galleria.Credentials, error) {
	usernamePrompt := promptui.Prompt{
		Label: "Username",
		Validate: func(input string) error {
			if input == "" {
				return errors.New("username is required")
			}
			return nil
		},
	}
	username, err := usernamePrompt.Run()
	if err != nil {
		return galleria.Credentials{}, err
	}

	passwordPrompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
	}
	password, err := passwordPrompt.Run()
	if err != nil {
		return galleria.Credentials{}, err
	}

	return galleria.Credentials{Username: username, Password: password}, nil
}

// readCredentials reads a username line and a password line.
func readCredentials(r io.Reader) (galleria.Credentials, error) {
	sc := bufio.NewScanner(r)

	var lines []string
	for len(lines) < 2 && sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return galleria.Credentials{}, fmt.Errorf("read credentials: %w", err)
	}
	if len(lines) < 2 {
		return galleria.Credentials{}, errors.New("read credentials: expected username and password lines")
	}

	return galleria.Credentials{Username: lines[0], Password: lines[1]}, nil
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
		return errors.New("cancelled")
	}
	return err
}
