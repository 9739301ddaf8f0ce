// ABOUTME: Session commands: login, register, logout, whoami, status
// ABOUTME: Guard-checked entry points over the session controller

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ironclad/vault-console/internal/credential"
	"github.com/ironclad/vault-console/internal/guard"
	"github.com/ironclad/vault-console/internal/session"
)

// requireSession resolves the initial session state and runs the access
// guard for the named view. It returns the identity on Allow and an
// error telling the user to log in on Redirect.
func (a *app) requireSession(view string) (*credential.Identity, error) {
	snap := a.ctrl.Resume()

	decision := guard.Decide(snap, view)
	switch decision.Verdict {
	case guard.VerdictAllow:
		return snap.Identity, nil
	case guard.VerdictRedirect:
		return nil, fmt.Errorf("not logged in - run 'vault-console login' first (then retry %s)", view)
	default:
		return nil, fmt.Errorf("session still resolving, try again")
	}
}

func (a *app) cmdLogin(args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		var err error
		if username, err = promptLine("Username: "); err != nil {
			return err
		}
	}
	if username == "" {
		return fmt.Errorf("username required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	a.ctrl.Resume()
	result := a.ctrl.Login(context.Background(), username, password)
	if !result.Success {
		return fmt.Errorf("%s", result.Message)
	}

	snap := a.ctrl.Snapshot()
	color.Green("Logged in as %s (%s)\n", snap.Identity.Username, snap.Identity.Role)
	return nil
}

func (a *app) cmdRegister(args []string) error {
	flags := pflag.NewFlagSet("register", pflag.ContinueOnError)
	email := flags.String("email", "", "account email address")
	role := flags.String("role", string(credential.RoleUser), "requested role (USER, MANAGER, ADMIN)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 1 {
		return fmt.Errorf("usage: vault-console register <username> [--email addr] [--role ROLE]")
	}
	username := flags.Arg(0)

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	result := a.ctrl.Register(context.Background(), session.Registration{
		Username: username,
		Email:    *email,
		Password: password,
		Role:     *role,
	})
	if !result.Success {
		return fmt.Errorf("%s", result.Message)
	}

	color.Green("Account %s created - log in with 'vault-console login %s'\n", username, username)
	return nil
}

func (a *app) cmdLogout() error {
	a.ctrl.Resume()
	a.ctrl.Logout()
	color.Green("Logged out\n")
	return nil
}

func (a *app) cmdWhoami() error {
	identity, err := a.requireSession("whoami")
	if err != nil {
		return err
	}

	fmt.Printf("Username: %s\n", identity.Username)
	fmt.Printf("Role:     %s\n", identity.Role)
	if identity.Email != "" {
		fmt.Printf("Email:    %s\n", identity.Email)
	}
	if identity.IsAdmin() {
		color.Magenta("Admin access\n")
	} else if identity.IsManager() {
		color.Magenta("Manager access\n")
	}
	return nil
}

func (a *app) cmdStatus() error {
	snap := a.ctrl.Resume()

	fmt.Printf("Service:  %s\n", a.cfg.Server.BaseURL)
	if snap.Identity != nil {
		color.Green("Session:  authenticated as %s (%s)\n", snap.Identity.Username, snap.Identity.Role)
	} else {
		color.Yellow("Session:  anonymous\n")
	}
	if a.hist != nil {
		fmt.Printf("History:  %s\n", a.cfg.History.Path)
	}
	return nil
}

// promptLine reads one trimmed line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a
// terminal, falling back to a plain line read otherwise (pipes, tests).
func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(prompt)
	}

	fmt.Print(prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}
