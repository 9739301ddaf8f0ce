// ABOUTME: Terminal console for the Ironclad encrypted-file-vault service
// ABOUTME: Command dispatch, session wiring, and colored output

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/ironclad/vault-console/internal/config"
	"github.com/ironclad/vault-console/internal/gateway"
	"github.com/ironclad/vault-console/internal/history"
	"github.com/ironclad/vault-console/internal/session"
	"github.com/ironclad/vault-console/internal/vault"
)

const banner = `
 _                      _           _                    _ _
(_)_ __ ___  _ __   ___| | __ _  __| | __   ____ _ _   _| | |_
| | '__/ _ \| '_ \ / __| |/ _' |/ _' | \ \ / / _' | | | | | __|
| | | | (_) | | | | (__| | (_| | (_| |  \ V / (_| | |_| | | |_
|_|_|  \___/|_| |_|\___|_|\__,_|\__,_|   \_/ \__,_|\__,_|_|\__|
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.Logging)

	a, err := newApp(cfg)
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "login":
		err = a.cmdLogin(args)
	case "register":
		err = a.cmdRegister(args)
	case "logout":
		err = a.cmdLogout()
	case "whoami":
		err = a.cmdWhoami()
	case "status":
		err = a.cmdStatus()
	case "ls", "files":
		err = a.cmdList(args)
	case "upload":
		err = a.cmdUpload(args)
	case "download":
		err = a.cmdDownload(args)
	case "rm", "delete":
		err = a.cmdDelete(args)
	case "search":
		err = a.cmdSearch(args)
	case "audit":
		err = a.cmdAudit(args)
	case "history":
		err = a.cmdHistory(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: vault-console <command> [args]")
	fmt.Println()
	yellow.Println("Session:")
	fmt.Println("  login [username]        Log in to the vault service")
	fmt.Println("  register <username>     Create a new account (then log in)")
	fmt.Println("  logout                  End the current session")
	fmt.Println("  whoami                  Show the current identity and role")
	fmt.Println("  status                  Show service address and session state")
	fmt.Println()
	yellow.Println("Files:")
	fmt.Println("  ls                      List vault files")
	fmt.Println("  upload <path>           Upload a file")
	fmt.Println("  download <id> [dest]    Download a file by ID (dest defaults to its stored name)")
	fmt.Println("  rm <id>                 Delete a file by ID")
	fmt.Println("  search <query>          Search files by name")
	fmt.Println()
	yellow.Println("Admin:")
	fmt.Println("  audit                   Show the service audit log (admin only)")
	fmt.Println("  history                 Show operations this console performed")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  VAULT_URL               Vault service base URL (default: http://localhost:8080)")
	fmt.Println("  VAULT_CONSOLE_CONFIG    Config file path (default: ~/.config/vault-console/config.yaml)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  vault-console login alice")
	fmt.Println("  vault-console upload ./report.pdf")
	fmt.Println("  vault-console search quarterly")
	fmt.Println()
}

// app wires the session core to the vault client for command handlers.
type app struct {
	cfg   *config.Config
	ctrl  *session.Controller
	vault *vault.Client
	hist  *history.Store
}

func newApp(cfg *config.Config) (*app, error) {
	store := session.NewStore(cfg.Session.CredentialPath)

	gw, err := gateway.New(cfg.Server.BaseURL, cfg.Server.Timeout, store)
	if err != nil {
		return nil, err
	}

	client := vault.NewClient(gw)
	ctrl := session.NewController(store, client)

	// Single owner of the forced-logout side effect: the controller's
	// logout is idempotent, so concurrent 401s are safe.
	gw.OnSessionExpired(func() {
		ctrl.Logout()
		color.Yellow("Session expired - please run 'vault-console login'\n")
	})

	a := &app{cfg: cfg, ctrl: ctrl, vault: client}

	if cfg.History.Enabled {
		hist, err := history.Open(cfg.History.Path)
		if err != nil {
			// The journal is a convenience; a broken one must not take
			// the console down.
			slog.Warn("opening history journal failed", "error", err)
		} else {
			a.hist = hist
		}
	}
	return a, nil
}

func (a *app) close() {
	if a.hist != nil {
		a.hist.Close()
	}
}

// record appends to the local journal when it is available.
func (a *app) record(action history.Action, target, actor string) {
	if a.hist == nil {
		return
	}
	entry := &history.Entry{Action: action, Target: target, Actor: actor}
	if err := a.hist.Append(context.Background(), entry); err != nil {
		slog.Warn("recording history entry failed", "error", err)
	}
}

func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
