// ABOUTME: Admin commands: service audit log and the local history journal
// ABOUTME: Audit view is role-gated for visibility; the server still authorizes

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/ironclad/vault-console/internal/gateway"
)

func (a *app) cmdAudit(args []string) error {
	flags := pflag.NewFlagSet("audit", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}

	identity, err := a.requireSession("audit-logs")
	if err != nil {
		return err
	}

	// Visibility gate only. A non-admin who bypasses it just gets the
	// server's authorization error instead.
	if !identity.IsAdmin() {
		return fmt.Errorf("audit logs are admin-only")
	}

	entries, err := a.vault.AuditLogs(context.Background())
	if err != nil {
		if errors.Is(err, gateway.ErrUnexpectedShape) {
			color.Yellow("Warning: %v\n", err)
			return nil
		}
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No audit entries")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tUSER\tACTION\tRESOURCE\tSTATUS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp, e.Username, e.Action, orPlaceholder(e.Resource), orPlaceholder(e.Status))
	}
	w.Flush()
	fmt.Printf("%d audit entries\n", len(entries))
	return nil
}

func (a *app) cmdHistory(args []string) error {
	flags := pflag.NewFlagSet("history", pflag.ContinueOnError)
	limit := flags.Int("limit", 50, "maximum entries to show")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if _, err := a.requireSession("history"); err != nil {
		return err
	}
	if a.hist == nil {
		return fmt.Errorf("history journal is disabled in config")
	}

	entries, err := a.hist.List(context.Background(), *limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No recorded operations")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTOR\tACTION\tTARGET")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.RFC3339), e.Actor, e.Action, e.Target)
	}
	w.Flush()
	return nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
