// ABOUTME: File commands: ls, upload, download, rm, search
// ABOUTME: Tabular output over the vault client, journaled locally

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/ironclad/vault-console/internal/gateway"
	"github.com/ironclad/vault-console/internal/history"
	"github.com/ironclad/vault-console/internal/vault"
)

func (a *app) cmdList(args []string) error {
	flags := pflag.NewFlagSet("ls", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}

	identity, err := a.requireSession("files")
	if err != nil {
		return err
	}

	files, err := a.vault.ListFiles(context.Background())
	if err != nil {
		if errors.Is(err, gateway.ErrUnexpectedShape) {
			color.Yellow("Warning: %v\n", err)
			return nil
		}
		return err
	}

	printFileTable(files)
	if identity.IsManager() {
		fmt.Printf("%d files (all users)\n", len(files))
	} else {
		fmt.Printf("%d files\n", len(files))
	}
	return nil
}

func (a *app) cmdUpload(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: vault-console upload <path>")
	}
	path := args[0]

	identity, err := a.requireSession("upload")
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	filename := filepath.Base(path)
	saved, err := a.vault.Upload(context.Background(), filename, f)
	if err != nil {
		return err
	}

	a.record(history.ActionUpload, filename, identity.Username)
	if saved.ID != "" {
		color.Green("Uploaded %s (id %s)\n", filename, saved.ID)
	} else {
		color.Green("Uploaded %s\n", filename)
	}
	return nil
}

func (a *app) cmdDownload(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: vault-console download <id> [dest]")
	}
	id := args[0]

	identity, err := a.requireSession("download")
	if err != nil {
		return err
	}

	dest := a.resolveFilename(id)
	if len(args) > 1 {
		dest = args[1]
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	n, err := a.vault.Download(context.Background(), id, out)
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		return err
	}

	a.record(history.ActionDownload, id, identity.Username)
	color.Green("Downloaded %d bytes to %s\n", n, dest)
	return nil
}

func (a *app) cmdDelete(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: vault-console rm <id>")
	}
	id := args[0]

	identity, err := a.requireSession("delete")
	if err != nil {
		return err
	}

	answer, err := promptLine(fmt.Sprintf("Delete file %s? [y/N] ", id))
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Println("Aborted")
		return nil
	}

	if err := a.vault.Delete(context.Background(), id); err != nil {
		return err
	}

	a.record(history.ActionDelete, id, identity.Username)
	color.Green("Deleted %s\n", id)
	return nil
}

func (a *app) cmdSearch(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: vault-console search <query>")
	}
	query := strings.Join(args, " ")

	identity, err := a.requireSession("search")
	if err != nil {
		return err
	}

	files, err := a.vault.SearchFiles(context.Background(), query)
	if err != nil {
		if errors.Is(err, gateway.ErrUnexpectedShape) {
			color.Yellow("Warning: %v\n", err)
			return nil
		}
		return err
	}

	a.record(history.ActionSearch, query, identity.Username)
	printFileTable(files)
	fmt.Printf("%d matches for %q\n", len(files), query)
	return nil
}

// resolveFilename looks up the file's stored name so downloads don't
// land under the raw ID. Best effort: any lookup failure falls back to
// the ID itself.
func (a *app) resolveFilename(id string) string {
	files, err := a.vault.ListFiles(context.Background())
	if err != nil {
		return id
	}
	for _, f := range files {
		if f.ID == id && f.Filename != "" {
			return filepath.Base(f.Filename)
		}
	}
	return id
}

func printFileTable(files []vault.File) {
	if len(files) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILENAME\tUPLOADED BY\tUPLOAD TIME")
	for _, f := range files {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.ID, f.Filename, f.UploadedBy, f.UploadTime)
	}
	w.Flush()
}
