package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: upload <path>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	stored, err := a.files.Upload(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %s (%d bytes), key %s\n", stored.Name, stored.Size, stored.Key)
	return nil
}

func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: download <key> <path>")
	}
	data, err := a.files.Download(ctx, args[0])
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], data, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", len(data), args[1])
	return nil
}
