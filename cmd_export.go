package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kisan_bazaar/storage"
)

var exportOpts struct {
	out    string
	upload bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered view to CSV, optionally uploading it to S3",
	Long: `Writes the listings matching the list filters to a CSV file. With --upload the
file is also published to the bucket configured by S3_BUCKET.

Example:
  kisan export --category vegetables --out out/vegetables.csv --upload`,
	RunE: runExport,
}

func init() {
	addFilterFlags(exportCmd)
	f := exportCmd.Flags()
	f.StringVarP(&exportOpts.out, "out", "o", "out/listings.csv", "CSV output path")
	f.BoolVar(&exportOpts.upload, "upload", false, "Upload the CSV to S3 after writing it")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	a.pipeline.SetCriteria(listCriteria())
	if err := a.pipeline.Refresh(cmd.Context()); err != nil {
		return userError(err)
	}

	n, err := a.export(cmd.Context(), exportOpts.out, exportOpts.upload)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d listings to %s\n", n, exportOpts.out)
	return nil
}

// export writes the current view to path and, when upload is set, publishes it.
func (a *app) export(ctx context.Context, path string, upload bool) (int, error) {
	view := a.pipeline.View()

	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return 0, err
	}
	if err := w.WriteListings(view); err != nil {
		w.Close()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("csv: close: %w", err)
	}
	a.logger.Info("CSV written", zap.String("path", path), zap.Int("listings", len(view)))

	if !upload {
		return len(view), nil
	}
	if !a.cfg.S3.Enabled() {
		return 0, fmt.Errorf("upload requested but S3_BUCKET is not set")
	}

	uploader, err := storage.NewS3Uploader(ctx, a.cfg.S3)
	if err != nil {
		return 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	key := storage.ExportKey(a.cfg.AppID, time.Now(), filepath.Base(path))
	if err := uploader.Upload(ctx, key, f, "text/csv"); err != nil {
		return 0, err
	}
	a.logger.Info("Export uploaded", zap.String("url", uploader.PublicURL(key)))
	return len(view), nil
}
