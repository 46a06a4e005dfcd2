// Package archive downloads and extracts the study dataset zip from its
// public archive.
package archive

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/errors"
	"github.com/ng-daniel/depresjon-go/internal/logging"
)

const (
	// maxArchiveSize caps the downloaded zip, the published archive is ~250 MB
	maxArchiveSize = 1 << 30 // 1 GiB
	// maxFileSize caps one extracted file
	maxFileSize = 256 << 20 // 256 MiB

	downloadTimeout = 30 * time.Minute
)

// Fetcher downloads the study archive and extracts the dataset files.
type Fetcher struct {
	URL    string // archive URL
	Dir    string // destination dataset directory
	Client *http.Client

	log *slog.Logger
}

// NewFetcher builds a fetcher from the configured dataset settings.
func NewFetcher(settings *conf.DatasetSettings) *Fetcher {
	return &Fetcher{
		URL:    settings.ArchiveURL,
		Dir:    settings.Dir,
		Client: &http.Client{Timeout: downloadTimeout},
		log:    logging.ForService("archive"),
	}
}

// Fetch downloads the archive to a temporary file and extracts the dataset
// files into the destination directory. It returns the number of extracted
// files.
func (f *Fetcher) Fetch(ctx context.Context) (int, error) {
	zipPath, err := f.download(ctx)
	if err != nil {
		return 0, err
	}
	defer os.Remove(zipPath)

	count, err := f.extract(zipPath)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// download retrieves the archive into a temporary file and logs its checksum.
func (f *Fetcher) download(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, http.NoBody)
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryNetwork).
			Component("archive").
			Context("url", f.URL).
			Build()
	}

	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryNetwork).
			Component("archive").
			Context("url", f.URL).
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("archive download failed with status %s", resp.Status).
			Category(errors.CategoryArchive).
			Component("archive").
			Context("url", f.URL).
			Build()
	}

	tempFile, err := os.CreateTemp("", "depresjon-*.zip")
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryFileIO).
			Component("archive").
			Context("operation", "create-temp-file").
			Build()
	}

	hash := sha256.New()
	written, err := io.Copy(tempFile, io.TeeReader(io.LimitReader(resp.Body, maxArchiveSize+1), hash))
	closeErr := tempFile.Close()
	if err != nil || closeErr != nil {
		os.Remove(tempFile.Name())
		return "", errors.New(fmt.Errorf("writing archive: %w", errors.Join(err, closeErr))).
			Category(errors.CategoryFileIO).
			Component("archive").
			Build()
	}
	if written > maxArchiveSize {
		os.Remove(tempFile.Name())
		return "", errors.Newf("archive exceeds size limit of %d bytes", maxArchiveSize).
			Category(errors.CategoryArchive).
			Component("archive").
			Build()
	}

	if f.log != nil {
		f.log.Info("Archive downloaded",
			"url", f.URL,
			"bytes", written,
			"sha256", hex.EncodeToString(hash.Sum(nil)),
			"duration", time.Since(start).Round(time.Millisecond).String())
	}

	return tempFile.Name(), nil
}

// extract writes the dataset files from the zip into the destination
// directory, flattening any top-level folder the archive wraps them in.
func (f *Fetcher) extract(zipPath string) (int, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, errors.New(err).
			Category(errors.CategoryArchive).
			Component("archive").
			FileContext(zipPath, 0).
			Build()
	}
	defer reader.Close()

	count := 0
	for _, file := range reader.File {
		relPath, ok := datasetPath(file.Name)
		if !ok {
			continue
		}

		if err := f.extractFile(file, relPath); err != nil {
			return count, err
		}
		count++
	}

	if count == 0 {
		return 0, errors.Newf("archive contains no dataset files").
			Category(errors.CategoryArchive).
			Component("archive").
			Build()
	}

	return count, nil
}

// datasetPath maps a zip entry name to its dataset-relative path, or false
// for entries that are not part of the dataset (directories, OS metadata,
// unrelated files).
func datasetPath(name string) (string, bool) {
	name = strings.ReplaceAll(name, `\`, "/")
	if strings.HasSuffix(name, "/") || strings.Contains(name, "__MACOSX") {
		return "", false
	}

	// The published zip wraps everything in a top-level "data/" folder
	parts := strings.Split(name, "/")
	for len(parts) > 0 {
		switch {
		case parts[0] == "scores.csv" && len(parts) == 1:
			return "scores.csv", true
		case (parts[0] == "condition" || parts[0] == "control") && len(parts) == 2 && strings.HasSuffix(parts[1], ".csv"):
			return filepath.Join(parts[0], parts[1]), true
		default:
			parts = parts[1:]
		}
	}

	return "", false
}

// extractFile writes one zip entry to its destination, refusing paths that
// escape the dataset directory.
func (f *Fetcher) extractFile(file *zip.File, relPath string) error {
	destPath := filepath.Join(f.Dir, relPath)

	// Guard against zip-slip even though datasetPath only produces known shapes
	if !strings.HasPrefix(destPath, filepath.Clean(f.Dir)+string(os.PathSeparator)) {
		return errors.Newf("archive entry %q escapes the dataset directory", file.Name).
			Category(errors.CategoryArchive).
			Component("archive").
			Build()
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Component("archive").
			FileContext(destPath, 0).
			Build()
	}

	src, err := file.Open()
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryArchive).
			Component("archive").
			Context("entry", file.Name).
			Build()
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Component("archive").
			FileContext(destPath, 0).
			Build()
	}

	written, err := io.Copy(dest, io.LimitReader(src, maxFileSize+1))
	closeErr := dest.Close()
	if err != nil || closeErr != nil {
		return errors.New(fmt.Errorf("extracting %s: %w", file.Name, errors.Join(err, closeErr))).
			Category(errors.CategoryArchive).
			Component("archive").
			Build()
	}
	if written > maxFileSize {
		return errors.Newf("archive entry %q exceeds size limit", file.Name).
			Category(errors.CategoryArchive).
			Component("archive").
			Build()
	}

	return nil
}
