package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/safe"
	"golang.org/x/sync/errgroup"
)

const gcsScheme = "gs://"

// DefaultConcurrency bounds parallel uploads in ExportAll
const DefaultConcurrency = 4

// Writer stores rendered reports on the local filesystem or in Cloud Storage
type Writer struct {
	storage     *storage.Client
	ownsStorage bool
	concurrency int
}

// WriterOption configures a Writer
type WriterOption func(*Writer)

// WithStorageClient sets the Cloud Storage client used for gs:// destinations.
// Without it a client is created from application default credentials on
// first use.
func WithStorageClient(client *storage.Client) WriterOption {
	return func(w *Writer) {
		w.storage = client
	}
}

// WithConcurrency bounds how many reports ExportAll writes at once
func WithConcurrency(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// NewWriter creates a report Writer
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Close releases the storage client when the Writer created it
func (w *Writer) Close() error {
	if w.storage == nil || !w.ownsStorage {
		return nil
	}
	if err := w.storage.Close(); err != nil {
		return goerr.Wrap(err, "failed to close storage client")
	}
	return nil
}

// ParseGCSURL splits gs://bucket/path/to/object into bucket and object
func ParseGCSURL(dest string) (string, string, error) {
	if !strings.HasPrefix(dest, gcsScheme) {
		return "", "", goerr.New("not a gs:// URL", goerr.V("dest", dest))
	}
	bucket, object, ok := strings.Cut(strings.TrimPrefix(dest, gcsScheme), "/")
	if !ok || bucket == "" || object == "" {
		return "", "", goerr.New("gs:// URL needs a bucket and an object name", goerr.V("dest", dest))
	}
	return bucket, object, nil
}

// Write stores data at dest, a local path or a gs:// URL
func (w *Writer) Write(ctx context.Context, dest string, data []byte) error {
	if strings.HasPrefix(dest, gcsScheme) {
		return w.writeGCS(ctx, dest, data)
	}

	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return goerr.Wrap(err, "failed to create report directory", goerr.V("dir", dir))
		}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write report", goerr.V("path", dest))
	}
	logging.From(ctx).Info("report written", "path", dest, "bytes", len(data))
	return nil
}

func (w *Writer) writeGCS(ctx context.Context, dest string, data []byte) error {
	bucket, object, err := ParseGCSURL(dest)
	if err != nil {
		return err
	}

	if w.storage == nil {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to create storage client")
		}
		w.storage = client
		w.ownsStorage = true
	}

	obj := w.storage.Bucket(bucket).Object(object).NewWriter(ctx)
	obj.ContentType = contentType(object)
	if _, err := obj.Write(data); err != nil {
		safe.Close(ctx, "gcs object writer", obj)
		return goerr.Wrap(err, "failed to upload report", goerr.V("bucket", bucket), goerr.V("object", object))
	}
	if err := obj.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize report upload", goerr.V("bucket", bucket), goerr.V("object", object))
	}

	logging.From(ctx).Info("report uploaded", "bucket", bucket, "object", object, "bytes", len(data))
	return nil
}

func contentType(name string) string {
	switch FormatFromPath(name) {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Job is one report to render and store
type Job struct {
	Document *Document
	Dest     string
	Format   Format
}

// ExportAll renders and writes jobs in parallel. The first failure cancels
// the remaining jobs.
func (w *Writer) ExportAll(ctx context.Context, jobs []Job) error {
	if w.storage == nil {
		for _, job := range jobs {
			if strings.HasPrefix(job.Dest, gcsScheme) {
				client, err := storage.NewClient(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to create storage client")
				}
				w.storage = client
				w.ownsStorage = true
				break
			}
		}
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.concurrency)
	for _, job := range jobs {
		eg.Go(func() error {
			format := job.Format
			if format == "" {
				format = FormatFromPath(job.Dest)
			}
			data, err := Render(job.Document, format)
			if err != nil {
				return goerr.Wrap(err, "failed to render report", goerr.V("dest", job.Dest))
			}
			return w.Write(ctx, job.Dest, data)
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	return nil
}
