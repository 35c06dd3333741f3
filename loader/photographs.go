package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/poiesic/apollo/ai"
	"github.com/poiesic/apollo/core"
	"github.com/poiesic/apollo/storage"
)

const photographBatchSize = 100

// PhotographLoader loads mission photograph metadata. Each row is
// [timestamp, name, image path, external url, description]; the image
// path column is ignored and rederived from the timestamp so the stored
// path always points into the configured images directory.
type PhotographLoader struct {
	photographs storage.PhotographRepository
	images      ai.ImageEmbedder
	imagesDir   string
	overwrite   bool
	logger      *slog.Logger
}

// PhotographLoaderOption configures a PhotographLoader.
type PhotographLoaderOption func(*PhotographLoader)

// WithImageEmbedder enables image vector generation from the photograph
// files on disk. Without it photographs are searchable by description only.
func WithImageEmbedder(images ai.ImageEmbedder) PhotographLoaderOption {
	return func(l *PhotographLoader) {
		l.images = images
	}
}

// WithOverwrite reloads photographs that already exist in the store.
func WithOverwrite(overwrite bool) PhotographLoaderOption {
	return func(l *PhotographLoader) {
		l.overwrite = overwrite
	}
}

// NewPhotographLoader creates a PhotographLoader reading image files
// from imagesDir.
func NewPhotographLoader(photographs storage.PhotographRepository, imagesDir string, opts ...PhotographLoaderOption) *PhotographLoader {
	l := &PhotographLoader{
		photographs: photographs,
		imagesDir:   imagesDir,
		logger:      slog.Default().With("component", "photograph-loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type photographRow struct {
	timestamp   string
	name        string
	imagePath   string
	externalURL string
	description string
}

func photographSchema() Schema[photographRow] {
	return Schema[photographRow]{
		{Name: "timestamp", Set: func(r *photographRow, v string) error { r.timestamp = v; return nil }},
		{Name: "name", Set: func(r *photographRow, v string) error { r.name = v; return nil }},
		{Name: "imagePath", Set: func(r *photographRow, v string) error { r.imagePath = v; return nil }},
		{Name: "externalUrl", Set: func(r *photographRow, v string) error { r.externalURL = v; return nil }},
		{Name: "description", Set: func(r *photographRow, v string) error { r.description = v; return nil }},
	}
}

// Load reads the photograph row file and stores photographs in batches,
// skipping ones already present unless overwrite is enabled. When a batch
// save fails, each photograph in the batch is retried individually so one
// bad record doesn't sink its neighbors. Returns the number stored.
func (l *PhotographLoader) Load(ctx context.Context, path string) (int, error) {
	l.logger.Info("loading photograph data", "path", path)

	rows, err := ReadRowFile(path)
	if err != nil {
		return 0, err
	}

	decoded, dropped := DecodeRows(rows, photographSchema(), l.logger)
	if dropped > 0 {
		l.logger.Warn("dropped malformed photograph rows", "count", dropped)
	}

	var photographs []*core.Photograph
	for _, row := range decoded {
		p, err := l.rowToPhotograph(ctx, row)
		if err != nil {
			l.logger.Warn("skipping invalid photograph", "timestamp", row.timestamp, "err", err)
			continue
		}
		if p == nil {
			continue
		}
		photographs = append(photographs, p)
	}

	stored := 0
	for start := 0; start < len(photographs); start += photographBatchSize {
		end := min(start+photographBatchSize, len(photographs))
		batch := photographs[start:end]

		if err := l.photographs.SavePhotographs(ctx, batch...); err != nil {
			l.logger.Error("photograph batch save failed, retrying individually", "err", err)
			for _, p := range batch {
				if err := l.photographs.SavePhotographs(ctx, p); err != nil {
					l.logger.Error("failed to save photograph", "timestamp", p.Timestamp, "err", err)
					continue
				}
				stored++
			}
			continue
		}
		stored += len(batch)
	}

	l.logger.Info("photograph data loaded", "stored", stored)
	return stored, nil
}

// rowToPhotograph builds a photograph record, or returns (nil, nil) when
// the record already exists and overwrite is off.
func (l *PhotographLoader) rowToPhotograph(ctx context.Context, row *photographRow) (*core.Photograph, error) {
	seconds, err := strconv.Atoi(row.timestamp)
	if err != nil {
		return nil, fmt.Errorf("parsing photograph timestamp %q: %w", row.timestamp, err)
	}

	if !l.overwrite {
		exists, err := l.photographs.Exists(ctx, row.timestamp)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, nil
		}
	}

	p := &core.Photograph{
		Timestamp:   row.timestamp,
		Name:        row.name,
		ExternalURL: row.externalURL,
		Description: row.description,
		ImagePath:   filepath.Join(l.imagesDir, strconv.Itoa(seconds)+".jpg"),
	}

	if l.images != nil {
		if vector, err := l.embedImageFile(ctx, p.ImagePath); err != nil {
			l.logger.Warn("image embedding failed, storing without image vector", "path", p.ImagePath, "err", err)
		} else {
			p.ImageVector = vector
		}
	}
	return p, nil
}

func (l *PhotographLoader) embedImageFile(ctx context.Context, path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image file: %w", err)
	}
	return l.images.EmbedImage(ctx, data)
}
