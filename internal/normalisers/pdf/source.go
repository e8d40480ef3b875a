// Package pdf provides a DocumentSource that extracts page text from PDF files.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"

	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Extension is the only file extension accepted, compared case-insensitively.
const Extension = ".pdf"

// LoaderFunc extracts one document per page from PDF bytes.
type LoaderFunc func(ctx context.Context, r io.ReaderAt, size int64) ([]schema.Document, error)

// Source loads PDF pages through langchaingo's PDF loader.
type Source struct {
	load LoaderFunc
}

// Option configures a Source.
type Option func(*Source)

// WithLoader replaces the page extractor.
func WithLoader(fn LoaderFunc) Option {
	return func(s *Source) {
		s.load = fn
	}
}

// New creates a PDF document source.
func New(opts ...Option) *Source {
	s := &Source{load: langchainLoad}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func langchainLoad(ctx context.Context, r io.ReaderAt, size int64) ([]schema.Document, error) {
	return documentloaders.NewPDF(r, size).Load(ctx)
}

// Load returns the pages of the PDF at path in order. Page metadata is
// stringified and gains a "source" key holding path.
func (s *Source) Load(ctx context.Context, path string) ([]domain.Page, error) {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return nil, fmt.Errorf("%w: unsupported file type %q, use a %s file",
			domain.ErrUnsupportedFormat, filepath.Ext(path), Extension)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrUnsupportedFormat, path)
	}

	docs, err := s.load(ctx, f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: read pdf: %w", domain.ErrUnsupportedFormat, err)
	}

	pages := make([]domain.Page, 0, len(docs))
	for _, doc := range docs {
		meta := stringify(doc.Metadata)
		meta[domain.MetaSource] = path
		pages = append(pages, domain.Page{
			Text:     strings.ToValidUTF8(doc.PageContent, "�"),
			Metadata: meta,
		})
	}
	return pages, nil
}

func stringify(in map[string]any) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = fmt.Sprint(v)
	}
	return out
}
