package mock

import (
	"context"
	"io"

	"github.com/fwojciec/docgrab"
)

var _ docgrab.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of docgrab.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, link docgrab.CandidateLink, path string) *docgrab.Outcome
}

func (d *Downloader) Download(ctx context.Context, link docgrab.CandidateLink, path string) *docgrab.Outcome {
	return d.DownloadFn(ctx, link, path)
}

var _ docgrab.FileStore = (*FileStore)(nil)

// FileStore is a mock implementation of docgrab.FileStore.
type FileStore struct {
	EnsureDirFn func(dir string) (string, error)
	ExistsFn    func(path string) (bool, error)
	WriteFn     func(ctx context.Context, path string, r io.Reader) (int64, error)
}

func (s *FileStore) EnsureDir(dir string) (string, error) {
	return s.EnsureDirFn(dir)
}

func (s *FileStore) Exists(path string) (bool, error) {
	return s.ExistsFn(path)
}

func (s *FileStore) Write(ctx context.Context, path string, r io.Reader) (int64, error) {
	return s.WriteFn(ctx, path, r)
}

var _ docgrab.Pacer = (*Pacer)(nil)

// Pacer is a mock implementation of docgrab.Pacer.
type Pacer struct {
	WaitFn func(ctx context.Context) error
	DoneFn func()
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.WaitFn(ctx)
}

func (p *Pacer) Done() {
	p.DoneFn()
}
