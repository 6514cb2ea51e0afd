package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileFetcher serves a payload stored on disk.
type FileFetcher struct {
	Path string
}

func (f *FileFetcher) Source() string {
	abs, err := filepath.Abs(f.Path)
	if err != nil {
		abs = f.Path
	}
	return "file://" + abs
}

func (f *FileFetcher) Fetch(ctx context.Context) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	info, err := os.Stat(f.Path)
	if err != nil {
		return nil, fmt.Errorf("stat payload: %w", err)
	}
	return &Payload{
		URL:       f.Source(),
		Status:    200,
		Body:      body,
		FetchedAt: info.ModTime(),
	}, nil
}
