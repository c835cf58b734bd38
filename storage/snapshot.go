package storage

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"paper-search/query"
)

// WriteSnapshot writes every paper in listing order as gzipped JSON lines
// and returns how many were written.
func WriteSnapshot(ctx context.Context, s Store, w io.Writer) (int, error) {
	papers, err := s.Find(ctx, query.And{}, FindOptions{Sort: query.PaperOrder})
	if err != nil {
		return 0, fmt.Errorf("find papers: %w", err)
	}

	gz := gzip.NewWriter(w)
	enc := json.NewEncoder(gz)
	for i := range papers {
		if err := enc.Encode(&papers[i]); err != nil {
			gz.Close()
			return 0, fmt.Errorf("encode paper %d: %w", i, err)
		}
	}
	if err := gz.Close(); err != nil {
		return 0, err
	}
	return len(papers), nil
}
