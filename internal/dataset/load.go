package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"
)

const maxLoaders = 8

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type frame struct {
	source  string
	headers []string
	records [][]string
}

// LoadDir reads every *.csv file under dir into one merged table. Files are
// parsed concurrently but merged in sorted filename order so repeated loads
// of the same directory produce the same table. A file that fails to parse
// is logged and skipped rather than failing the whole load. An empty
// directory yields an empty table.
func LoadDir(ctx context.Context, dir string, logger *slog.Logger) (*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		logger.Warn("no csv files found", "dir", dir)
		return New(nil, nil), nil
	}

	start := time.Now()
	frames := make([]*frame, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLoaders)
	for i, name := range files {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			fr, err := readCSV(filepath.Join(dir, name))
			if err != nil {
				logger.Warn("skipping csv file", "file", name, "error", err)
				return nil
			}
			fr.source = name
			frames[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}

	loaded := frames[:0]
	for _, fr := range frames {
		if fr != nil {
			loaded = append(loaded, fr)
		}
	}
	if len(loaded) == 0 {
		logger.Warn("no readable csv files", "dir", dir)
		return New(nil, nil), nil
	}

	t := merge(loaded)
	logger.Info("dataset loaded",
		"files", len(loaded),
		"rows", t.Len(),
		"columns", len(t.Columns()),
		"duration", time.Since(start))
	return t, nil
}

// merge aligns frames on the union of their headers in first-seen order and
// appends the source tag column last.
func merge(frames []*frame) *Table {
	var headers []string
	seen := make(map[string]bool)
	total := 0
	for _, fr := range frames {
		for _, h := range fr.headers {
			if !seen[h] {
				seen[h] = true
				headers = append(headers, h)
			}
		}
		total += len(fr.records)
	}
	headers = append(headers, SourceColumn)

	records := make([][]string, 0, total)
	sources := make([]string, 0, len(frames))
	for _, fr := range frames {
		pos := make(map[string]int, len(fr.headers))
		for j, h := range fr.headers {
			if _, ok := pos[h]; !ok {
				pos[h] = j
			}
		}
		for _, rec := range fr.records {
			row := make([]string, len(headers))
			for k, h := range headers[:len(headers)-1] {
				if j, ok := pos[h]; ok && j < len(rec) {
					row[k] = rec[j]
				}
			}
			row[len(headers)-1] = fr.source
			records = append(records, row)
		}
		sources = append(sources, fr.source)
	}

	t := New(headers, records)
	t.sources = sources
	return t
}

func readCSV(path string) (*frame, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(decode(raw)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	return &frame{headers: rows[0], records: rows[1:]}, nil
}

// decode strips a UTF-8 BOM and falls back to Latin-1 for content that is
// not valid UTF-8, mirroring the utf-8 / utf-8-sig / latin-1 ladder retail
// exports tend to need.
func decode(b []byte) []byte {
	b = bytes.TrimPrefix(b, utf8BOM)
	if utf8.Valid(b) {
		return b
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return b
	}
	return out
}
