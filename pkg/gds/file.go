package gds

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/layout"
	"github.com/matzehuels/gdsr/pkg/observability"
)

// TempPath returns a fresh file name in the system temporary directory.
func TempPath() string {
	return filepath.Join(os.TempDir(), "gdsr-"+uuid.NewString()+".gds")
}

// WriteFile encodes lib to path and returns the path written. An empty path
// writes to a new file from [TempPath].
//
// A failure after the file was created removes the partial file.
func WriteFile(ctx context.Context, lib *layout.Library, path string, opts Options) (string, error) {
	return writeFile(ctx, path, func(e *Encoder) (Stats, error) { return e.Encode(lib) }, opts)
}

// WriteCellFile encodes cell and the cells it references, resolved through
// res, to path. See [WriteFile].
func WriteCellFile(ctx context.Context, cell *layout.Cell, res layout.Resolver, path string, opts Options) (string, error) {
	return writeFile(ctx, path, func(e *Encoder) (Stats, error) { return e.EncodeCell(cell, res) }, opts)
}

func writeFile(ctx context.Context, path string, encode func(*Encoder) (Stats, error), opts Options) (written string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if path == "" {
		path = TempPath()
	}

	hooks := observability.Codec()
	hooks.OnEncodeStart(ctx, path)
	start := time.Now()
	var stats Stats
	defer func() {
		hooks.OnEncodeComplete(ctx, path, observability.StreamStats(stats), time.Since(start), err)
	}()

	f, err := os.Create(path)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeFileCreate, err, "create %s", path)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	stats, err = encode(NewEncoder(f, opts))
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errs.Wrap(errs.ErrCodeWriteFailed, cerr, "close %s", path)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// ReadFile decodes the library stored at path.
func ReadFile(ctx context.Context, path string, opts ReadOptions) (lib *layout.Library, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Codec()
	hooks.OnDecodeStart(ctx, path)
	start := time.Now()
	var stats Stats
	defer func() {
		hooks.OnDecodeComplete(ctx, path, observability.StreamStats(stats), time.Since(start), err)
	}()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	warn := opts.OnWarning
	opts.OnWarning = func(msg string) {
		hooks.OnWarning(ctx, path, msg)
		if warn != nil {
			warn(msg)
		}
	}
	dec := NewDecoder(f, opts)
	lib, err = dec.Decode()
	if err != nil {
		return nil, err
	}
	stats = LibraryStats(lib)
	stats.Bytes = dec.BytesRead()
	return lib, nil
}

// LibraryStats counts the cells and elements of lib.
func LibraryStats(lib *layout.Library) Stats {
	var s Stats
	for _, c := range lib.Cells() {
		s.Cells++
		s.Elements += c.Len()
	}
	return s
}

// Header is the library-level information at the start of a stream.
type Header struct {
	Version int
	Name    string
	Units   Units
}

// ReadHeader reads the records before the first structure of the stream
// at path and returns the version, library name and units they carry.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Header{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Header{}, errs.Wrap(errs.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	rr := NewRecordReader(f)
	var h Header
	for first := true; ; first = false {
		rec, err := rr.Next()
		if errors.Is(err, io.EOF) {
			return Header{}, streamError(rr.Offset(), "", "stream ended before UNITS")
		}
		if err != nil {
			return Header{}, err
		}
		if first && rec.Type != RecHeader {
			return Header{}, rec.malformed("stream does not start with HEADER")
		}
		switch rec.Type {
		case RecHeader:
			v, err := rec.int16At()
			if err != nil {
				return Header{}, err
			}
			h.Version = int(v)
		case RecLibName:
			if h.Name, err = rec.Text(); err != nil {
				return Header{}, err
			}
		case RecUnits:
			v, err := rec.Reals()
			if err != nil {
				return Header{}, err
			}
			if len(v) != 2 || !(v[0] > 0) || !(v[1] > 0) {
				return Header{}, rec.malformed("invalid units %v", v)
			}
			h.Units = Units{UserUnit: v[1] / v[0], DatabaseUnit: v[1], Digits: unitDigits(v[0])}
			return h, nil
		case RecBgnStr, RecEndLib:
			return Header{}, rec.malformed("%v before UNITS", rec.Type)
		}
	}
}
