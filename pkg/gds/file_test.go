package gds

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
	"github.com/matzehuels/gdsr/pkg/layout"
	"github.com/matzehuels/gdsr/pkg/observability"
)

type recordingHooks struct {
	observability.NoopCodecHooks
	encoded  []observability.StreamStats
	decoded  []observability.StreamStats
	errors   []error
	warnings []string
}

func (h *recordingHooks) OnEncodeComplete(_ context.Context, _ string, s observability.StreamStats, _ time.Duration, err error) {
	h.encoded = append(h.encoded, s)
	h.errors = append(h.errors, err)
}

func (h *recordingHooks) OnDecodeComplete(_ context.Context, _ string, s observability.StreamStats, _ time.Duration, err error) {
	h.decoded = append(h.decoded, s)
	h.errors = append(h.errors, err)
}

func (h *recordingHooks) OnWarning(_ context.Context, _ string, msg string) {
	h.warnings = append(h.warnings, msg)
}

func TestWriteReadFile(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetCodecHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	lib := nestedLibrary(t)
	path := filepath.Join(t.TempDir(), "chip.gds")

	written, err := WriteFile(ctx, lib, path, Options{})
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if written != path {
		t.Errorf("WriteFile() = %q, want %q", written, path)
	}

	got, err := ReadFile(ctx, path, ReadOptions{Strict: true})
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !lib.Equal(got, geom.DefaultTolerance) {
		t.Error("read library differs from written library")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(hooks.encoded) != 1 || len(hooks.decoded) != 1 {
		t.Fatalf("hooks saw %d encodes and %d decodes", len(hooks.encoded), len(hooks.decoded))
	}
	if hooks.encoded[0].Bytes != info.Size() || hooks.decoded[0].Bytes != info.Size() {
		t.Errorf("hook byte counts = %d, %d, file size %d", hooks.encoded[0].Bytes, hooks.decoded[0].Bytes, info.Size())
	}
	if hooks.encoded[0].Cells != 3 || hooks.decoded[0].Cells != 3 {
		t.Errorf("hook cell counts = %+v, %+v", hooks.encoded[0], hooks.decoded[0])
	}
	for _, err := range hooks.errors {
		if err != nil {
			t.Errorf("hook error = %v", err)
		}
	}
}

func TestWriteFileTemp(t *testing.T) {
	written, err := WriteFile(context.Background(), nestedLibrary(t), "", Options{})
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(written) })

	if filepath.Dir(written) != filepath.Clean(os.TempDir()) {
		t.Errorf("WriteFile() = %q, want a path in %q", written, os.TempDir())
	}
	base := filepath.Base(written)
	if !strings.HasPrefix(base, "gdsr-") || filepath.Ext(base) != ".gds" {
		t.Errorf("temp file name = %q", base)
	}
	if _, err := os.Stat(written); err != nil {
		t.Errorf("temp file missing: %v", err)
	}
}

func TestWriteFileErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.gds")
		_, err := WriteFile(ctx, nestedLibrary(t), path, Options{})
		if !errs.Is(err, errs.ErrCodeFileCreate) {
			t.Errorf("WriteFile() error = %v, want FILE_CREATE", err)
		}
	})

	t.Run("partial file removed", func(t *testing.T) {
		c := layout.NewCell("c")
		mustAdd(t, c, polygon(t, 1, geom.Pt(0, 0), geom.Pt(1e6, 0), geom.Pt(0, 1)))
		path := filepath.Join(t.TempDir(), "bad.gds")
		if _, err := WriteFile(ctx, mustLib(t, "lib", c), path, Options{}); err == nil {
			t.Fatal("WriteFile() expected error")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("partial file still present: %v", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := WriteFile(cctx, nestedLibrary(t), filepath.Join(t.TempDir(), "x.gds"), Options{}); err == nil {
			t.Error("WriteFile() expected context error")
		}
	})
}

func TestReadFileErrors(t *testing.T) {
	ctx := context.Background()

	_, err := ReadFile(ctx, filepath.Join(t.TempDir(), "nope.gds"), ReadOptions{})
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("ReadFile() error = %v, want FILE_NOT_FOUND", err)
	}

	path := filepath.Join(t.TempDir(), "junk.gds")
	if err := os.WriteFile(path, []byte("not a stream"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = ReadFile(ctx, path, ReadOptions{})
	if !errs.Is(err, errs.ErrCodeMalformedStream) {
		t.Errorf("ReadFile() error = %v, want MALFORMED_STREAM", err)
	}
}

func TestReadFileForwardsWarnings(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetCodecHooks(hooks)
	t.Cleanup(observability.Reset)

	data := stream(t, func(rw *recordWriter) {
		structure(rw, "top", func() {
			rw.empty(RecSRef)
			rw.text(RecSName, "ghost")
			rw.int32s(RecXY, 0, 0)
			rw.empty(RecEndEl)
		})
	})
	path := filepath.Join(t.TempDir(), "ghost.gds")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadFile(context.Background(), path, ReadOptions{}); err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(hooks.warnings) != 1 {
		t.Errorf("warnings = %v, want 1", hooks.warnings)
	}
}

func TestWriteCellFile(t *testing.T) {
	lib := nestedLibrary(t)
	top, _ := lib.Cell("top")
	path := filepath.Join(t.TempDir(), "top.gds")

	if _, err := WriteCellFile(context.Background(), top, lib, path, Options{}); err != nil {
		t.Fatalf("WriteCellFile() error = %v", err)
	}
	got, err := ReadFile(context.Background(), path, ReadOptions{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != CellLibraryName || got.Len() != 3 {
		t.Errorf("read %v", got)
	}
}

func TestReadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.gds")
	if err := os.WriteFile(path, stream(t, func(*recordWriter) {}), 0o644); err != nil {
		t.Fatal(err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if h.Version != StreamVersion || h.Name != "lib" {
		t.Errorf("ReadHeader() = %+v", h)
	}
	if h.Units.DatabaseUnit != 1e-9 || h.Units.Digits != 3 {
		t.Errorf("units = %+v", h.Units)
	}

	junk := filepath.Join(t.TempDir(), "junk.gds")
	if err := os.WriteFile(junk, []byte{0x00, 0x04, 0x04, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadHeader(junk); !errs.Is(err, errs.ErrCodeMalformedStream) {
		t.Errorf("ReadHeader(junk) error = %v, want MALFORMED_STREAM", err)
	}
}
