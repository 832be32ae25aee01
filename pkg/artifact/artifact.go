// Package artifact persists fitted objects as self-describing files.
//
// A file is a 4-byte magic followed by a zstd stream holding two gob values:
// a Header and the payload. Writes go to a temp file next to the target and
// are renamed into place, so a reader never sees a partial artifact.
package artifact

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
)

// Version is the artifact format version written by Save.
const Version = 1

var magic = [4]byte{'R', 'S', 'L', 'A'}

// Kind names what an artifact holds.
type Kind string

const (
	KindPreprocessor Kind = "preprocessor"
	KindModel        Kind = "model"
)

// Header describes an artifact without decoding its payload.
type Header struct {
	Version   int
	Kind      Kind
	RunID     string
	CreatedAt time.Time
	Columns   []string // feature columns the payload expects, in order
	Name      string   // model name, empty for preprocessors
	Score     float64  // held-out score, zero for preprocessors
}

// NewRunID returns a fresh identifier for a pipeline run.
func NewRunID() string { return uuid.NewString() }

// Save writes h and v to path, replacing any existing file atomically.
// Version and CreatedAt are filled in when zero.
func Save(path string, h Header, v any) error {
	if h.Kind == "" {
		return errs.Configuration("artifact kind is required").WithPath(path)
	}
	h.Version = Version
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	if h.RunID == "" {
		h.RunID = NewRunID()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errs.IO(err, dir, "create artifact directory")
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errs.IO(err, path, "create temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()
	_ = tmp.Chmod(0644)

	buf := bufio.NewWriter(tmp)
	if err := encode(buf, h, v); err != nil {
		return errs.IO(err, path, "encode %s artifact", h.Kind)
	}
	if err := buf.Flush(); err != nil {
		return errs.IO(err, path, "write artifact")
	}
	if err := tmp.Sync(); err != nil {
		return errs.IO(err, path, "sync artifact")
	}
	if err := tmp.Close(); err != nil {
		return errs.IO(err, path, "close artifact")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errs.IO(err, path, "replace artifact")
	}
	tmpName = ""
	return nil
}

func encode(w io.Writer, h Header, v any) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	enc := gob.NewEncoder(zw)
	if err := enc.Encode(h); err != nil {
		zw.Close()
		return fmt.Errorf("header: %w", err)
	}
	if err := enc.Encode(v); err != nil {
		zw.Close()
		return fmt.Errorf("payload: %w", err)
	}
	return zw.Close()
}

// Load decodes the artifact at path into v, which must be a pointer to the
// type that was saved. A file of another kind is a configuration error.
func Load(path string, kind Kind, v any) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, errs.IO(err, path, "open artifact")
	}
	defer f.Close()

	h, st, err := readHeader(bufio.NewReader(f))
	if err != nil {
		return Header{}, classify(err, path)
	}
	defer st.Close()

	if h.Kind != kind {
		return h, errs.Configuration("artifact holds a %s, want %s", h.Kind, kind).WithPath(path)
	}
	if err := st.dec.Decode(v); err != nil {
		return h, errs.IO(err, path, "decode %s payload", kind)
	}
	return h, nil
}

// ReadHeader returns the header of the artifact at path without decoding the
// payload.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, errs.IO(err, path, "open artifact")
	}
	defer f.Close()

	h, st, err := readHeader(bufio.NewReader(f))
	if err != nil {
		return Header{}, classify(err, path)
	}
	st.Close()
	return h, nil
}

var (
	errMagic   = errors.New("not an artifact file")
	errVersion = errors.New("unsupported artifact version")
)

// stream is an open artifact positioned after its header. Header and
// payload share one gob decoder since gob streams carry type state.
type stream struct {
	zr  *zstd.Decoder
	dec *gob.Decoder
}

func (s *stream) Close() { s.zr.Close() }

func readHeader(r io.Reader) (Header, *stream, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return Header{}, nil, fmt.Errorf("%w: %v", errMagic, err)
	}
	if m != magic {
		return Header{}, nil, errMagic
	}
	zr, err := zstd.NewReader(r)
	if err != nil {
		return Header{}, nil, err
	}
	dec := gob.NewDecoder(zr)
	var h Header
	if err := dec.Decode(&h); err != nil {
		zr.Close()
		return Header{}, nil, fmt.Errorf("header: %w", err)
	}
	if h.Version != Version {
		zr.Close()
		return h, nil, fmt.Errorf("%w %d", errVersion, h.Version)
	}
	return h, &stream{zr: zr, dec: dec}, nil
}

// classify maps header failures to the error taxonomy: a file that is not an
// artifact or has the wrong version is a configuration problem, anything else
// an I/O one.
func classify(err error, path string) error {
	if errors.Is(err, errMagic) || errors.Is(err, errVersion) {
		return errs.Wrap(errs.KindConfiguration, err, "read artifact").WithPath(path)
	}
	return errs.IO(err, path, "read artifact")
}
