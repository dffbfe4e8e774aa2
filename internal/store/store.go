package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charlievieth/fastwalk"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/paneworks/workgrid/internal/domain/registry"
	"github.com/paneworks/workgrid/internal/infrastructure/logging"
	"github.com/paneworks/workgrid/internal/infrastructure/monitoring"
)

const (
	// FileTag marks a file as ours regardless of encoding.
	FileTag = "workgrid"
	// FileVersion is the record format version written by Save. Load
	// accepts any version with the same major.
	FileVersion = "1.0.0"
)

var (
	// ErrBadTag reports a file that decoded but is not a workgroup file.
	ErrBadTag = errors.New("not a workgroup file")
	// ErrBadVersion reports a workgroup file from an incompatible format
	// generation.
	ErrBadVersion = errors.New("unsupported workgroup file version")
	// ErrBadExtension reports a path with no recognized encoding.
	ErrBadExtension = errors.New("unsupported store file extension")
)

// Store persists registries to disk. The encoding is chosen by file
// extension: .json (sonic), .yaml/.yml (goccy) or .toml (go-toml), each
// optionally wrapped in .gz or .zst compression, e.g. "work.json.zst".
type Store struct {
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New creates a store. Logger may be nil.
func New(log *logging.Logger, metrics *monitoring.Metrics) *Store {
	return &Store{
		log:     logging.OrNop(log).Named("store"),
		metrics: metrics,
	}
}

// Save writes every registered workgroup to path atomically: the record
// is encoded to a temp file in the same directory and renamed over the
// target, so readers never observe a half-written file. On success the
// registry's dirty flags clear.
func (s *Store) Save(ctx context.Context, path string, reg *registry.Registry) error {
	if err := s.save(ctx, path, reg); err != nil {
		s.metrics.RecordStoreSave("error")
		return err
	}
	s.metrics.RecordStoreSave("ok")
	return nil
}

func (s *Store) save(ctx context.Context, path string, reg *registry.Registry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	enc, comp, err := formatFor(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	groups := reg.List()
	data, err := enc.marshal(encodeRegistry(groups, time.Now()))
	if err != nil {
		return fmt.Errorf("save %s: encode: %w", path, err)
	}
	if data, err = compress(comp, data); err != nil {
		return fmt.Errorf("save %s: compress: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", path, err)
	}

	reg.MarkClean()
	s.log.Info("workgroups saved",
		zap.String("path", path),
		zap.Int("workgroups", len(groups)),
		zap.Int("bytes", len(data)))
	return nil
}

// Load reads a workgroup file and returns its workgroups in display
// order. The tag and version are verified before anything is decoded
// into domain form; callers' in-memory state is untouched on any error.
func (s *Store) Load(ctx context.Context, path string) ([]*registry.Workgroup, error) {
	groups, err := s.load(ctx, path)
	if err != nil {
		s.metrics.RecordStoreLoad("error")
		return nil, err
	}
	s.metrics.RecordStoreLoad("ok")
	return groups, nil
}

func (s *Store) load(ctx context.Context, path string) ([]*registry.Workgroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	enc, comp, err := formatFor(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if data, err = decompress(comp, data); err != nil {
		return nil, fmt.Errorf("load %s: decompress: %w", path, err)
	}

	var rec fileRecord
	if err := enc.unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("load %s: decode: %w", path, err)
	}
	if rec.Tag != FileTag {
		return nil, fmt.Errorf("load %s: tag %q: %w", path, rec.Tag, ErrBadTag)
	}
	if major(rec.Version) != major(FileVersion) {
		return nil, fmt.Errorf("load %s: version %q: %w", path, rec.Version, ErrBadVersion)
	}

	groups, err := decodeWorkgroups(rec)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	s.log.Info("workgroups loaded",
		zap.String("path", path),
		zap.Int("workgroups", len(groups)),
		zap.Time("saved_at", rec.SavedAt))
	return groups, nil
}

// LoadInto loads a workgroup file and replaces the registry's contents
// with it. The registry is untouched unless the whole file decodes.
func (s *Store) LoadInto(ctx context.Context, path string, reg *registry.Registry) error {
	groups, err := s.Load(ctx, path)
	if err != nil {
		return err
	}
	reg.Replace(groups)
	return nil
}

// Discover walks a directory tree and returns every path that carries a
// recognized workgroup file extension, sorted. Files are not opened;
// tag verification happens on load.
func (s *Store) Discover(ctx context.Context, dir string) ([]string, error) {
	var (
		mu    sync.Mutex
		found []string
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || d.IsDir() {
			return nil
		}
		if _, _, ferr := formatFor(path); ferr != nil {
			return nil
		}
		mu.Lock()
		found = append(found, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	sort.Strings(found)
	return found, nil
}

// codec is one encoding's marshal/unmarshal pair.
type codec struct {
	marshal   func(interface{}) ([]byte, error)
	unmarshal func([]byte, interface{}) error
}

var codecs = map[string]codec{
	".json": {
		marshal:   func(v interface{}) ([]byte, error) { return sonic.MarshalIndent(v, "", "  ") },
		unmarshal: sonic.Unmarshal,
	},
	".yaml": {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
	".yml":  {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
	".toml": {marshal: toml.Marshal, unmarshal: toml.Unmarshal},
}

// formatFor resolves a path to its codec and optional compression
// extension (".gz", ".zst" or "").
func formatFor(path string) (codec, string, error) {
	comp := ""
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gz" || ext == ".zst" {
		comp = ext
		path = strings.TrimSuffix(path, ext)
		ext = strings.ToLower(filepath.Ext(path))
	}
	c, ok := codecs[ext]
	if !ok {
		return codec{}, "", fmt.Errorf("%q: %w", ext, ErrBadExtension)
	}
	return c, comp, nil
}

func compress(comp string, data []byte) ([]byte, error) {
	switch comp {
	case "":
		return data, nil
	case ".gz":
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".zst":
		zw, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		out := zw.EncodeAll(data, nil)
		zw.Close()
		return out, nil
	}
	return nil, fmt.Errorf("%q: %w", comp, ErrBadExtension)
}

func decompress(comp string, data []byte) ([]byte, error) {
	switch comp {
	case "":
		return data, nil
	case ".gz":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case ".zst":
		zr, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return zr.DecodeAll(data, nil)
	}
	return nil, fmt.Errorf("%q: %w", comp, ErrBadExtension)
}

// major returns the leading component of a dotted version.
func major(v string) string {
	if i := strings.IndexByte(v, '.'); i >= 0 {
		return v[:i]
	}
	return v
}
