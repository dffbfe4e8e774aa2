// Package store persists workgroup registries to disk.
//
// One file holds one registry: a tagged, versioned record with every
// workgroup's base and working snapshots, content associations and
// filters. The tag rejects foreign files before any domain state is
// touched; the version rejects files from an incompatible format
// generation.
//
// Encodings are chosen by extension:
//   - .json (sonic)
//   - .yaml / .yml (goccy yaml)
//   - .toml (go-toml)
//
// with transparent .gz (gzip) and .zst (zstd) wrappers, so
// "work.yaml.zst" is a zstd-compressed YAML file.
//
// Saves are atomic (temp file + rename) and clear the registry's dirty
// flags. Discover walks a directory for workgroup files by extension.
//
// Example Usage:
//
//	st := store.New(log, metrics)
//	err := st.Save(ctx, "~/.workgrid/work.json.zst", reg)
//	err = st.LoadInto(ctx, "~/.workgrid/work.json.zst", reg)
//	files, err := st.Discover(ctx, "~/.workgrid")
package store
