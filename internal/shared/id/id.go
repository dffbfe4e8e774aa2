// Package id provides centralized ID generation for the engine.
//
// This package offers type-safe ULID generation with:
//   - Monotonic ordering: later workgroups always sort after earlier ones
//   - Prefixed types: Type-specific prefixes for debugging (wg_*, sess_*)
//   - Type safety: Separate types prevent ID misuse
//   - Lexicographic sortability: registry order survives persistence round-trips
//
// Design Principles:
//   - ULIDs only: Single ID format across the engine
//   - Monotonic entropy: strictly increasing ids within a process
//   - Debuggable: Prefixes make logs readable
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ============================================================================
// Type-Safe ID Wrappers
// ============================================================================

// WorkgroupID identifies a workgroup
type WorkgroupID string

// SessionID identifies a display-surface session
type SessionID string

// ============================================================================
// ID Prefixes (for debugging and type identification)
// ============================================================================

const (
	WorkgroupPrefix = "wg"
	SessionPrefix   = "sess"
)

// ============================================================================
// ULID Generator
// ============================================================================

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	// Default generator with monotonic entropy
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator. Entropy is monotonic so ids
// generated by the same process strictly increase, which is what the
// registry relies on when ordering workgroups by id.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source
// Useful for testing with deterministic entropy
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// ============================================================================
// Typed ID Generators
// ============================================================================

// NewWorkgroupID generates a new workgroup ID
func NewWorkgroupID() WorkgroupID {
	return WorkgroupID(Default().GenerateWithPrefix(WorkgroupPrefix))
}

// NewSessionID generates a new session ID
func NewSessionID() SessionID {
	return SessionID(Default().GenerateWithPrefix(SessionPrefix))
}

// ============================================================================
// Type Conversion and Validation
// ============================================================================

// String methods for ID types
func (id WorkgroupID) String() string { return string(id) }
func (id SessionID) String() string   { return string(id) }

// IsZero reports whether the id is unset
func (id WorkgroupID) IsZero() bool { return id == "" }

// IsValid checks if an ID string is a valid ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// IsValidPrefixed checks a "prefix_ulid" string against the expected prefix
func IsValidPrefixed(id, prefix string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"_")
	if !ok {
		return false
	}
	return IsValid(rest)
}

// Parse parses a ULID string
func Parse(id string) (ulid.ULID, error) {
	return ulid.Parse(id)
}

// Timestamp extracts the timestamp from a ULID
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
