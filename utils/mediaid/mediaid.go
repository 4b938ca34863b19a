package mediaid

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const prefix = "med_"

var (
	entropyOnce sync.Once
	entropyMu   sync.Mutex
	entropy     *ulid.MonotonicEntropy
)

// lockedEntropy serializes reads from the shared monotonic source.
type lockedEntropy struct{}

func (lockedEntropy) Read(p []byte) (int, error) {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return newEntropy().Read(p)
}

func (lockedEntropy) MonotonicRead(ms uint64, p []byte) error {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return newEntropy().MonotonicRead(ms, p)
}

func newEntropy() *ulid.MonotonicEntropy {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = ulid.Monotonic(rand.New(source), 0)
	})
	return entropy
}

var _ ulid.MonotonicReader = lockedEntropy{}

// New returns a med_* ULID string. Safe for concurrent use.
func New() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), lockedEntropy{})
	return prefix + strings.ToLower(id.String())
}

// IsValid reports whether the string is a med_* ULID.
func IsValid(value string) bool {
	if !strings.HasPrefix(value, prefix) {
		return false
	}
	_, err := Parse(value)
	return err == nil
}

// Parse strips the med_ prefix and returns the ULID.
func Parse(value string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, prefix)
	value = strings.TrimPrefix(value, strings.ToUpper(prefix))
	return ulid.Parse(value)
}
