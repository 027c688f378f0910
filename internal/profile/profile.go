// File path: internal/profile/profile.go
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docschat/docschat/internal/common"
	"github.com/docschat/docschat/internal/llm"
)

// Mode partitions documents, indexes and backends into two disjoint worlds:
// normal routes through the cloud provider, private stays on the host.
type Mode string

const (
	ModeNormal  Mode = "normal"
	ModePrivate Mode = "private"
)

// ErrInvalidMode reports a mode outside {normal, private}. Callers treat it
// as a programming error, not a user-recoverable condition.
var ErrInvalidMode = errors.New("invalid mode")

func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeNormal:
		return ModeNormal, nil
	case ModePrivate:
		return ModePrivate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, value)
	}
}

// Profile bundles everything an operation needs from its mode: the backend
// used for embeddings and generation plus the storage namespace root. It is
// passed by value into each operation so no shared mutable mode flag exists.
type Profile struct {
	Mode     Mode
	Provider llm.Provider
	Root     string
}

// Selector resolves profiles and provisions the storage namespaces once.
type Selector struct {
	dataDir string
	cloud   llm.Provider
	local   llm.Provider
}

const (
	datastoreDir        = "datastore"
	cacheDir            = "cache"
	privateDatastoreDir = "private_datastore"
)

// NewSelector wires the two backend providers onto the data directory.
// Either provider may be nil when the corresponding mode is not configured;
// selecting that mode then fails.
func NewSelector(dataDir string, cloud, local llm.Provider) (*Selector, error) {
	trimmed := strings.TrimSpace(dataDir)
	if trimmed == "" {
		return nil, errors.New("data directory required")
	}
	return &Selector{dataDir: trimmed, cloud: cloud, local: local}, nil
}

// Select returns the profile for the given mode and idempotently provisions
// the three storage sub-namespaces. It never migrates data between them.
func (s *Selector) Select(mode Mode) (Profile, error) {
	if s == nil {
		return Profile{}, errors.New("selector not initialised")
	}
	if err := s.provision(); err != nil {
		return Profile{}, err
	}
	switch mode {
	case ModeNormal:
		if s.cloud == nil {
			return Profile{}, errors.New("cloud provider not configured")
		}
		return Profile{Mode: mode, Provider: s.cloud, Root: filepath.Join(s.dataDir, datastoreDir)}, nil
	case ModePrivate:
		if s.local == nil {
			return Profile{}, errors.New("local provider not configured")
		}
		return Profile{Mode: mode, Provider: s.local, Root: filepath.Join(s.dataDir, privateDatastoreDir)}, nil
	default:
		return Profile{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

func (s *Selector) provision() error {
	for _, dir := range []string{datastoreDir, cacheDir, privateDatastoreDir} {
		path := filepath.Join(s.dataDir, dir)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("provision namespace %s: %w", dir, err)
		}
	}
	common.Logger().Debug("profile: storage namespaces provisioned", "data_dir", s.dataDir)
	return nil
}
