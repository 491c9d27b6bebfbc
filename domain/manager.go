package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/moleksy/mxl/flow"
)

// FlowSuffix is the fixed suffix every published flow directory name
// carries; staging directories use a different, unambiguous prefix so
// the two can never collide.
const FlowSuffix = ".mxl-flow"

const stagingPrefix = ".mxl-tmp-"

// Manager creates, opens, lists, and deletes flow directories under one
// domain root.
type Manager struct {
	domain string
	log    *slog.Logger
}

// NewManager canonicalizes domainPath and verifies it exists and is a
// directory, matching FlowManager's constructor contract exactly.
func NewManager(domainPath string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(domainPath)
	if err != nil {
		return nil, fmt.Errorf("domain: resolve %s: %w", domainPath, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDomainNotFound, domainPath)
		}
		return nil, fmt.Errorf("domain: resolve %s: %w", domainPath, err)
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDomainNotFound, domainPath)
	}
	return &Manager{domain: resolved, log: logger}, nil
}

// Domain returns the canonicalized domain root path.
func (m *Manager) Domain() string { return m.domain }

func (m *Manager) flowPath(id uuid.UUID) string {
	return filepath.Join(m.domain, id.String()+FlowSuffix)
}

// List returns the uuids of every currently-published flow. Entries that
// are not directories, or whose name doesn't parse as
// <uuid>+FlowSuffix, are silently skipped.
func (m *Manager) List() ([]uuid.UUID, error) {
	entries, err := os.ReadDir(m.domain)
	if err != nil {
		return nil, fmt.Errorf("domain: list %s: %w", m.domain, err)
	}
	var ids []uuid.UUID
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, FlowSuffix) {
			continue
		}
		stem := strings.TrimSuffix(name, FlowSuffix)
		id, err := uuid.Parse(stem)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete removes the flow directory for id, returning false (never an
// error) if it was already absent or if removal failed for any other
// filesystem reason.
func (m *Manager) Delete(id uuid.UUID) bool {
	path := m.flowPath(id)
	if !m.exists(id) {
		m.log.Warn("delete: flow already absent", "flow", id.String())
		return false
	}
	if err := os.RemoveAll(path); err != nil {
		m.log.Error("delete flow failed", "flow", id.String(), "err", err)
		return false
	}
	return true
}

// DeleteFlow closes fd's mappings first and then removes its flow
// directory, with the same return contract as Delete.
func (m *Manager) DeleteFlow(fd flow.FlowData) bool {
	id := uuid.UUID(fd.Info().ID())
	fd.Close()
	return m.Delete(id)
}

// exists reports whether id is currently published in this domain.
func (m *Manager) exists(id uuid.UUID) bool {
	info, err := os.Stat(m.flowPath(id))
	return err == nil && info.IsDir()
}
