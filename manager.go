// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// manager.go — process-wide holder of the active class registry. Exactly
// one manager is live at a time; the policy is "first construction wins":
// constructing a second manager while one is live returns the existing
// instance unchanged, and Teardown must be called before a replacement
// can be constructed.

package kajson

import "sync"

// Manager holds the one active class registry for the process.
type Manager struct {
	registry Registry
}

var (
	managerMu     sync.Mutex
	activeManager *Manager
)

// NewManager constructs the process manager around the given registry
// (a fresh ClassRegistry when nil). When a manager is already live it is
// returned as-is and the argument is ignored.
func NewManager(registry Registry) *Manager {
	managerMu.Lock()
	defer managerMu.Unlock()
	if activeManager != nil {
		return activeManager
	}
	if registry == nil {
		registry = NewClassRegistry()
	}
	registry.Setup()
	activeManager = &Manager{registry: registry}
	return activeManager
}

// GetInstance returns the live manager, constructing a default one on
// first use.
func GetInstance() *Manager {
	managerMu.Lock()
	live := activeManager
	managerMu.Unlock()
	if live != nil {
		return live
	}
	return NewManager(nil)
}

// TeardownManager drops the live manager, tearing its registry down.
// The next construction or GetInstance call starts fresh.
func TeardownManager() {
	managerMu.Lock()
	defer managerMu.Unlock()
	if activeManager != nil {
		activeManager.registry.Teardown()
		activeManager = nil
	}
}

// ClassRegistry returns the manager's registry.
func (m *Manager) ClassRegistry() Registry {
	return m.registry
}

// GetClassRegistry returns the live manager's registry, constructing the
// default manager on first use.
func GetClassRegistry() Registry {
	return GetInstance().ClassRegistry()
}
