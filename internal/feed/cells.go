// Package feed holds the latest-value cells fed by the transfer engine's
// asynchronous event streams. Each cell is a single-writer slot: the stream
// goroutine that owns a feed is its only writer, and resolution calls read
// whatever value is current at call time. No history is retained.
package feed

import (
	"sync"

	"github.com/tinoosan/shelfd/internal/data"
)

// ProgressCell holds the most recent ProgressPacket. Storing a packet for a
// different entry atomically removes the previous entry from "actively
// serviced" status, since readers only ever see the latest value.
type ProgressCell struct {
	mu     sync.RWMutex
	latest *data.ProgressPacket
}

func (c *ProgressCell) Set(p *data.ProgressPacket) {
	c.mu.Lock()
	c.latest = p
	c.mu.Unlock()
}

func (c *ProgressCell) Clear() { c.Set(nil) }

// Latest returns a copy of the current packet, or nil when no packet is in
// flight.
func (c *ProgressCell) Latest() *data.ProgressPacket {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.latest == nil {
		return nil
	}
	p := *c.latest
	if fs := c.latest.Download.FileSize; fs != nil {
		v := *fs
		p.Download.FileSize = &v
	}
	return &p
}

// SeedingTable holds the current upload-speed readings keyed by entry id.
// Each Replace supersedes the whole snapshot list.
type SeedingTable struct {
	mu   sync.RWMutex
	byID map[string]data.SeedingSnapshot
}

func NewSeedingTable() *SeedingTable {
	return &SeedingTable{byID: make(map[string]data.SeedingSnapshot)}
}

func (t *SeedingTable) Replace(snaps []data.SeedingSnapshot) {
	next := make(map[string]data.SeedingSnapshot, len(snaps))
	for _, s := range snaps {
		next[s.EntryID] = s
	}
	t.mu.Lock()
	t.byID = next
	t.mu.Unlock()
}

// Get returns the snapshot for the given entry, or nil when the entry is
// not currently seeding.
func (t *SeedingTable) Get(entryID string) *data.SeedingSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.byID[entryID]
	if !ok {
		return nil
	}
	return &s
}

func (t *SeedingTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}

// DeletionSet tracks entries with a deletion in progress. Marked on action
// dispatch, cleared when the engine reports the deletion complete.
type DeletionSet struct {
	mu   sync.RWMutex
	byID map[string]struct{}
}

func NewDeletionSet() *DeletionSet {
	return &DeletionSet{byID: make(map[string]struct{})}
}

func (s *DeletionSet) Mark(entryID string) {
	s.mu.Lock()
	s.byID[entryID] = struct{}{}
	s.mu.Unlock()
}

func (s *DeletionSet) Clear(entryID string) {
	s.mu.Lock()
	delete(s.byID, entryID)
	s.mu.Unlock()
}

func (s *DeletionSet) IsDeleting(entryID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[entryID]
	return ok
}

// CapabilityCell holds the current externally supplied user capabilities.
type CapabilityCell struct {
	mu   sync.RWMutex
	caps data.UserCapabilities
}

func (c *CapabilityCell) Set(caps data.UserCapabilities) {
	c.mu.Lock()
	c.caps = caps
	c.mu.Unlock()
}

func (c *CapabilityCell) Get() data.UserCapabilities {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.caps
}

// Feeds bundles the cells a resolver reads. Each resolution call pulls each
// cell once, so it never observes a stale composite.
type Feeds struct {
	Progress  ProgressCell
	Seeding   *SeedingTable
	Deletions *DeletionSet
	Caps      CapabilityCell
}

func New() *Feeds {
	return &Feeds{Seeding: NewSeedingTable(), Deletions: NewDeletionSet()}
}
