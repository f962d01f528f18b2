// Package groups implements the group-recommendation engine: pattern mining
// over existing memberships, suggestion generation for ungrouped contacts,
// and the in-memory suggestion lifecycle.
package groups

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rkarimi/rolodex/pkg/contacts"
	"github.com/rkarimi/rolodex/pkg/logging"
)

// PatternEntry records which group the bearers of one normalized company or
// position key already belong to, and how many memberships share the key.
type PatternEntry struct {
	GroupID    string `json:"group_id"`
	GroupName  string `json:"group_name"`
	GroupColor string `json:"group_color,omitempty"`
	Count      int    `json:"count"`
}

// PatternMaps holds the two frequency maps mined from existing memberships.
// Keys are lower-cased, trimmed company and position strings; matching is
// exact string equality at this stage, no fuzzy merging of near-duplicate
// keys. Rebuilt on every suggestion generation, never persisted.
type PatternMaps struct {
	Company  map[string]PatternEntry `json:"company"`
	Position map[string]PatternEntry `json:"position"`
}

// SortedCompanyKeys returns the company keys in deterministic order.
func (p PatternMaps) SortedCompanyKeys() []string {
	return sortedKeys(p.Company)
}

// SortedPositionKeys returns the position keys in deterministic order.
func (p PatternMaps) SortedPositionKeys() []string {
	return sortedKeys(p.Position)
}

func sortedKeys(m map[string]PatternEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MinePatterns builds the company and position frequency maps from
// membership rows. The first membership seen for a key decides the group the
// key maps to; every later membership sharing the key only increments the
// count.
func MinePatterns(rows []contacts.MembershipAttribute) PatternMaps {
	maps := PatternMaps{
		Company:  make(map[string]PatternEntry),
		Position: make(map[string]PatternEntry),
	}

	for _, row := range rows {
		addPattern(maps.Company, row.Company, row)
		addPattern(maps.Position, row.Position, row)
	}

	return maps
}

func addPattern(m map[string]PatternEntry, raw string, row contacts.MembershipAttribute) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return
	}
	entry, ok := m[key]
	if !ok {
		entry = PatternEntry{
			GroupID:    row.GroupID,
			GroupName:  row.GroupName,
			GroupColor: row.GroupColor,
		}
	}
	entry.Count++
	m[key] = entry
}

// Miner fetches membership attributes and mines pattern maps from them.
type Miner struct {
	store  contacts.Store
	logger logging.Logger
}

// NewMiner creates a Miner.
func NewMiner(store contacts.Store, logger logging.Logger) *Miner {
	return &Miner{
		store:  store,
		logger: logger.With(logging.F("component", "pattern_miner")),
	}
}

// Mine loads the user's memberships joined with contact attributes and
// builds fresh pattern maps.
func (m *Miner) Mine(ctx context.Context, userID string) (PatternMaps, error) {
	rows, err := m.store.ListMembershipAttributes(ctx, userID)
	if err != nil {
		m.logger.Error("pattern mining failed",
			logging.Err(err),
			logging.F("operation", "list_membership_attributes"),
			logging.F("user_id", userID))
		return PatternMaps{}, fmt.Errorf("listing membership attributes: %w", err)
	}

	maps := MinePatterns(rows)
	m.logger.Debug("pattern maps mined",
		logging.F("user_id", userID),
		logging.F("memberships", len(rows)),
		logging.F("company_keys", len(maps.Company)),
		logging.F("position_keys", len(maps.Position)))
	return maps, nil
}
