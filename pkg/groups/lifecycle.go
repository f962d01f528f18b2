package groups

import (
	"context"
	"fmt"

	"github.com/rkarimi/rolodex/pkg/cache"
	"github.com/rkarimi/rolodex/pkg/contacts"
	rxerrors "github.com/rkarimi/rolodex/pkg/errors"
	"github.com/rkarimi/rolodex/pkg/logging"
)

// Manager owns the in-memory suggestion bundles for one caller session and
// applies or discards them. State is rebuilt on every Generate call
// (last-write-wins, no merging of overlapping runs) and is not protected by
// locks: one logical operation per session is assumed.
//
// Discards are never persisted. A regenerated suggestion set can resurface a
// previously discarded recommendation.
type Manager struct {
	store       contacts.Store
	invalidator cache.Invalidator
	notifier    contacts.Notifier
	logger      logging.Logger
	generator   *Generator

	userID    string
	bundles   []SuggestionBundle
	ungrouped []contacts.ContactSummary
}

// NewManager creates a suggestion lifecycle manager for one user session.
func NewManager(store contacts.Store, invalidator cache.Invalidator, notifier contacts.Notifier, logger logging.Logger, userID string) *Manager {
	return &Manager{
		store:       store,
		invalidator: invalidator,
		notifier:    notifier,
		logger:      logger.With(logging.F("component", "suggestion_lifecycle"), logging.F("user_id", userID)),
		generator:   NewGenerator(store, logger),
		userID:      userID,
	}
}

// Generate rebuilds the suggestion set from scratch, replacing any previous
// bundles.
func (m *Manager) Generate(ctx context.Context) (*SuggestionSet, error) {
	set, err := m.generator.Generate(ctx, m.userID)
	if err != nil {
		return nil, err
	}
	m.bundles = set.Bundles
	return set, nil
}

// Bundles returns the current working set.
func (m *Manager) Bundles() []SuggestionBundle {
	return m.bundles
}

// ApplyOne persists the suggestion identified by (contactID, priority) as a
// group membership, then retires it from the working set. On failure the
// suggestion stays in place.
func (m *Manager) ApplyOne(ctx context.Context, contactID string, priority int) error {
	suggestion, ok := m.find(contactID, priority)
	if !ok {
		return fmt.Errorf("%w: no suggestion for contact %s priority %d", rxerrors.ErrNotFound, contactID, priority)
	}

	if err := m.store.InsertGroupMembership(ctx, m.userID, contactID, suggestion.GroupID); err != nil {
		m.logger.Error("apply suggestion failed",
			logging.Err(err),
			logging.F("operation", "insert_group_membership"),
			logging.F("contact_id", contactID),
			logging.F("group_id", suggestion.GroupID))
		m.notifier.Notify("Could not add contact to group: "+err.Error(), contacts.SeverityError)
		return fmt.Errorf("inserting group membership: %w", err)
	}

	m.remove(contactID, priority)
	m.invalidator.Invalidate(ctx, cache.PrefixContactList+m.userID)
	m.refreshUngrouped(ctx)
	observeLifecycle("applied")

	m.notifier.Notify(
		fmt.Sprintf("Added %s to %s", suggestion.ContactName, suggestion.GroupName),
		contacts.SeverityInfo)
	return nil
}

// DiscardOne drops the suggestion identified by (contactID, priority) from
// the working set. Purely in-memory: no store call is made and the decision
// is not persisted.
func (m *Manager) DiscardOne(contactID string, priority int) error {
	if _, ok := m.find(contactID, priority); !ok {
		return fmt.Errorf("%w: no suggestion for contact %s priority %d", rxerrors.ErrNotFound, contactID, priority)
	}
	m.remove(contactID, priority)
	observeLifecycle("discarded")
	return nil
}

// ApplyAll inserts a membership row for every current suggestion in one
// batch call, then clears the working set. Atomicity is the store's bulk
// insert semantics: one statement, not independently retryable per row.
// Returns the number of rows applied.
func (m *Manager) ApplyAll(ctx context.Context) (int, error) {
	var rows []contacts.MembershipRow
	for _, b := range m.bundles {
		for _, s := range b.Suggestions {
			rows = append(rows, contacts.MembershipRow{
				UserID:    m.userID,
				ContactID: s.ContactID,
				GroupID:   s.GroupID,
			})
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if err := m.store.BatchInsertGroupMemberships(ctx, rows); err != nil {
		m.logger.Error("apply all suggestions failed",
			logging.Err(err),
			logging.F("operation", "batch_insert_group_memberships"),
			logging.F("rows", len(rows)))
		m.notifier.Notify("Could not apply suggestions: "+err.Error(), contacts.SeverityError)
		return 0, fmt.Errorf("batch inserting group memberships: %w", err)
	}

	m.bundles = nil
	m.invalidator.Invalidate(ctx, cache.PrefixContactList+m.userID)
	m.invalidator.Invalidate(ctx, cache.PrefixGroups+m.userID)
	m.refreshUngrouped(ctx)
	for range rows {
		observeLifecycle("applied")
	}

	m.notifier.Notify(fmt.Sprintf("Applied %d suggestion(s)", len(rows)), contacts.SeverityInfo)
	return len(rows), nil
}

// find locates a suggestion by contact id and priority.
func (m *Manager) find(contactID string, priority int) (GroupSuggestion, bool) {
	for _, b := range m.bundles {
		if b.ContactID != contactID {
			continue
		}
		for _, s := range b.Suggestions {
			if s.Priority == priority {
				return s, true
			}
		}
	}
	return GroupSuggestion{}, false
}

// remove deletes a suggestion from its bundle, dropping the bundle entirely
// if it becomes empty.
func (m *Manager) remove(contactID string, priority int) {
	for bi, b := range m.bundles {
		if b.ContactID != contactID {
			continue
		}
		kept := b.Suggestions[:0]
		for _, s := range b.Suggestions {
			if s.Priority != priority {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			m.bundles = append(m.bundles[:bi], m.bundles[bi+1:]...)
		} else {
			m.bundles[bi].Suggestions = kept
		}
		return
	}
}

// refreshUngrouped reloads the ungrouped contact set after a successful
// apply. Best-effort: a failure here only logs.
func (m *Manager) refreshUngrouped(ctx context.Context) {
	ungrouped, err := m.store.ListUngroupedContacts(ctx, m.userID)
	if err != nil {
		m.logger.Warn("refreshing ungrouped contacts failed", logging.Err(err))
		return
	}
	m.ungrouped = ungrouped
}

// Ungrouped returns the ungrouped contact set as of the last refresh.
func (m *Manager) Ungrouped() []contacts.ContactSummary {
	return m.ungrouped
}
