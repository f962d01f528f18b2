package dedup

import (
	"context"
	"fmt"

	"github.com/rkarimi/rolodex/pkg/cache"
	"github.com/rkarimi/rolodex/pkg/contacts"
	rxerrors "github.com/rkarimi/rolodex/pkg/errors"
	"github.com/rkarimi/rolodex/pkg/logging"
)

// Merger executes confirmed duplicate merges. A merge is a sequence of
// store calls with no enclosing transaction: a failure partway through
// leaves earlier calls committed. Lookup failures are caught before any
// mutation is attempted.
type Merger struct {
	store       contacts.Store
	invalidator cache.Invalidator
	notifier    contacts.Notifier
	logger      logging.Logger
}

// NewMerger creates a Merger.
func NewMerger(store contacts.Store, invalidator cache.Invalidator, notifier contacts.Notifier, logger logging.Logger) *Merger {
	return &Merger{
		store:       store,
		invalidator: invalidator,
		notifier:    notifier,
		logger:      logger.With(logging.F("component", "merge_executor")),
	}
}

// Merge merges the duplicate contact into the main contact and deletes the
// duplicate. The surviving record keeps its own child collections; only
// empty scalar fields are backfilled from the duplicate.
func (m *Merger) Merge(ctx context.Context, userID, mainID, dupID string) error {
	log := m.logger.With(
		logging.F("user_id", userID),
		logging.F("main_id", mainID),
		logging.F("duplicate_id", dupID))

	if mainID == dupID {
		return fmt.Errorf("%w: cannot merge a contact with itself", rxerrors.ErrValidation)
	}

	// Lookup phase. Either miss aborts before any mutation.
	main, err := m.store.GetFullContact(ctx, mainID)
	if err != nil {
		log.Error("merge aborted: main contact lookup failed",
			logging.Err(err), logging.F("operation", "get_full_contact"))
		return fmt.Errorf("fetching main contact %s: %w", mainID, err)
	}
	dup, err := m.store.GetFullContact(ctx, dupID)
	if err != nil {
		log.Error("merge aborted: duplicate contact lookup failed",
			logging.Err(err), logging.F("operation", "get_full_contact"))
		return fmt.Errorf("fetching duplicate contact %s: %w", dupID, err)
	}

	merged := MergeScalars(main, dup)

	// Mutation phase. Calls from here on are not rolled back on failure;
	// the store is left in whatever state the completed calls produced.
	if err := m.store.UpdateContactFields(ctx, mainID, merged); err != nil {
		return m.fail(log, "update_contact_fields", err)
	}

	for _, rows := range main.ChildRowSets() {
		if err := m.store.ReplaceChildRows(ctx, mainID, rows); err != nil {
			return m.fail(log, "replace_child_rows:"+string(rows.Collection), err)
		}
	}

	if err := m.store.DeleteContact(ctx, dupID); err != nil {
		return m.fail(log, "delete_contact", err)
	}

	m.invalidator.Invalidate(ctx, cache.PrefixContactList+userID)
	m.invalidator.Invalidate(ctx, cache.PrefixStats+userID)

	observeMerge(true)
	m.notifier.Notify(fmt.Sprintf("Merged %s into %s", dup.FullName(), main.FullName()), contacts.SeverityInfo)
	log.Info("merge complete")
	return nil
}

// fail reports a partial-mutation failure: earlier calls in the sequence
// stay committed.
func (m *Merger) fail(log logging.Logger, operation string, err error) error {
	observeMerge(false)
	log.Error("merge failed mid-sequence, earlier steps remain committed",
		logging.Err(err),
		logging.F("operation", operation))
	m.notifier.Notify("Merge failed: "+err.Error(), contacts.SeverityError)
	return fmt.Errorf("merge step %s: %w", operation, err)
}

// MergeScalars computes the surviving record's scalar fields: main's values,
// with each empty field backfilled from the duplicate. Child collections are
// not touched here — the merged record keeps main's own rows and nothing
// from the duplicate.
func MergeScalars(main, dup *contacts.ContactFullSnapshot) contacts.ScalarFields {
	merged := main.Scalars()
	fallback := dup.Scalars()

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&merged.Company, fallback.Company)
	fill(&merged.Position, fallback.Position)
	fill(&merged.Notes, fallback.Notes)
	fill(&merged.AvatarRef, fallback.AvatarRef)
	fill(&merged.Birthday, fallback.Birthday)
	fill(&merged.PreferredContactMethod, fallback.PreferredContactMethod)
	fill(&merged.Street, fallback.Street)
	fill(&merged.City, fallback.City)
	fill(&merged.State, fallback.State)
	fill(&merged.Zip, fallback.Zip)
	fill(&merged.Country, fallback.Country)

	return merged
}
