package contacts

import (
	"context"

	"github.com/rkarimi/rolodex/pkg/logging"
)

// Store is the contact-store contract consumed by the dedup and group
// engines. Implementations own persistence and referential integrity;
// the engines only sequence calls against it.
//
// GetFullContact returns errors.ErrNotFound (wrapped) when the contact does
// not exist. All other methods surface transport and store errors as-is.
type Store interface {
	// ListContactSummaries returns every contact for the user, for scanning.
	ListContactSummaries(ctx context.Context, userID string) ([]ContactSummary, error)

	// GetFullContact loads the complete stored state of one contact.
	GetFullContact(ctx context.Context, contactID string) (*ContactFullSnapshot, error)

	// ListUngroupedContacts returns contacts with no group membership.
	ListUngroupedContacts(ctx context.Context, userID string) ([]ContactSummary, error)

	// ListMembershipAttributes returns every group membership joined with the
	// member contact's company and position.
	ListMembershipAttributes(ctx context.Context, userID string) ([]MembershipAttribute, error)

	// ListGroups returns all of the user's groups with member counts.
	ListGroups(ctx context.Context, userID string) ([]GroupRecord, error)

	// UpdateContactFields writes the scalar fields of one contact.
	UpdateContactFields(ctx context.Context, contactID string, fields ScalarFields) error

	// ReplaceChildRows deletes all stored rows of one child collection and
	// re-inserts the given set, as a single round trip.
	ReplaceChildRows(ctx context.Context, contactID string, rows ChildRowSet) error

	// DeleteContact removes the contact record; child rows go with it per the
	// store's referential rules.
	DeleteContact(ctx context.Context, contactID string) error

	// InsertGroupMembership adds one contact to one group.
	InsertGroupMembership(ctx context.Context, userID, contactID, groupID string) error

	// BatchInsertGroupMemberships inserts every row in one statement.
	// Atomicity is whatever the store's bulk insert provides.
	BatchInsertGroupMemberships(ctx context.Context, rows []MembershipRow) error
}

// Severity classifies a user-facing notification.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Notifier receives human-readable outcome messages. The UI layer renders
// them; the engines only supply the text.
type Notifier interface {
	Notify(msg string, severity Severity)
}

// LogNotifier routes notifications to the structured log. Default sink when
// no UI is attached.
type LogNotifier struct {
	Logger logging.Logger
}

// Notify logs the message at a level matching its severity.
func (n LogNotifier) Notify(msg string, severity Severity) {
	switch severity {
	case SeverityError:
		n.Logger.Error(msg)
	case SeverityWarn:
		n.Logger.Warn(msg)
	default:
		n.Logger.Info(msg)
	}
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(msg string, severity Severity) {}
