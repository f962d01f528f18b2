package groups

import (
	"context"
	"fmt"
	"strings"

	"github.com/rkarimi/rolodex/pkg/contacts"
)

// fakeStore implements contacts.Store for suggestion tests. Behavior is
// configured per field; every call is appended to an ordered log.
type fakeStore struct {
	calls []string

	memberships []contacts.MembershipAttribute
	ungrouped   []contacts.ContactSummary
	groups      []contacts.GroupRecord

	membershipsErr error
	ungroupedErr   error
	insertErr      error
	batchErr       error

	batchRows []contacts.MembershipRow
}

func (f *fakeStore) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeStore) ListContactSummaries(ctx context.Context, userID string) ([]contacts.ContactSummary, error) {
	f.record("list_contact_summaries:%s", userID)
	return nil, nil
}

func (f *fakeStore) GetFullContact(ctx context.Context, contactID string) (*contacts.ContactFullSnapshot, error) {
	f.record("get_full_contact:%s", contactID)
	return nil, nil
}

func (f *fakeStore) ListUngroupedContacts(ctx context.Context, userID string) ([]contacts.ContactSummary, error) {
	f.record("list_ungrouped_contacts:%s", userID)
	if f.ungroupedErr != nil {
		return nil, f.ungroupedErr
	}
	return f.ungrouped, nil
}

func (f *fakeStore) ListMembershipAttributes(ctx context.Context, userID string) ([]contacts.MembershipAttribute, error) {
	f.record("list_membership_attributes:%s", userID)
	if f.membershipsErr != nil {
		return nil, f.membershipsErr
	}
	return f.memberships, nil
}

func (f *fakeStore) ListGroups(ctx context.Context, userID string) ([]contacts.GroupRecord, error) {
	f.record("list_groups:%s", userID)
	return f.groups, nil
}

func (f *fakeStore) UpdateContactFields(ctx context.Context, contactID string, fields contacts.ScalarFields) error {
	f.record("update_contact_fields:%s", contactID)
	return nil
}

func (f *fakeStore) ReplaceChildRows(ctx context.Context, contactID string, rows contacts.ChildRowSet) error {
	f.record("replace_child_rows:%s:%s", contactID, rows.Collection)
	return nil
}

func (f *fakeStore) DeleteContact(ctx context.Context, contactID string) error {
	f.record("delete_contact:%s", contactID)
	return nil
}

func (f *fakeStore) InsertGroupMembership(ctx context.Context, userID, contactID, groupID string) error {
	f.record("insert_group_membership:%s:%s", contactID, groupID)
	return f.insertErr
}

func (f *fakeStore) BatchInsertGroupMemberships(ctx context.Context, rows []contacts.MembershipRow) error {
	f.record("batch_insert_group_memberships:%d", len(rows))
	if f.batchErr != nil {
		return f.batchErr
	}
	f.batchRows = rows
	return nil
}

var _ contacts.Store = (*fakeStore)(nil)

// fakeInvalidator records invalidated prefixes.
type fakeInvalidator struct {
	prefixes []string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, prefix string) {
	f.prefixes = append(f.prefixes, prefix)
}

// mutationCalls filters the call log down to mutating store operations.
func (f *fakeStore) mutationCalls() []string {
	var out []string
	for _, c := range f.calls {
		if !strings.HasPrefix(c, "list_") {
			out = append(out, c)
		}
	}
	return out
}
