package dedup

import (
	"context"
	"fmt"

	"github.com/rkarimi/rolodex/pkg/contacts"
)

// fakeStore implements contacts.Store with overridable behavior per method
// and an ordered call log for asserting mutation sequences.
type fakeStore struct {
	calls []string

	summaries map[string][]contacts.ContactSummary
	full      map[string]*contacts.ContactFullSnapshot

	listErr    error
	getErr     map[string]error
	updateErr  error
	replaceErr map[contacts.ChildCollection]error
	deleteErr  error

	updatedFields map[string]contacts.ScalarFields
	replacedRows  map[contacts.ChildCollection]contacts.ChildRowSet
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		summaries:     map[string][]contacts.ContactSummary{},
		full:          map[string]*contacts.ContactFullSnapshot{},
		getErr:        map[string]error{},
		replaceErr:    map[contacts.ChildCollection]error{},
		updatedFields: map[string]contacts.ScalarFields{},
		replacedRows:  map[contacts.ChildCollection]contacts.ChildRowSet{},
	}
}

func (f *fakeStore) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeStore) ListContactSummaries(ctx context.Context, userID string) ([]contacts.ContactSummary, error) {
	f.record("list_contact_summaries:%s", userID)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.summaries[userID], nil
}

func (f *fakeStore) GetFullContact(ctx context.Context, contactID string) (*contacts.ContactFullSnapshot, error) {
	f.record("get_full_contact:%s", contactID)
	if err := f.getErr[contactID]; err != nil {
		return nil, err
	}
	return f.full[contactID], nil
}

func (f *fakeStore) ListUngroupedContacts(ctx context.Context, userID string) ([]contacts.ContactSummary, error) {
	f.record("list_ungrouped_contacts:%s", userID)
	return nil, nil
}

func (f *fakeStore) ListMembershipAttributes(ctx context.Context, userID string) ([]contacts.MembershipAttribute, error) {
	f.record("list_membership_attributes:%s", userID)
	return nil, nil
}

func (f *fakeStore) ListGroups(ctx context.Context, userID string) ([]contacts.GroupRecord, error) {
	f.record("list_groups:%s", userID)
	return nil, nil
}

func (f *fakeStore) UpdateContactFields(ctx context.Context, contactID string, fields contacts.ScalarFields) error {
	f.record("update_contact_fields:%s", contactID)
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedFields[contactID] = fields
	return nil
}

func (f *fakeStore) ReplaceChildRows(ctx context.Context, contactID string, rows contacts.ChildRowSet) error {
	f.record("replace_child_rows:%s:%s", contactID, rows.Collection)
	if err := f.replaceErr[rows.Collection]; err != nil {
		return err
	}
	f.replacedRows[rows.Collection] = rows
	return nil
}

func (f *fakeStore) DeleteContact(ctx context.Context, contactID string) error {
	f.record("delete_contact:%s", contactID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return nil
}

func (f *fakeStore) InsertGroupMembership(ctx context.Context, userID, contactID, groupID string) error {
	f.record("insert_group_membership:%s:%s", contactID, groupID)
	return nil
}

func (f *fakeStore) BatchInsertGroupMemberships(ctx context.Context, rows []contacts.MembershipRow) error {
	f.record("batch_insert_group_memberships:%d", len(rows))
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
