// Package contacts defines the contact data model and the Store contract the
// dedup and group-recommendation engines operate against.
package contacts

import (
	"strings"
	"time"
)

// ContactSummary is an immutable snapshot of a contact used for scanning and
// matching. It carries only the fields the engines compare; full child rows
// are loaded separately when a merge needs them.
type ContactSummary struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	GivenName  string   `json:"given_name"`
	FamilyName string   `json:"family_name"`
	Company    string   `json:"company,omitempty"`
	Position   string   `json:"position,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	AvatarRef  string   `json:"avatar_ref,omitempty"`
	Emails     []string `json:"emails,omitempty"`
	Phones     []string `json:"phones,omitempty"`
}

// FullName returns the display name for the contact.
func (c ContactSummary) FullName() string {
	return strings.TrimSpace(c.GivenName + " " + c.FamilyName)
}

// PhoneNumber is a phone child row with a stable identifier.
type PhoneNumber struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id"`
	Number    string `json:"number"`
	Label     string `json:"label,omitempty"`
}

// EmailAddress is an email child row with a stable identifier.
type EmailAddress struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id"`
	Address   string `json:"address"`
	Label     string `json:"label,omitempty"`
}

// SocialLink is a social profile child row.
type SocialLink struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id"`
	Network   string `json:"network"`
	URL       string `json:"url"`
}

// GroupMembership links a contact to a group.
type GroupMembership struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id"`
	GroupID   string `json:"group_id"`
}

// CustomFieldValue is a user-defined field child row.
type CustomFieldValue struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id"`
	FieldName string `json:"field_name"`
	Value     string `json:"value"`
}

// ContactFullSnapshot is the complete stored state of one contact, loaded only
// during a merge. Scalar fields live on the snapshot directly; child
// collections carry their own stable row identifiers.
type ContactFullSnapshot struct {
	ContactSummary

	Street                 string `json:"street,omitempty"`
	City                   string `json:"city,omitempty"`
	State                  string `json:"state,omitempty"`
	Zip                    string `json:"zip,omitempty"`
	Country                string `json:"country,omitempty"`
	Birthday               string `json:"birthday,omitempty"`
	PreferredContactMethod string `json:"preferred_contact_method,omitempty"`

	PhoneRows    []PhoneNumber      `json:"phone_rows,omitempty"`
	EmailRows    []EmailAddress     `json:"email_rows,omitempty"`
	SocialLinks  []SocialLink       `json:"social_links,omitempty"`
	Memberships  []GroupMembership  `json:"memberships,omitempty"`
	CustomFields []CustomFieldValue `json:"custom_fields,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScalarFields is the writable scalar portion of a contact record. A merge
// writes exactly this set back to the surviving contact.
type ScalarFields struct {
	Company                string `json:"company"`
	Position               string `json:"position"`
	Notes                  string `json:"notes"`
	AvatarRef              string `json:"avatar_ref"`
	Birthday               string `json:"birthday"`
	PreferredContactMethod string `json:"preferred_contact_method"`
	Street                 string `json:"street"`
	City                   string `json:"city"`
	State                  string `json:"state"`
	Zip                    string `json:"zip"`
	Country                string `json:"country"`
}

// Scalars extracts the writable scalar fields from a snapshot.
func (s *ContactFullSnapshot) Scalars() ScalarFields {
	return ScalarFields{
		Company:                s.Company,
		Position:               s.Position,
		Notes:                  s.Notes,
		AvatarRef:              s.AvatarRef,
		Birthday:               s.Birthday,
		PreferredContactMethod: s.PreferredContactMethod,
		Street:                 s.Street,
		City:                   s.City,
		State:                  s.State,
		Zip:                    s.Zip,
		Country:                s.Country,
	}
}

// GroupRecord describes a contact group.
type GroupRecord struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	MemberCount int    `json:"member_count"`
}

// MembershipAttribute is one group membership joined with the member
// contact's company and position. Input to the group pattern miner.
type MembershipAttribute struct {
	GroupID    string `json:"group_id"`
	GroupName  string `json:"group_name"`
	GroupColor string `json:"group_color,omitempty"`
	Company    string `json:"company,omitempty"`
	Position   string `json:"position,omitempty"`
}

// MembershipRow is the insert payload for one group membership.
type MembershipRow struct {
	UserID    string `json:"user_id"`
	ContactID string `json:"contact_id"`
	GroupID   string `json:"group_id"`
}

// ChildCollection names one of a contact's child row collections.
type ChildCollection string

const (
	CollectionPhones       ChildCollection = "phones"
	CollectionEmails       ChildCollection = "emails"
	CollectionSocialLinks  ChildCollection = "social_links"
	CollectionMemberships  ChildCollection = "group_memberships"
	CollectionCustomFields ChildCollection = "custom_fields"
)

// ChildRowSet carries the replacement rows for exactly one child collection.
// Only the slice matching Collection is read by the store.
type ChildRowSet struct {
	Collection   ChildCollection
	Phones       []PhoneNumber
	Emails       []EmailAddress
	SocialLinks  []SocialLink
	Memberships  []GroupMembership
	CustomFields []CustomFieldValue
}

// ChildRowSets expands a snapshot's child collections into the per-collection
// replacement sets a merge writes back.
func (s *ContactFullSnapshot) ChildRowSets() []ChildRowSet {
	return []ChildRowSet{
		{Collection: CollectionPhones, Phones: s.PhoneRows},
		{Collection: CollectionEmails, Emails: s.EmailRows},
		{Collection: CollectionSocialLinks, SocialLinks: s.SocialLinks},
		{Collection: CollectionMemberships, Memberships: s.Memberships},
		{Collection: CollectionCustomFields, CustomFields: s.CustomFields},
	}
}
