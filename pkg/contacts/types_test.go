package contacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullName(t *testing.T) {
	tests := []struct {
		name    string
		contact ContactSummary
		want    string
	}{
		{"both names", ContactSummary{GivenName: "Ali", FamilyName: "Rezaei"}, "Ali Rezaei"},
		{"given only", ContactSummary{GivenName: "Ali"}, "Ali"},
		{"family only", ContactSummary{FamilyName: "Rezaei"}, "Rezaei"},
		{"empty", ContactSummary{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.contact.FullName())
		})
	}
}

func TestScalarsRoundTrip(t *testing.T) {
	snap := &ContactFullSnapshot{
		ContactSummary: ContactSummary{Company: "Acme", Position: "Engineer", Notes: "n", AvatarRef: "a"},
		Street:         "Main St", City: "Tehran", State: "TH", Zip: "12345", Country: "IR",
		Birthday: "1990-04-12", PreferredContactMethod: "email",
	}

	fields := snap.Scalars()

	assert.Equal(t, "Acme", fields.Company)
	assert.Equal(t, "Engineer", fields.Position)
	assert.Equal(t, "Tehran", fields.City)
	assert.Equal(t, "1990-04-12", fields.Birthday)
	assert.Equal(t, "email", fields.PreferredContactMethod)
}

func TestChildRowSetsCoverEveryCollection(t *testing.T) {
	snap := &ContactFullSnapshot{
		PhoneRows:    []PhoneNumber{{Number: "111"}},
		EmailRows:    []EmailAddress{{Address: "a@x.com"}},
		CustomFields: []CustomFieldValue{{FieldName: "f", Value: "v"}},
	}

	sets := snap.ChildRowSets()

	seen := map[ChildCollection]bool{}
	for _, s := range sets {
		seen[s.Collection] = true
	}
	for _, c := range []ChildCollection{
		CollectionPhones, CollectionEmails, CollectionSocialLinks,
		CollectionMemberships, CollectionCustomFields,
	} {
		assert.True(t, seen[c], "missing collection %s", c)
	}

	assert.Len(t, sets[0].Phones, 1)
	assert.Len(t, sets[1].Emails, 1)
	assert.Empty(t, sets[2].SocialLinks)
}
