//go:build integration

package contacts

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rxerrors "github.com/rkarimi/rolodex/pkg/errors"
	"github.com/rkarimi/rolodex/pkg/logging"
)

// setupTestRepo connects to the database named by ROLODEX_TEST_DATABASE_URL,
// ensures the schema, and returns a repository scoped to a throwaway user.
// Skips when no test database is configured.
func setupTestRepo(t *testing.T) (*Repository, string) {
	t.Helper()

	connStr := os.Getenv("ROLODEX_TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("ROLODEX_TEST_DATABASE_URL not set - skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, pool.Ping(ctx), "failed to ping test database")
	require.NoError(t, EnsureSchema(ctx, pool))

	userID := "it-" + uuid.New().String()
	t.Cleanup(func() {
		pool.Exec(ctx, `DELETE FROM contacts WHERE user_id = $1`, userID)       //nolint:errcheck
		pool.Exec(ctx, `DELETE FROM contact_groups WHERE user_id = $1`, userID) //nolint:errcheck
		pool.Close()
	})

	return NewRepository(pool, logging.NewNopLogger()), userID
}

func seedContact(t *testing.T, repo *Repository, userID, given, family, company string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := repo.pool.Exec(context.Background(),
		`INSERT INTO contacts (id, user_id, given_name, family_name, company) VALUES ($1, $2, $3, $4, NULLIF($5, ''))`,
		id, userID, given, family, company)
	require.NoError(t, err)
	return id
}

func seedGroup(t *testing.T, repo *Repository, userID, name string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := repo.pool.Exec(context.Background(),
		`INSERT INTO contact_groups (id, user_id, name) VALUES ($1, $2, $3)`,
		id, userID, name)
	require.NoError(t, err)
	return id
}

func TestRepositoryContactRoundTrip_Integration(t *testing.T) {
	repo, userID := setupTestRepo(t)
	ctx := context.Background()

	contactID := seedContact(t, repo, userID, "Ali", "Rezaei", "Acme")
	require.NoError(t, repo.ReplaceChildRows(ctx, contactID, ChildRowSet{
		Collection: CollectionPhones,
		Phones:     []PhoneNumber{{ContactID: contactID, Number: "09121234567", Label: "mobile"}},
	}))
	require.NoError(t, repo.ReplaceChildRows(ctx, contactID, ChildRowSet{
		Collection: CollectionEmails,
		Emails:     []EmailAddress{{ContactID: contactID, Address: "ali@x.com"}},
	}))

	summaries, err := repo.ListContactSummaries(ctx, userID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Acme", summaries[0].Company)
	assert.Equal(t, []string{"ali@x.com"}, summaries[0].Emails)
	assert.Equal(t, []string{"09121234567"}, summaries[0].Phones)

	snap, err := repo.GetFullContact(ctx, contactID)
	require.NoError(t, err)
	assert.Equal(t, "Ali Rezaei", snap.FullName())
	require.Len(t, snap.PhoneRows, 1)
	assert.Equal(t, "mobile", snap.PhoneRows[0].Label)
}

func TestRepositoryGetFullContactNotFound_Integration(t *testing.T) {
	repo, _ := setupTestRepo(t)

	_, err := repo.GetFullContact(context.Background(), uuid.New().String())

	require.Error(t, err)
	assert.True(t, rxerrors.IsNotFound(err))
}

func TestRepositoryUpdateContactFields_Integration(t *testing.T) {
	repo, userID := setupTestRepo(t)
	ctx := context.Background()

	contactID := seedContact(t, repo, userID, "Sara", "Karimi", "")
	err := repo.UpdateContactFields(ctx, contactID, ScalarFields{
		Company: "Acme",
		City:    "Tehran",
	})
	require.NoError(t, err)

	snap, err := repo.GetFullContact(ctx, contactID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", snap.Company)
	assert.Equal(t, "Tehran", snap.City)
	// Fields written empty read back empty through the NULL round trip.
	assert.Equal(t, "", snap.Notes)

	err = repo.UpdateContactFields(ctx, uuid.New().String(), ScalarFields{})
	assert.True(t, rxerrors.IsNotFound(err))
}

func TestRepositoryDeleteCascades_Integration(t *testing.T) {
	repo, userID := setupTestRepo(t)
	ctx := context.Background()

	contactID := seedContact(t, repo, userID, "Reza", "Moradi", "")
	require.NoError(t, repo.ReplaceChildRows(ctx, contactID, ChildRowSet{
		Collection: CollectionPhones,
		Phones:     []PhoneNumber{{ContactID: contactID, Number: "111"}},
	}))

	require.NoError(t, repo.DeleteContact(ctx, contactID))

	var phoneCount int
	err := repo.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contact_phones WHERE contact_id = $1`, contactID).Scan(&phoneCount)
	require.NoError(t, err)
	assert.Zero(t, phoneCount)

	assert.True(t, rxerrors.IsNotFound(repo.DeleteContact(ctx, contactID)))
}

func TestRepositoryGroupMemberships_Integration(t *testing.T) {
	repo, userID := setupTestRepo(t)
	ctx := context.Background()

	c1 := seedContact(t, repo, userID, "Ali", "Rezaei", "Acme")
	c2 := seedContact(t, repo, userID, "Sara", "Karimi", "Acme")
	groupID := seedGroup(t, repo, userID, "Work")

	require.NoError(t, repo.InsertGroupMembership(ctx, userID, c1, groupID))

	// Second insert of the same pair trips the unique constraint.
	err := repo.InsertGroupMembership(ctx, userID, c1, groupID)
	require.Error(t, err)
	assert.True(t, rxerrors.IsAlreadyExists(err))

	ungrouped, err := repo.ListUngroupedContacts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, ungrouped, 1)
	assert.Equal(t, c2, ungrouped[0].ID)

	attrs, err := repo.ListMembershipAttributes(ctx, userID)
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "Work", attrs[0].GroupName)
	assert.Equal(t, "Acme", attrs[0].Company)

	require.NoError(t, repo.BatchInsertGroupMemberships(ctx, []MembershipRow{
		{UserID: userID, ContactID: c2, GroupID: groupID},
	}))

	// A batch that collides with a stored membership conflicts as a whole:
	// the single statement rolls back every row.
	err = repo.BatchInsertGroupMemberships(ctx, []MembershipRow{
		{UserID: userID, ContactID: c2, GroupID: groupID},
	})
	require.Error(t, err)
	assert.True(t, rxerrors.IsConflict(err))

	groups, err := repo.ListGroups(ctx, userID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].MemberCount)
}
