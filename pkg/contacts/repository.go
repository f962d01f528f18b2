package contacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	rxerrors "github.com/rkarimi/rolodex/pkg/errors"
	"github.com/rkarimi/rolodex/pkg/logging"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaks.
const uniqueViolation = "23505"

// Repository is the PostgreSQL implementation of Store.
type Repository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// Compile-time check that Repository satisfies Store.
var _ Store = (*Repository)(nil)

// NewRepository creates a contact repository over the given pool.
func NewRepository(pool *pgxpool.Pool, logger logging.Logger) *Repository {
	return &Repository{
		pool:   pool,
		logger: logger.With(logging.F("component", "contact_repository")),
	}
}

const summaryQuery = `
	SELECT
		c.id, c.user_id, c.given_name, c.family_name,
		COALESCE(c.company, ''), COALESCE(c.position, ''),
		COALESCE(c.notes, ''), COALESCE(c.avatar_ref, ''),
		COALESCE(array_agg(DISTINCT e.address) FILTER (WHERE e.address IS NOT NULL), '{}'),
		COALESCE(array_agg(DISTINCT p.number) FILTER (WHERE p.number IS NOT NULL), '{}')
	FROM contacts c
	LEFT JOIN contact_emails e ON e.contact_id = c.id
	LEFT JOIN contact_phones p ON p.contact_id = c.id
	WHERE c.user_id = $1
`

const summaryGroupOrder = `
	GROUP BY c.id
	ORDER BY c.family_name, c.given_name, c.id
`

// ListContactSummaries returns every contact for the user with its email and
// phone values aggregated for scanning.
func (r *Repository) ListContactSummaries(ctx context.Context, userID string) ([]ContactSummary, error) {
	rows, err := r.pool.Query(ctx, summaryQuery+summaryGroupOrder, userID)
	if err != nil {
		return nil, fmt.Errorf("querying contact summaries: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// ListUngroupedContacts returns contacts without any group membership.
func (r *Repository) ListUngroupedContacts(ctx context.Context, userID string) ([]ContactSummary, error) {
	query := summaryQuery + `
	AND NOT EXISTS (
		SELECT 1 FROM group_memberships gm WHERE gm.contact_id = c.id
	)` + summaryGroupOrder
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying ungrouped contacts: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func scanSummaries(rows pgx.Rows) ([]ContactSummary, error) {
	summaries := []ContactSummary{}
	for rows.Next() {
		var s ContactSummary
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.GivenName, &s.FamilyName,
			&s.Company, &s.Position, &s.Notes, &s.AvatarRef,
			&s.Emails, &s.Phones,
		); err != nil {
			return nil, fmt.Errorf("scanning contact summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact summaries: %w", err)
	}
	return summaries, nil
}

// GetFullContact loads one contact with all scalar fields and child rows.
func (r *Repository) GetFullContact(ctx context.Context, contactID string) (*ContactFullSnapshot, error) {
	query := `
		SELECT
			id, user_id, given_name, family_name,
			COALESCE(company, ''), COALESCE(position, ''),
			COALESCE(notes, ''), COALESCE(avatar_ref, ''),
			COALESCE(birthday, ''), COALESCE(preferred_contact_method, ''),
			COALESCE(street, ''), COALESCE(city, ''), COALESCE(state, ''),
			COALESCE(zip, ''), COALESCE(country, ''),
			created_at, updated_at
		FROM contacts
		WHERE id = $1
	`
	snap := &ContactFullSnapshot{}
	err := r.pool.QueryRow(ctx, query, contactID).Scan(
		&snap.ID, &snap.UserID, &snap.GivenName, &snap.FamilyName,
		&snap.Company, &snap.Position, &snap.Notes, &snap.AvatarRef,
		&snap.Birthday, &snap.PreferredContactMethod,
		&snap.Street, &snap.City, &snap.State, &snap.Zip, &snap.Country,
		&snap.CreatedAt, &snap.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("contact %s: %w", contactID, rxerrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying contact %s: %w", contactID, err)
	}

	if err := r.loadChildRows(ctx, snap); err != nil {
		return nil, err
	}

	// Summary convenience lists mirror the child rows.
	for _, e := range snap.EmailRows {
		snap.Emails = append(snap.Emails, e.Address)
	}
	for _, p := range snap.PhoneRows {
		snap.Phones = append(snap.Phones, p.Number)
	}
	return snap, nil
}

func (r *Repository) loadChildRows(ctx context.Context, snap *ContactFullSnapshot) error {
	phones, err := r.pool.Query(ctx,
		`SELECT id, contact_id, number, COALESCE(label, '') FROM contact_phones WHERE contact_id = $1 ORDER BY id`, snap.ID)
	if err != nil {
		return fmt.Errorf("querying phones: %w", err)
	}
	snap.PhoneRows, err = pgx.CollectRows(phones, pgx.RowToStructByPos[PhoneNumber])
	if err != nil {
		return fmt.Errorf("collecting phones: %w", err)
	}

	emails, err := r.pool.Query(ctx,
		`SELECT id, contact_id, address, COALESCE(label, '') FROM contact_emails WHERE contact_id = $1 ORDER BY id`, snap.ID)
	if err != nil {
		return fmt.Errorf("querying emails: %w", err)
	}
	snap.EmailRows, err = pgx.CollectRows(emails, pgx.RowToStructByPos[EmailAddress])
	if err != nil {
		return fmt.Errorf("collecting emails: %w", err)
	}

	links, err := r.pool.Query(ctx,
		`SELECT id, contact_id, network, url FROM contact_social_links WHERE contact_id = $1 ORDER BY id`, snap.ID)
	if err != nil {
		return fmt.Errorf("querying social links: %w", err)
	}
	snap.SocialLinks, err = pgx.CollectRows(links, pgx.RowToStructByPos[SocialLink])
	if err != nil {
		return fmt.Errorf("collecting social links: %w", err)
	}

	memberships, err := r.pool.Query(ctx,
		`SELECT id, contact_id, group_id FROM group_memberships WHERE contact_id = $1 ORDER BY id`, snap.ID)
	if err != nil {
		return fmt.Errorf("querying memberships: %w", err)
	}
	snap.Memberships, err = pgx.CollectRows(memberships, pgx.RowToStructByPos[GroupMembership])
	if err != nil {
		return fmt.Errorf("collecting memberships: %w", err)
	}

	fields, err := r.pool.Query(ctx,
		`SELECT id, contact_id, field_name, value FROM contact_field_values WHERE contact_id = $1 ORDER BY id`, snap.ID)
	if err != nil {
		return fmt.Errorf("querying custom fields: %w", err)
	}
	snap.CustomFields, err = pgx.CollectRows(fields, pgx.RowToStructByPos[CustomFieldValue])
	if err != nil {
		return fmt.Errorf("collecting custom fields: %w", err)
	}

	return nil
}

// ListMembershipAttributes returns every membership joined with the member
// contact's company and position.
func (r *Repository) ListMembershipAttributes(ctx context.Context, userID string) ([]MembershipAttribute, error) {
	query := `
		SELECT g.id, g.name, COALESCE(g.color, ''),
			COALESCE(c.company, ''), COALESCE(c.position, '')
		FROM group_memberships gm
		JOIN contact_groups g ON g.id = gm.group_id
		JOIN contacts c ON c.id = gm.contact_id
		WHERE gm.user_id = $1
		ORDER BY gm.created_at, gm.id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying membership attributes: %w", err)
	}
	attrs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[MembershipAttribute])
	if err != nil {
		return nil, fmt.Errorf("collecting membership attributes: %w", err)
	}
	return attrs, nil
}

// ListGroups returns all groups for the user with live member counts.
func (r *Repository) ListGroups(ctx context.Context, userID string) ([]GroupRecord, error) {
	query := `
		SELECT g.id, g.user_id, g.name, COALESCE(g.color, ''), COUNT(gm.id)
		FROM contact_groups g
		LEFT JOIN group_memberships gm ON gm.group_id = g.id
		WHERE g.user_id = $1
		GROUP BY g.id
		ORDER BY g.name, g.id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	groups, err := pgx.CollectRows(rows, pgx.RowToStructByPos[GroupRecord])
	if err != nil {
		return nil, fmt.Errorf("collecting groups: %w", err)
	}
	return groups, nil
}

// UpdateContactFields writes the scalar fields of one contact. Empty strings
// are stored as NULL.
func (r *Repository) UpdateContactFields(ctx context.Context, contactID string, fields ScalarFields) error {
	query := `
		UPDATE contacts SET
			company = NULLIF($2, ''),
			position = NULLIF($3, ''),
			notes = NULLIF($4, ''),
			avatar_ref = NULLIF($5, ''),
			birthday = NULLIF($6, ''),
			preferred_contact_method = NULLIF($7, ''),
			street = NULLIF($8, ''),
			city = NULLIF($9, ''),
			state = NULLIF($10, ''),
			zip = NULLIF($11, ''),
			country = NULLIF($12, ''),
			updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, contactID,
		fields.Company, fields.Position, fields.Notes, fields.AvatarRef,
		fields.Birthday, fields.PreferredContactMethod,
		fields.Street, fields.City, fields.State, fields.Zip, fields.Country)
	if err != nil {
		return fmt.Errorf("updating contact %s: %w", contactID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contact %s: %w", contactID, rxerrors.ErrNotFound)
	}

	r.logger.Debug("contact scalar fields updated", logging.F("contact_id", contactID))
	return nil
}

// ReplaceChildRows deletes the stored rows of one child collection and
// re-inserts the given set. Delete and insert run in one transaction, so a
// single replacement is atomic; the merge sequence across collections is not.
func (r *Repository) ReplaceChildRows(ctx context.Context, contactID string, rows ChildRowSet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning replace of %s: %w", rows.Collection, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := replaceCollection(ctx, tx, contactID, rows); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing replace of %s: %w", rows.Collection, err)
	}

	r.logger.Debug("child rows replaced",
		logging.F("contact_id", contactID),
		logging.F("collection", string(rows.Collection)))
	return nil
}

func replaceCollection(ctx context.Context, tx pgx.Tx, contactID string, rows ChildRowSet) error {
	var table string
	switch rows.Collection {
	case CollectionPhones:
		table = "contact_phones"
	case CollectionEmails:
		table = "contact_emails"
	case CollectionSocialLinks:
		table = "contact_social_links"
	case CollectionMemberships:
		table = "group_memberships"
	case CollectionCustomFields:
		table = "contact_field_values"
	default:
		return fmt.Errorf("%w: unknown child collection %q", rxerrors.ErrValidation, rows.Collection)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE contact_id = $1", table), contactID); err != nil {
		return fmt.Errorf("deleting %s rows: %w", rows.Collection, err)
	}

	switch rows.Collection {
	case CollectionPhones:
		for _, p := range rows.Phones {
			if _, err := tx.Exec(ctx,
				`INSERT INTO contact_phones (id, contact_id, number, label) VALUES ($1, $2, $3, NULLIF($4, ''))`,
				rowID(p.ID), contactID, p.Number, p.Label); err != nil {
				return fmt.Errorf("inserting phone row: %w", err)
			}
		}
	case CollectionEmails:
		for _, e := range rows.Emails {
			if _, err := tx.Exec(ctx,
				`INSERT INTO contact_emails (id, contact_id, address, label) VALUES ($1, $2, $3, NULLIF($4, ''))`,
				rowID(e.ID), contactID, e.Address, e.Label); err != nil {
				return fmt.Errorf("inserting email row: %w", err)
			}
		}
	case CollectionSocialLinks:
		for _, l := range rows.SocialLinks {
			if _, err := tx.Exec(ctx,
				`INSERT INTO contact_social_links (id, contact_id, network, url) VALUES ($1, $2, $3, $4)`,
				rowID(l.ID), contactID, l.Network, l.URL); err != nil {
				return fmt.Errorf("inserting social link row: %w", err)
			}
		}
	case CollectionMemberships:
		for _, m := range rows.Memberships {
			if _, err := tx.Exec(ctx,
				`INSERT INTO group_memberships (id, user_id, contact_id, group_id)
				 SELECT $1, c.user_id, $2, $3 FROM contacts c WHERE c.id = $2`,
				rowID(m.ID), contactID, m.GroupID); err != nil {
				return fmt.Errorf("inserting membership row: %w", err)
			}
		}
	case CollectionCustomFields:
		for _, f := range rows.CustomFields {
			if _, err := tx.Exec(ctx,
				`INSERT INTO contact_field_values (id, contact_id, field_name, value) VALUES ($1, $2, $3, $4)`,
				rowID(f.ID), contactID, f.FieldName, f.Value); err != nil {
				return fmt.Errorf("inserting custom field row: %w", err)
			}
		}
	}
	return nil
}

// rowID keeps an existing stable row id or mints a new one.
func rowID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// DeleteContact removes the contact record. Child rows cascade via foreign
// keys.
func (r *Repository) DeleteContact(ctx context.Context, contactID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, contactID)
	if err != nil {
		return fmt.Errorf("deleting contact %s: %w", contactID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contact %s: %w", contactID, rxerrors.ErrNotFound)
	}

	r.logger.Debug("contact deleted", logging.F("contact_id", contactID))
	return nil
}

// InsertGroupMembership adds one contact to one group.
func (r *Repository) InsertGroupMembership(ctx context.Context, userID, contactID, groupID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO group_memberships (id, user_id, contact_id, group_id) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), userID, contactID, groupID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("contact %s already in group %s: %w", contactID, groupID, rxerrors.ErrAlreadyExists)
		}
		return fmt.Errorf("inserting group membership: %w", err)
	}

	r.logger.Debug("group membership inserted",
		logging.F("contact_id", contactID),
		logging.F("group_id", groupID))
	return nil
}

// BatchInsertGroupMemberships inserts every row in a single statement, so the
// batch is all-or-nothing.
func (r *Repository) BatchInsertGroupMemberships(ctx context.Context, rows []MembershipRow) error {
	if len(rows) == 0 {
		return nil
	}

	ids := make([]string, len(rows))
	userIDs := make([]string, len(rows))
	contactIDs := make([]string, len(rows))
	groupIDs := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = uuid.New().String()
		userIDs[i] = row.UserID
		contactIDs[i] = row.ContactID
		groupIDs[i] = row.GroupID
	}

	query := `
		INSERT INTO group_memberships (id, user_id, contact_id, group_id)
		SELECT * FROM unnest($1::text[], $2::text[], $3::text[], $4::text[])
	`
	if _, err := r.pool.Exec(ctx, query, ids, userIDs, contactIDs, groupIDs); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// The whole statement rolls back, so one existing membership
			// conflicts the entire batch.
			return fmt.Errorf("batch contains an existing membership: %w", rxerrors.ErrConflict)
		}
		return fmt.Errorf("batch inserting %d group memberships: %w", len(rows), err)
	}

	r.logger.Debug("group memberships batch inserted", logging.F("rows", len(rows)))
	return nil
}
