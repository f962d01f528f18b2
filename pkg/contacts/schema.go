package contacts

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is the contact-store DDL. Idempotent so it can run on every start.
const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	given_name TEXT NOT NULL DEFAULT '',
	family_name TEXT NOT NULL DEFAULT '',
	company TEXT,
	position TEXT,
	notes TEXT,
	avatar_ref TEXT,
	birthday TEXT,
	preferred_contact_method TEXT,
	street TEXT,
	city TEXT,
	state TEXT,
	zip TEXT,
	country TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_contacts_user ON contacts (user_id);

CREATE TABLE IF NOT EXISTS contact_phones (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL REFERENCES contacts (id) ON DELETE CASCADE,
	number TEXT NOT NULL,
	label TEXT
);

CREATE INDEX IF NOT EXISTS idx_contact_phones_contact ON contact_phones (contact_id);

CREATE TABLE IF NOT EXISTS contact_emails (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL REFERENCES contacts (id) ON DELETE CASCADE,
	address TEXT NOT NULL,
	label TEXT
);

CREATE INDEX IF NOT EXISTS idx_contact_emails_contact ON contact_emails (contact_id);

CREATE TABLE IF NOT EXISTS contact_social_links (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL REFERENCES contacts (id) ON DELETE CASCADE,
	network TEXT NOT NULL,
	url TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS contact_groups (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	color TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_contact_groups_user ON contact_groups (user_id);

CREATE TABLE IF NOT EXISTS group_memberships (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	contact_id TEXT NOT NULL REFERENCES contacts (id) ON DELETE CASCADE,
	group_id TEXT NOT NULL REFERENCES contact_groups (id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (contact_id, group_id)
);

CREATE TABLE IF NOT EXISTS contact_field_values (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL REFERENCES contacts (id) ON DELETE CASCADE,
	field_name TEXT NOT NULL,
	value TEXT NOT NULL
);
`

// EnsureSchema creates the contact-store tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensuring contact schema: %w", err)
	}
	return nil
}
