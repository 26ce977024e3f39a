// internal/db/migrate.go
package db

import "database/sql"

// Migrate creates the schema. Statements are idempotent so Init can run it
// on every boot.
func Migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS organizations (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS business_profiles (
		organization_id INT PRIMARY KEY REFERENCES organizations(id),
		summary TEXT NOT NULL DEFAULT '',
		value_props TEXT NOT NULL DEFAULT '',
		tone TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS message_templates (
		id SERIAL PRIMARY KEY,
		organization_id INT NOT NULL REFERENCES organizations(id),
		name TEXT NOT NULL,
		subject TEXT NOT NULL,
		body TEXT NOT NULL,
		follow_up TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS campaigns (
		id SERIAL PRIMARY KEY,
		organization_id INT NOT NULL REFERENCES organizations(id),
		name TEXT NOT NULL,
		keywords TEXT[] NOT NULL DEFAULT '{}',
		target_communities TEXT[] NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS monitors (
		id SERIAL PRIMARY KEY,
		campaign_id INT NOT NULL UNIQUE REFERENCES campaigns(id),
		organization_id INT NOT NULL REFERENCES organizations(id),
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		check_frequency TEXT NOT NULL DEFAULT '1hour',
		priority INT NOT NULL DEFAULT 0,
		source_cursors JSONB NOT NULL DEFAULT '{}',
		last_check_at TIMESTAMPTZ,
		next_check_at TIMESTAMPTZ NOT NULL,
		last_post_found_at TIMESTAMPTZ,
		consecutive_empty_checks INT NOT NULL DEFAULT 0,
		total_checks INT NOT NULL DEFAULT 0,
		total_posts_found INT NOT NULL DEFAULT 0,
		api_calls_today INT NOT NULL DEFAULT 0,
		api_calls_month INT NOT NULL DEFAULT 0,
		last_api_reset TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	);

	CREATE INDEX IF NOT EXISTS idx_monitors_due ON monitors(enabled, next_check_at);

	CREATE TABLE IF NOT EXISTS monitor_check_logs (
		id SERIAL PRIMARY KEY,
		monitor_id INT NOT NULL REFERENCES monitors(id),
		status TEXT NOT NULL,
		posts_found INT NOT NULL DEFAULT 0,
		new_posts_added INT NOT NULL DEFAULT 0,
		api_calls_used INT NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		checked_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS monitor_posts (
		id SERIAL PRIMARY KEY,
		monitor_id INT NOT NULL REFERENCES monitors(id),
		post_id TEXT NOT NULL,
		community TEXT NOT NULL,
		keyword TEXT NOT NULL,
		author TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		posted_at TIMESTAMPTZ,
		found_at TIMESTAMPTZ NOT NULL,
		UNIQUE (monitor_id, post_id)
	);

	CREATE TABLE IF NOT EXISTS automations (
		id SERIAL PRIMARY KEY,
		organization_id INT NOT NULL REFERENCES organizations(id),
		user_id INT NOT NULL DEFAULT 0,
		name TEXT NOT NULL,
		keywords TEXT[] NOT NULL DEFAULT '{}',
		target_communities TEXT[] NOT NULL DEFAULT '{}',
		template_id INT NOT NULL REFERENCES message_templates(id),
		max_daily_dms INT NOT NULL DEFAULT 25,
		dms_sent_today INT NOT NULL DEFAULT 0,
		last_reset_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS outreach_messages (
		id SERIAL PRIMARY KEY,
		automation_id INT NOT NULL REFERENCES automations(id),
		organization_id INT NOT NULL REFERENCES organizations(id),
		user_id INT NOT NULL DEFAULT 0,
		recipient TEXT NOT NULL,
		source_post_id TEXT NOT NULL DEFAULT '',
		community TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		sent_at TIMESTAMPTZ,
		last_error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_outreach_messages_automation ON outreach_messages(automation_id, status);

	CREATE TABLE IF NOT EXISTS outreach_history (
		id SERIAL PRIMARY KEY,
		organization_id INT NOT NULL REFERENCES organizations(id),
		automation_id INT NOT NULL REFERENCES automations(id),
		recipient TEXT NOT NULL,
		community TEXT NOT NULL DEFAULT '',
		source_post_id TEXT NOT NULL DEFAULT '',
		sent_at TIMESTAMPTZ NOT NULL,
		UNIQUE (organization_id, recipient)
	);

	CREATE INDEX IF NOT EXISTS idx_outreach_history_community ON outreach_history(organization_id, community, sent_at);

	CREATE TABLE IF NOT EXISTS workflow_progress (
		automation_id INT PRIMARY KEY REFERENCES automations(id),
		status TEXT NOT NULL,
		current_stage TEXT NOT NULL DEFAULT '',
		stages JSONB NOT NULL DEFAULT '[]',
		total_users_found INT NOT NULL DEFAULT 0,
		total_users_analyzed INT NOT NULL DEFAULT 0,
		total_dms_sent INT NOT NULL DEFAULT 0,
		total_dms_failed INT NOT NULL DEFAULT 0,
		progress INT NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	_, err := db.Exec(schema)
	return err
}
