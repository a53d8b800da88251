package postgresql

// migrations returns the schema migrations for the journal generation
// pipeline, keyed by version.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS journal_subscriptions (
				id UUID PRIMARY KEY,
				user_id TEXT NOT NULL,
				workspace_id TEXT NOT NULL,
				workspace_name TEXT NOT NULL DEFAULT '',
				workspace_active BOOLEAN NOT NULL DEFAULT TRUE,
				active BOOLEAN NOT NULL DEFAULT TRUE,
				frequency TEXT NOT NULL,
				weekdays JSONB NOT NULL DEFAULT '[]',
				generation_hour INTEGER NOT NULL DEFAULT 17,
				generation_minute INTEGER NOT NULL DEFAULT 0,
				timezone TEXT NOT NULL DEFAULT 'UTC',
				tools JSONB NOT NULL DEFAULT '[]',
				focus_prompt TEXT NOT NULL DEFAULT '',
				default_category TEXT NOT NULL DEFAULT '',
				default_tags JSONB NOT NULL DEFAULT '[]',
				framework_id TEXT NOT NULL DEFAULT '',
				grouping_method TEXT NOT NULL DEFAULT '',
				last_run_at TIMESTAMP WITH TIME ZONE,
				next_run_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				CONSTRAINT journal_subscriptions_user_workspace UNIQUE (user_id, workspace_id)
			);

			CREATE INDEX IF NOT EXISTS idx_journal_subscriptions_due
				ON journal_subscriptions (next_run_at)
				WHERE active = TRUE;
		`,
		2: `
			CREATE TABLE IF NOT EXISTS tool_activities (
				id UUID PRIMARY KEY,
				user_id TEXT NOT NULL,
				tool TEXT NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				occurred_at TIMESTAMP WITH TIME ZONE NOT NULL,
				cross_refs JSONB NOT NULL DEFAULT '[]',
				raw JSONB NOT NULL DEFAULT '{}'
			);

			CREATE INDEX IF NOT EXISTS idx_tool_activities_user_tool_time
				ON tool_activities (user_id, tool, occurred_at DESC);
		`,
		3: `
			CREATE TABLE IF NOT EXISTS journal_entries (
				id UUID PRIMARY KEY,
				workspace_id TEXT NOT NULL,
				user_id TEXT NOT NULL,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				body TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL DEFAULT '',
				tags JSONB NOT NULL DEFAULT '[]',
				published BOOLEAN NOT NULL DEFAULT FALSE,
				metadata JSONB NOT NULL DEFAULT '{}',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS notifications (
				id UUID PRIMARY KEY,
				user_id TEXT NOT NULL,
				type TEXT NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				message TEXT NOT NULL DEFAULT '',
				ref_kind TEXT NOT NULL DEFAULT '',
				ref_id TEXT NOT NULL DEFAULT '',
				payload JSONB NOT NULL DEFAULT '{}',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_notifications_user
				ON notifications (user_id, created_at DESC);
		`,
	}
}
