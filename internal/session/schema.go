package session

const schema = `
-- One row per browser session; state is the JSON encoded view state.
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    state TEXT NOT NULL,
    updated_at INTEGER NOT NULL -- unix seconds
);

CREATE INDEX IF NOT EXISTS sessions_updated_at ON sessions(updated_at);
`
