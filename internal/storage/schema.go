package storage

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT UNIQUE NOT NULL,
    mode TEXT NOT NULL,
    execution TEXT NOT NULL,
    source TEXT DEFAULT '',
    success BOOLEAN DEFAULT FALSE,
    message TEXT DEFAULT '',
    artifacts TEXT DEFAULT '[]',
    submitted_at DATETIME NOT NULL,
    finished_at DATETIME NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_submitted_at ON runs(submitted_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_success ON runs(success, finished_at DESC);
`
