package db

// schema creates the run, listing, merge and assignment tables. Dependent
// tables cascade on run deletion.
const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    linkage      TEXT NOT NULL,
    policy       TEXT NOT NULL,
    listings     INTEGER NOT NULL,
    vocabulary   INTEGER NOT NULL,
    status       TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS run_listings (
    run_id     UUID NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
    listing_id TEXT NOT NULL,
    text       TEXT,
    tokens     TEXT[] NOT NULL,
    PRIMARY KEY (run_id, listing_id)
);

CREATE TABLE IF NOT EXISTS merge_events (
    run_id   UUID NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
    step     INTEGER NOT NULL,
    left_id  INTEGER NOT NULL,
    right_id INTEGER NOT NULL,
    distance DOUBLE PRECISION NOT NULL,
    size     INTEGER NOT NULL,
    PRIMARY KEY (run_id, step)
);

CREATE TABLE IF NOT EXISTS cluster_assignments (
    run_id  UUID NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
    token   TEXT NOT NULL,
    cluster INTEGER NOT NULL,
    PRIMARY KEY (run_id, token)
);
`
