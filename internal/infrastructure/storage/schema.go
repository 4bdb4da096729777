package storage

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analyses (
    id                  BIGSERIAL PRIMARY KEY,
    url                 TEXT NOT NULL,
    title               TEXT NOT NULL DEFAULT '',
    content             TEXT NOT NULL DEFAULT '',
    summary             TEXT NOT NULL DEFAULT '',
    sentiment_score     DOUBLE PRECISION NOT NULL DEFAULT 0,
    sentiment_label     TEXT NOT NULL DEFAULT 'neutral',
    positive_score      DOUBLE PRECISION NOT NULL DEFAULT 0,
    negative_score      DOUBLE PRECISION NOT NULL DEFAULT 0,
    neutral_score       DOUBLE PRECISION NOT NULL DEFAULT 0,
    readability_score   DOUBLE PRECISION NOT NULL DEFAULT 0,
    grade_level         DOUBLE PRECISION NOT NULL DEFAULT 0,
    word_count          INTEGER NOT NULL DEFAULT 0,
    char_count          INTEGER NOT NULL DEFAULT 0,
    sentence_count      INTEGER NOT NULL DEFAULT 0,
    avg_sentence_length DOUBLE PRECISION NOT NULL DEFAULT 0,
    keywords            TEXT NOT NULL DEFAULT 'null',
    top_words           TEXT NOT NULL DEFAULT 'null',
    created_at          TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analyses (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    url                 TEXT NOT NULL,
    title               TEXT NOT NULL DEFAULT '',
    content             TEXT NOT NULL DEFAULT '',
    summary             TEXT NOT NULL DEFAULT '',
    sentiment_score     REAL NOT NULL DEFAULT 0,
    sentiment_label     TEXT NOT NULL DEFAULT 'neutral',
    positive_score      REAL NOT NULL DEFAULT 0,
    negative_score      REAL NOT NULL DEFAULT 0,
    neutral_score       REAL NOT NULL DEFAULT 0,
    readability_score   REAL NOT NULL DEFAULT 0,
    grade_level         REAL NOT NULL DEFAULT 0,
    word_count          INTEGER NOT NULL DEFAULT 0,
    char_count          INTEGER NOT NULL DEFAULT 0,
    sentence_count      INTEGER NOT NULL DEFAULT 0,
    avg_sentence_length REAL NOT NULL DEFAULT 0,
    keywords            TEXT NOT NULL DEFAULT 'null',
    top_words           TEXT NOT NULL DEFAULT 'null',
    created_at          TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`
