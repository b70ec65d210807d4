package storage

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    start_time  DATETIME NOT NULL,
    device_type TEXT NOT NULL,
    device_id   TEXT NOT NULL,
    config      TEXT
);

CREATE TABLE IF NOT EXISTS captures (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id     INTEGER NOT NULL REFERENCES sessions (id),
    timestamp      DATETIME NOT NULL,
    sample_rate    REAL NOT NULL,
    center_freq    REAL NOT NULL,
    num_samples    INTEGER NOT NULL,
    file_path      TEXT,
    power          REAL,
    amplitude      REAL,
    main_frequency REAL,
    snr_estimate   REAL,
    peak_magnitude REAL
);

CREATE TABLE IF NOT EXISTS spectra (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    capture_id  INTEGER NOT NULL REFERENCES captures (id),
    frequency   REAL NOT NULL,
    bin_width   REAL NOT NULL,
    power       REAL,
    num_samples INTEGER NOT NULL
);`

const initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_captures_session_time ON captures (session_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_spectra_capture_freq ON spectra (capture_id, frequency);`

const (
	insertSessionSQL = `
INSERT INTO sessions (
    start_time,
    device_type,
    device_id,
    config)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    start_time,
    device_type,
    device_id,
    config
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    start_time,
    device_type,
    device_id,
    config
FROM sessions
ORDER BY start_time`

	insertCaptureSQL = `
INSERT INTO captures (
    session_id,
    timestamp,
    sample_rate,
    center_freq,
    num_samples,
    file_path,
    power,
    amplitude,
    main_frequency,
    snr_estimate,
    peak_magnitude)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectCapturesSQL = `
SELECT
    id,
    session_id,
    timestamp,
    sample_rate,
    center_freq,
    num_samples,
    file_path,
    power,
    amplitude,
    main_frequency,
    snr_estimate,
    peak_magnitude
FROM captures
WHERE
    session_id = ?
ORDER BY timestamp, id`
)
