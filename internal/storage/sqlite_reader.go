package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Lj542/radio-data-collection/internal/spectrum"
)

// SpanReader provides an iterator-based interface for reading stored
// spectral snapshots with optional time and frequency filtering.
type SpanReader interface {
	// Session returns metadata about the collection session this reader
	// is accessing.
	Session() *spectrum.CaptureSession

	// Next advances the iterator and returns true if there is another
	// spectral span to read, false when the iteration is complete or if
	// an error occurred.
	Next(ctx context.Context) bool

	// Current returns the current spectral span in the iteration.
	// If called after Next() returns false, the behavior is undefined.
	Current() *spectrum.SpectralSpan

	// Error returns any error that occurred during iteration. When
	// Next() returns false, Error() distinguishes between end of data
	// and a failure.
	Error() error

	// Close releases any resources associated with the reader. After
	// Close is called, the reader should not be used.
	Close() error
}

// SpanOption configures a SpanReader with specific filtering criteria.
type SpanOption func(*SqliteSpanReader)

// WithMinFreq sets the minimum frequency filter for the reader.
// Spectral points with frequencies below this value will be excluded.
func WithMinFreq(f float64) SpanOption {
	return func(r *SqliteSpanReader) {
		r.minFreq = &f
	}
}

// WithMaxFreq sets the maximum frequency filter for the reader.
// Spectral points with frequencies above this value will be excluded.
func WithMaxFreq(f float64) SpanOption {
	return func(r *SqliteSpanReader) {
		r.maxFreq = &f
	}
}

// WithFreqRange sets both minimum and maximum frequency filters.
func WithFreqRange(minFreq, maxFreq float64) SpanOption {
	return func(r *SqliteSpanReader) {
		r.minFreq = &minFreq
		r.maxFreq = &maxFreq
	}
}

// WithStartTime excludes spans captured before the given time.
func WithStartTime(t time.Time) SpanOption {
	return func(r *SqliteSpanReader) {
		r.startTime = &t
	}
}

// WithEndTime excludes spans captured after the given time.
func WithEndTime(t time.Time) SpanOption {
	return func(r *SqliteSpanReader) {
		r.endTime = &t
	}
}

// WithTimeRange sets both start and end time filters.
func WithTimeRange(startTime, endTime time.Time) SpanOption {
	return func(r *SqliteSpanReader) {
		r.startTime = &startTime
		r.endTime = &endTime
	}
}

const selectSpansSQL = `
SELECT
    s.capture_id,
    c.timestamp,
    s.frequency,
    s.bin_width,
    s.power,
    s.num_samples
FROM spectra s
JOIN captures c ON c.id = s.capture_id
WHERE
    c.session_id = ?`

// SqliteSpanReader reads spectral spans of a session from the Sqlite
// database, one span per capture, ordered by capture time. Each reader
// instance should only be used from a single goroutine.
type SqliteSpanReader struct {
	db        *sql.DB
	sessionID int64
	session   *spectrum.CaptureSession

	minFreq   *float64
	maxFreq   *float64
	startTime *time.Time
	endTime   *time.Time

	rows    *sql.Rows
	current *spectrum.SpectralSpan
	pending *spanRow
	err     error
	done    bool
}

type spanRow struct {
	captureID  int64
	timestamp  time.Time
	frequency  float64
	binWidth   float64
	power      sql.NullFloat64
	numSamples int64
}

func newSqliteSpanReader(db *sql.DB, sessionID int64, opts ...SpanOption) (*SqliteSpanReader, error) {
	r := &SqliteSpanReader{
		db:        db,
		sessionID: sessionID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *SqliteSpanReader) init(ctx context.Context) error {
	if err := r.loadSession(ctx); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(selectSpansSQL)

	args := []any{r.sessionID}
	if r.minFreq != nil {
		sb.WriteString(" AND s.frequency >= ?")
		args = append(args, *r.minFreq)
	}
	if r.maxFreq != nil {
		sb.WriteString(" AND s.frequency <= ?")
		args = append(args, *r.maxFreq)
	}
	if r.startTime != nil {
		sb.WriteString(" AND c.timestamp >= ?")
		args = append(args, r.startTime.UTC())
	}
	if r.endTime != nil {
		sb.WriteString(" AND c.timestamp <= ?")
		args = append(args, r.endTime.UTC())
	}
	sb.WriteString(" ORDER BY c.timestamp, s.capture_id, s.frequency")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return fmt.Errorf("querying spectral points: %w", err)
	}

	r.rows = rows
	return nil
}

func (r *SqliteSpanReader) loadSession(ctx context.Context) (err error) {
	stmt, err := r.db.PrepareContext(ctx, selectSessionSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var sess spectrum.CaptureSession
	var config sql.NullString
	if err = stmt.QueryRowContext(ctx, r.sessionID).Scan(&sess.ID, &sess.StartTime, &sess.DeviceType, &sess.DeviceID, &config); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("session %d does not exist", r.sessionID)
		}
		return fmt.Errorf("scanning session: %w", err)
	}
	sess.Config = fromNullString(config)

	r.session = &sess
	return nil
}

func (r *SqliteSpanReader) scanRow() (*spanRow, error) {
	var row spanRow
	if err := r.rows.Scan(
		&row.captureID,
		&row.timestamp,
		&row.frequency,
		&row.binWidth,
		&row.power,
		&row.numSamples,
	); err != nil {
		return nil, fmt.Errorf("scanning spectral point: %w", err)
	}
	return &row, nil
}

func (r *SqliteSpanReader) Session() *spectrum.CaptureSession {
	return r.session
}

func (r *SqliteSpanReader) Next(ctx context.Context) bool {
	if r.err != nil || r.done {
		return false
	}

	if r.rows == nil {
		if r.err = r.init(ctx); r.err != nil {
			return false
		}
	}

	var span *pendingSpan
	if r.pending != nil {
		span = newSpan(r.pending)
		r.pending = nil
	}

	for r.rows.Next() {
		row, err := r.scanRow()
		if err != nil {
			r.err = err
			return false
		}

		if span == nil {
			span = newSpan(row)
			continue
		}

		// A new capture ID starts the next span; hold the row until the
		// following Next call.
		if row.captureID != span.capture {
			r.pending = row
			r.current = &span.SpectralSpan
			return true
		}

		span.append(row)
	}

	if err := r.rows.Err(); err != nil {
		r.err = err
		return false
	}

	r.done = true
	if span == nil {
		return false
	}

	r.current = &span.SpectralSpan
	return true
}

func (r *SqliteSpanReader) Current() *spectrum.SpectralSpan {
	return r.current
}

func (r *SqliteSpanReader) Error() error {
	return r.err
}

func (r *SqliteSpanReader) Close() error {
	if r.rows == nil {
		return nil
	}
	return r.rows.Close()
}

// pendingSpan accumulates rows of a single capture into a SpectralSpan.
type pendingSpan struct {
	spectrum.SpectralSpan
	capture int64
}

func newSpan(row *spanRow) *pendingSpan {
	s := &pendingSpan{capture: row.captureID}
	s.Timestamp = row.timestamp
	s.FrequencyStart = row.frequency - row.binWidth/2
	s.FrequencyEnd = row.frequency + row.binWidth/2
	s.append(row)
	return s
}

func (s *pendingSpan) append(row *spanRow) {
	s.FrequencyEnd = row.frequency + row.binWidth/2
	s.Points = append(s.Points, spectrum.SpectralPoint{
		Frequency:  row.frequency,
		Power:      fromNullFloat(row.power),
		BinWidth:   row.binWidth,
		NumSamples: int(row.numSamples),
	})
}
