package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Lj542/radio-data-collection/internal/radio"
	"github.com/Lj542/radio-data-collection/internal/spectrum"
)

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new database connection and initializes the
// schema using the Sqlite database
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateSession(ctx context.Context, deviceType, deviceID string, config any) (sessionID int64, err error) {
	var configData sql.NullString

	if config != nil {
		switch config := config.(type) {
		case string:
			configData.Valid = true
			configData.String = config

		case []byte:
			configData.Valid = true
			configData.String = string(config)

		default:
			var p []byte
			if p, err = json.Marshal(config); err != nil {
				err = fmt.Errorf("marshaling config: %w", err)
				return
			}

			configData.Valid = true
			configData.String = string(p)
		}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, deviceType, deviceID, configData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	sessionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

func (s *SqliteStore) Session(ctx context.Context, id int64) (session *spectrum.CaptureSession, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var sess spectrum.CaptureSession
	var config sql.NullString
	if err = stmt.QueryRowContext(ctx, id).Scan(&sess.ID, &sess.StartTime, &sess.DeviceType, &sess.DeviceID, &config); err != nil {
		err = fmt.Errorf("scanning session: %w", err)
		return
	}
	sess.Config = fromNullString(config)

	return &sess, nil
}

func (s *SqliteStore) Sessions(ctx context.Context) (sessions []*spectrum.CaptureSession, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var sess spectrum.CaptureSession
		var config sql.NullString
		if err = rows.Scan(&sess.ID, &sess.StartTime, &sess.DeviceType, &sess.DeviceID, &config); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}
		sess.Config = fromNullString(config)
		sessions = append(sessions, &sess)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) StoreCapture(ctx context.Context, sessionID int64, buf *radio.SignalBuffer, filePath string, analysis *radio.AnalysisResult) (captureID int64, err error) {
	if buf == nil {
		err = fmt.Errorf("cannot store nil capture")
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertCaptureSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var path sql.NullString
	if filePath != "" {
		path = sql.NullString{String: filePath, Valid: true}
	}

	var power, amplitude, mainFreq, snr, peak sql.NullFloat64
	if analysis != nil {
		power = sql.NullFloat64{Float64: analysis.Power, Valid: true}
		amplitude = sql.NullFloat64{Float64: analysis.Amplitude, Valid: true}
		mainFreq = sql.NullFloat64{Float64: analysis.MainFrequency, Valid: true}
		snr = sql.NullFloat64{Float64: analysis.SNREstimate, Valid: true}
		peak = sql.NullFloat64{Float64: analysis.PeakMagnitude, Valid: true}
	}

	result, err := stmt.ExecContext(
		ctx,
		sessionID,
		buf.Timestamp.UTC(),
		buf.SampleRate,
		buf.CenterFrequency,
		len(buf.Samples),
		path,
		power,
		amplitude,
		mainFreq,
		snr,
		peak,
	)
	if err != nil {
		err = fmt.Errorf("inserting capture: %w", err)
		return
	}

	captureID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting capture ID: %w", err)
	}
	return
}

const insertSpectrumSQL = `
    INSERT INTO spectra (
        capture_id,
        frequency,
        bin_width,
        power,
        num_samples
    )
    VALUES `

func (s *SqliteStore) StoreSpectrum(ctx context.Context, captureID int64, points []spectrum.SpectralPoint) (err error) {
	if len(points) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	values := make([]interface{}, 0, len(points)*5)
	valuesPlaceholder := "(?, ?, ?, ?, ?)"

	var sb strings.Builder
	sb.WriteString(insertSpectrumSQL)

	for i, point := range points {
		values = append(values,
			captureID,
			point.Frequency,
			point.BinWidth,
			nullFloat(point.Power),
			point.NumSamples,
		)

		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(valuesPlaceholder)
	}

	if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
		return fmt.Errorf("batch inserting spectral points: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *SqliteStore) Captures(ctx context.Context, sessionID int64) (captures []Capture, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectCapturesSQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying captures: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var c Capture
		var path sql.NullString
		var power, amplitude, mainFreq, snr, peak sql.NullFloat64

		if err = rows.Scan(
			&c.ID,
			&c.SessionID,
			&c.Timestamp,
			&c.SampleRate,
			&c.CenterFrequency,
			&c.NumSamples,
			&path,
			&power,
			&amplitude,
			&mainFreq,
			&snr,
			&peak,
		); err != nil {
			err = fmt.Errorf("scanning capture: %w", err)
			return
		}

		c.FilePath = fromNullString(path)
		c.Power = fromNullFloat(power)
		c.Amplitude = fromNullFloat(amplitude)
		c.MainFrequency = fromNullFloat(mainFreq)
		c.SNREstimate = fromNullFloat(snr)
		c.PeakMagnitude = fromNullFloat(peak)

		captures = append(captures, c)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) ReadSpans(ctx context.Context, sessionID int64, opts ...SpanOption) (SpanReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	return newSqliteSpanReader(db, sessionID, opts...)
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
