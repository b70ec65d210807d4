package storage

import (
	"context"

	"github.com/Lj542/radio-data-collection/internal/radio"
	"github.com/Lj542/radio-data-collection/internal/spectrum"
)

// Store provides an interface for managing radio collection data storage
// operations. It handles sessions, capture records and spectral snapshots.
// All operations that write to the database should be considered atomic.
type Store interface {
	// CreateSession initializes a new collection session and returns its
	// unique identifier.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - deviceType: Type of signal source (e.g., "synthesizer")
	//   - deviceID: Unique identifier of the device
	//   - config: Optional device configuration. Can be string, []byte, or JSON-serializable object
	//
	// Returns:
	//   - sessionID: Unique identifier for the created session
	//   - error: If session creation fails or context is cancelled
	CreateSession(ctx context.Context, deviceType, deviceID string, config any) (sessionID int64, err error)

	// Session retrieves a specific collection session by its ID.
	Session(ctx context.Context, id int64) (session *spectrum.CaptureSession, err error)

	// Sessions returns all collection sessions stored in the database,
	// ordered by start time in ascending order.
	Sessions(ctx context.Context) (sessions []*spectrum.CaptureSession, err error)

	// StoreCapture saves the metadata of a single acquisition: capture
	// parameters, the capture file path if the raw samples were dumped,
	// and analysis results if the capture was analyzed. Raw samples are
	// never stored in the database.
	//
	// Returns:
	//   - captureID: Unique identifier for the stored capture record
	//   - error: If storage fails or context is cancelled
	StoreCapture(ctx context.Context, sessionID int64, buf *radio.SignalBuffer, filePath string, analysis *radio.AnalysisResult) (captureID int64, err error)

	// StoreSpectrum saves the spectral snapshot of a capture. All points
	// are stored in a single atomic transaction.
	StoreSpectrum(ctx context.Context, captureID int64, points []spectrum.SpectralPoint) error

	// Captures returns all capture records of a session, ordered by
	// timestamp in ascending order.
	Captures(ctx context.Context, sessionID int64) ([]Capture, error)

	// ReadSpans creates a SpanReader that iterates the stored spectral
	// snapshots of a session, one frequency-ordered span per capture,
	// ordered by capture time. The returned reader must be closed after
	// use to release database resources.
	ReadSpans(ctx context.Context, sessionID int64, opts ...SpanOption) (SpanReader, error)

	// Close releases all database connections and resources. After Close
	// is called, the store instance cannot be reused. It is safe to call
	// Close multiple times.
	Close() error
}
