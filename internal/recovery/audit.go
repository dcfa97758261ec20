package recovery

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// AuditEntry is one recovery attempt on record: which session, what was
// detected, how strongly, and what the engine did about it.
type AuditEntry struct {
	SessionID  string    `json:"session_id"`
	Kind       Kind      `json:"kind"`
	Strategy   Strategy  `json:"strategy"`
	Confidence float64   `json:"confidence"`
	At         time.Time `json:"at"`
}

// AuditSink records recovery attempts for offline analysis. Implementations
// must be safe for concurrent use. Recording failures are reported to the
// caller for logging; they never block or fail the conversation.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
	Close() error
}

// NopSink discards every entry. It is the default when no audit store is
// configured.
type NopSink struct{}

func (NopSink) Record(context.Context, AuditEntry) error { return nil }

func (NopSink) Close() error { return nil }

// PostgresSink writes recovery attempts to a recovery_audit table.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink opens a connection pool against dsn and verifies it.
func NewPostgresSink(dsn string) (*PostgresSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping audit database: %w", err)
	}
	return &PostgresSink{db: db}, nil
}

// Record inserts one audit row.
func (s *PostgresSink) Record(ctx context.Context, entry AuditEntry) error {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	query := `
		INSERT INTO recovery_audit (session_id, kind, strategy, confidence, detected_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query,
		entry.SessionID, string(entry.Kind), string(entry.Strategy), entry.Confidence, entry.At,
	)
	if err != nil {
		return fmt.Errorf("insert recovery audit: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresSink) Close() error {
	return s.db.Close()
}

var (
	_ AuditSink = (*PostgresSink)(nil)
	_ AuditSink = NopSink{}
)
