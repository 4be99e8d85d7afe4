package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

// Store runs every contract call in one SERIALIZABLE transaction.
type Store struct {
	db *sql.DB

	// one writer per process; concurrent writers from other processes
	// surface as serialization failures
	writeMu sync.Mutex
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database at dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return db, nil
}

func (s *Store) Update(ctx context.Context, fn func(tx ports.StateTx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.run(ctx, false, fn)
}

func (s *Store) View(ctx context.Context, fn func(tx ports.StateTx) error) error {
	return s.run(ctx, true, fn)
}

func (s *Store) run(ctx context.Context, readOnly bool, fn func(tx ports.StateTx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable, ReadOnly: readOnly})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&tx{ctx: ctx, tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// tx implements ports.StateTx over one open transaction. Its methods are
// split across the *_repository.go files by table.
type tx struct {
	ctx context.Context
	tx  *sql.Tx
}
