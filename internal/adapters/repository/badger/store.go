package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

// Store persists contract state in badger. An empty data dir keeps the
// database in memory.
type Store struct {
	db      *badger.DB
	logger  *slog.Logger
	dataDir string

	// serializes Update so calls never hit a badger txn conflict
	writeMu sync.Mutex
}

type Option func(*Store)

func WithDataDir(dir string) Option {
	return func(s *Store) { s.dataDir = dir }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func New(opts ...Option) (*Store, error) {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	var badgerOpts badger.Options
	if s.dataDir == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		badgerOpts = badger.DefaultOptions(s.dataDir).WithCompression(options.Snappy)
	}
	badgerOpts = badgerOpts.
		WithLogger(NewLogger(s.logger)).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	s.db = db
	return s, nil
}

func (s *Store) Update(ctx context.Context, fn func(tx ports.StateTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		return fn(&tx{txn: txn})
	})
}

func (s *Store) View(ctx context.Context, fn func(tx ports.StateTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		return fn(&tx{txn: txn})
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

type tx struct {
	txn *badger.Txn
}

// getJSON decodes the value at key into dst and reports whether it exists.
func (t *tx) getJSON(key []byte, dst any) (bool, error) {
	item, err := t.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
	if err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

func (t *tx) putJSON(key []byte, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := t.txn.Set(key, raw); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (t *tx) has(key []byte) (bool, error) {
	_, err := t.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return true, nil
}

func (t *tx) LoadConfig() (domain.ContractConfig, bool, error) {
	var cfg domain.ContractConfig
	ok, err := t.getJSON(configKey, &cfg)
	return cfg, ok, err
}

func (t *tx) SaveConfig(cfg domain.ContractConfig) error {
	return t.putJSON(configKey, cfg)
}

func (t *tx) GetPoll(id domain.PollID) (domain.Poll, bool, error) {
	var poll domain.Poll
	ok, err := t.getJSON(pollKey(id), &poll)
	return poll, ok, err
}

func (t *tx) PutPoll(id domain.PollID, poll domain.Poll) error {
	return t.putJSON(pollKey(id), poll)
}

func (t *tx) GetChoice(pollID domain.PollID, choiceID domain.ChoiceID) (domain.Choice, bool, error) {
	var choice domain.Choice
	ok, err := t.getJSON(choiceKey(pollID, choiceID), &choice)
	return choice, ok, err
}

func (t *tx) HasChoice(pollID domain.PollID, choiceID domain.ChoiceID) (bool, error) {
	return t.has(choiceKey(pollID, choiceID))
}

func (t *tx) PutChoice(pollID domain.PollID, choiceID domain.ChoiceID, choice domain.Choice) error {
	return t.putJSON(choiceKey(pollID, choiceID), choice)
}

func (t *tx) ChoiceIDs(pollID domain.PollID) ([]domain.ChoiceID, error) {
	item, err := t.txn.Get(choiceIndexKey(pollID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read choice index of poll %d: %w", pollID, err)
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read choice index of poll %d: %w", pollID, err)
	}
	ids := make([]domain.ChoiceID, len(raw))
	for i, b := range raw {
		ids[i] = domain.ChoiceID(b)
	}
	return ids, nil
}

// PutChoiceIDs stores the index as one byte per choice id, in order.
func (t *tx) PutChoiceIDs(pollID domain.PollID, ids []domain.ChoiceID) error {
	raw := make([]byte, len(ids))
	for i, id := range ids {
		raw[i] = byte(id)
	}
	if err := t.txn.Set(choiceIndexKey(pollID), raw); err != nil {
		return fmt.Errorf("failed to write choice index of poll %d: %w", pollID, err)
	}
	return nil
}

func (t *tx) VoteCount(pollID domain.PollID, choiceID domain.ChoiceID) (uint64, error) {
	item, err := t.txn.Get(tallyKey(pollID, choiceID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read tally: %w", err)
	}
	var count uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("tally has %d bytes", len(val))
		}
		count = binary.BigEndian.Uint64(val)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to decode tally: %w", err)
	}
	return count, nil
}

func (t *tx) PutVoteCount(pollID domain.PollID, choiceID domain.ChoiceID, count uint64) error {
	if err := t.txn.Set(tallyKey(pollID, choiceID), binary.BigEndian.AppendUint64(nil, count)); err != nil {
		return fmt.Errorf("failed to write tally: %w", err)
	}
	return nil
}

func (t *tx) HasVoted(pollID domain.PollID, voter domain.AccountID) (bool, error) {
	return t.has(votedKey(pollID, voter))
}

func (t *tx) MarkVoted(pollID domain.PollID, voter domain.AccountID) error {
	if err := t.txn.Set(votedKey(pollID, voter), []byte{1}); err != nil {
		return fmt.Errorf("failed to record vote: %w", err)
	}
	return nil
}
