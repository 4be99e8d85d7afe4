package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

type choiceKey struct {
	poll   domain.PollID
	choice domain.ChoiceID
}

type voterKey struct {
	poll  domain.PollID
	voter domain.AccountID
}

type state struct {
	config    *domain.ContractConfig
	polls     map[domain.PollID]domain.Poll
	choices   map[choiceKey]domain.Choice
	choiceIDs map[domain.PollID][]domain.ChoiceID
	tallies   map[choiceKey]uint64
	ledger    map[voterKey]struct{}
}

func newState() *state {
	return &state{
		polls:     make(map[domain.PollID]domain.Poll),
		choices:   make(map[choiceKey]domain.Choice),
		choiceIDs: make(map[domain.PollID][]domain.ChoiceID),
		tallies:   make(map[choiceKey]uint64),
		ledger:    make(map[voterKey]struct{}),
	}
}

// Store keeps contract state in process memory. Update writes in place and
// journals the previous value of every key it touches; a failed call replays
// the journal backwards.
type Store struct {
	mu    sync.RWMutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) Update(ctx context.Context, fn func(tx ports.StateTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{state: s.state, writable: true}
	committed := false
	defer func() {
		if !committed {
			t.rollback()
		}
	}()

	if err := fn(t); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) View(ctx context.Context, fn func(tx ports.StateTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(&tx{state: s.state})
}

func (s *Store) Close() error {
	return nil
}

type tx struct {
	state    *state
	writable bool
	undo     []func()
}

func (t *tx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// journal records how to restore m[key] to its value before this write.
func journal[K comparable, V any](t *tx, m map[K]V, key K) {
	prev, existed := m[key]
	t.undo = append(t.undo, func() {
		if existed {
			m[key] = prev
		} else {
			delete(m, key)
		}
	})
}

func (t *tx) write() error {
	if !t.writable {
		return ErrReadOnly
	}
	return nil
}

func (t *tx) LoadConfig() (domain.ContractConfig, bool, error) {
	if t.state.config == nil {
		return domain.ContractConfig{}, false, nil
	}
	return *t.state.config, true, nil
}

func (t *tx) SaveConfig(cfg domain.ContractConfig) error {
	if err := t.write(); err != nil {
		return err
	}
	prev := t.state.config
	t.undo = append(t.undo, func() { t.state.config = prev })
	t.state.config = &cfg
	return nil
}

func (t *tx) GetPoll(id domain.PollID) (domain.Poll, bool, error) {
	poll, ok := t.state.polls[id]
	return poll, ok, nil
}

func (t *tx) PutPoll(id domain.PollID, poll domain.Poll) error {
	if err := t.write(); err != nil {
		return err
	}
	journal(t, t.state.polls, id)
	t.state.polls[id] = poll
	return nil
}

func (t *tx) GetChoice(pollID domain.PollID, choiceID domain.ChoiceID) (domain.Choice, bool, error) {
	choice, ok := t.state.choices[choiceKey{pollID, choiceID}]
	return choice, ok, nil
}

func (t *tx) HasChoice(pollID domain.PollID, choiceID domain.ChoiceID) (bool, error) {
	_, ok := t.state.choices[choiceKey{pollID, choiceID}]
	return ok, nil
}

func (t *tx) PutChoice(pollID domain.PollID, choiceID domain.ChoiceID, choice domain.Choice) error {
	if err := t.write(); err != nil {
		return err
	}
	journal(t, t.state.choices, choiceKey{pollID, choiceID})
	t.state.choices[choiceKey{pollID, choiceID}] = choice
	return nil
}

func (t *tx) ChoiceIDs(pollID domain.PollID) ([]domain.ChoiceID, error) {
	return slices.Clone(t.state.choiceIDs[pollID]), nil
}

func (t *tx) PutChoiceIDs(pollID domain.PollID, ids []domain.ChoiceID) error {
	if err := t.write(); err != nil {
		return err
	}
	journal(t, t.state.choiceIDs, pollID)
	t.state.choiceIDs[pollID] = slices.Clone(ids)
	return nil
}

func (t *tx) VoteCount(pollID domain.PollID, choiceID domain.ChoiceID) (uint64, error) {
	return t.state.tallies[choiceKey{pollID, choiceID}], nil
}

func (t *tx) PutVoteCount(pollID domain.PollID, choiceID domain.ChoiceID, count uint64) error {
	if err := t.write(); err != nil {
		return err
	}
	journal(t, t.state.tallies, choiceKey{pollID, choiceID})
	t.state.tallies[choiceKey{pollID, choiceID}] = count
	return nil
}

func (t *tx) HasVoted(pollID domain.PollID, voter domain.AccountID) (bool, error) {
	_, ok := t.state.ledger[voterKey{pollID, voter}]
	return ok, nil
}

func (t *tx) MarkVoted(pollID domain.PollID, voter domain.AccountID) error {
	if err := t.write(); err != nil {
		return err
	}
	journal(t, t.state.ledger, voterKey{pollID, voter})
	t.state.ledger[voterKey{pollID, voter}] = struct{}{}
	return nil
}
