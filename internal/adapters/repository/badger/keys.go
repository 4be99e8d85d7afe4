package badger

import (
	"encoding/binary"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

var (
	configKey       = []byte("config")
	pollPrefix      = []byte("poll/")
	choicePrefix    = []byte("choice/")
	choiceIdxPrefix = []byte("choiceidx/")
	tallyPrefix     = []byte("tally/")
	votedPrefix     = []byte("voted/")
)

func pollKey(id domain.PollID) []byte {
	return binary.BigEndian.AppendUint64(clonePrefix(pollPrefix), uint64(id))
}

func choiceKey(pollID domain.PollID, choiceID domain.ChoiceID) []byte {
	key := binary.BigEndian.AppendUint64(clonePrefix(choicePrefix), uint64(pollID))
	return append(key, byte(choiceID))
}

func choiceIndexKey(pollID domain.PollID) []byte {
	return binary.BigEndian.AppendUint64(clonePrefix(choiceIdxPrefix), uint64(pollID))
}

func tallyKey(pollID domain.PollID, choiceID domain.ChoiceID) []byte {
	key := binary.BigEndian.AppendUint64(clonePrefix(tallyPrefix), uint64(pollID))
	return append(key, byte(choiceID))
}

func votedKey(pollID domain.PollID, voter domain.AccountID) []byte {
	key := binary.BigEndian.AppendUint64(clonePrefix(votedPrefix), uint64(pollID))
	return append(key, voter[:]...)
}

func clonePrefix(prefix []byte) []byte {
	key := make([]byte, len(prefix), len(prefix)+8+16)
	copy(key, prefix)
	return key
}
