package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AccountID identifies a principal: poll owners, voters and the admin.
type AccountID = uuid.UUID

type CodeHash [32]byte

func ParseCodeHash(s string) (CodeHash, error) {
	var h CodeHash
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return h, fmt.Errorf("invalid code hash: %w", err)
	}
	if len(raw) != len(h) {
		return h, fmt.Errorf("invalid code hash: expected %d bytes, got %d", len(h), len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

func (h CodeHash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h CodeHash) IsZero() bool {
	return h == CodeHash{}
}

func (h CodeHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *CodeHash) UnmarshalText(text []byte) error {
	parsed, err := ParseCodeHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
