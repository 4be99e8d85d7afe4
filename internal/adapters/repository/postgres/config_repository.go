package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

func (t *tx) LoadConfig() (domain.ContractConfig, bool, error) {
	query := `SELECT admin, paused FROM contract_config WHERE id = 1`

	var cfg domain.ContractConfig
	err := t.tx.QueryRowContext(t.ctx, query).Scan(&cfg.Admin, &cfg.Paused)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ContractConfig{}, false, nil
		}
		return domain.ContractConfig{}, false, fmt.Errorf("failed to load contract config: %w", err)
	}
	return cfg, true, nil
}

func (t *tx) SaveConfig(cfg domain.ContractConfig) error {
	query := `
		INSERT INTO contract_config (id, admin, paused, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET admin = EXCLUDED.admin,
		    paused = EXCLUDED.paused,
		    updated_at = NOW()
	`
	if _, err := t.tx.ExecContext(t.ctx, query, cfg.Admin, cfg.Paused); err != nil {
		return fmt.Errorf("failed to save contract config: %w", err)
	}
	return nil
}
