package services

import (
	"context"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

func (c *contract) Instantiate(ctx context.Context, inv domain.Invocation) error {
	err := c.store.Update(ctx, func(tx ports.StateTx) error {
		_, ok, err := tx.LoadConfig()
		if err != nil {
			return err
		}
		if ok {
			return domain.ErrContractAlreadyInstantiated
		}
		return tx.SaveConfig(domain.ContractConfig{Admin: inv.Caller})
	})
	if err != nil {
		c.logRejected(inv, "instantiate", err)
		return err
	}
	c.logger.Info("contract instantiated", c.logAttrs(inv, "instantiate", "contract_instantiated")...)
	return nil
}

func (c *contract) GetConfig(ctx context.Context) (domain.ContractConfig, error) {
	var cfg domain.ContractConfig
	err := c.store.View(ctx, func(tx ports.StateTx) error {
		loaded, ok, err := tx.LoadConfig()
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrContractNotInstantiated
		}
		cfg = loaded
		return nil
	})
	return cfg, err
}

func (c *contract) Pause(ctx context.Context, inv domain.Invocation) error {
	return c.execute(ctx, inv, "pause", func(cl *call) error {
		return c.setPaused(cl, true)
	})
}

func (c *contract) Unpause(ctx context.Context, inv domain.Invocation) error {
	return c.execute(ctx, inv, "unpause", func(cl *call) error {
		return c.setPaused(cl, false)
	})
}

func (c *contract) setPaused(cl *call, paused bool) error {
	if err := c.access.authorize(cl, adminOnly()); err != nil {
		return err
	}
	cl.cfg.Paused = paused
	return cl.tx.SaveConfig(cl.cfg)
}

func (c *contract) ChangeAdmin(ctx context.Context, inv domain.Invocation, newAdmin domain.AccountID) error {
	return c.execute(ctx, inv, "change_admin", func(cl *call) error {
		if err := c.access.authorize(cl, adminOnly()); err != nil {
			return err
		}
		cl.cfg.Admin = newAdmin
		return cl.tx.SaveConfig(cl.cfg)
	}, "new_admin", newAdmin.String())
}

func (c *contract) SetCode(ctx context.Context, inv domain.Invocation, hash domain.CodeHash) error {
	return c.execute(ctx, inv, "set_code", func(cl *call) error {
		if err := c.access.authorize(cl, adminOnly()); err != nil {
			return err
		}
		if err := c.installer.Install(ctx, hash); err != nil {
			return &domain.UpgradeError{Reason: err.Error()}
		}
		return nil
	}, "code_hash", hash.String())
}

func (c *contract) UploadCode(ctx context.Context, inv domain.Invocation, hash domain.CodeHash) error {
	return c.execute(ctx, inv, "upload_code", func(cl *call) error {
		if err := c.access.authorize(cl, adminOnly()); err != nil {
			return err
		}
		if err := c.installer.Upload(ctx, hash); err != nil {
			return &domain.UpgradeError{Reason: err.Error()}
		}
		return nil
	}, "code_hash", hash.String())
}
