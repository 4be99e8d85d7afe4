package main

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/auth"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

func tokenCommand() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token [account-id]",
		Short: "Issue an access token for an account, or for a new one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			jwtAuth, err := auth.NewJWT(cfg.JWTSecret)
			if err != nil {
				return err
			}

			account := uuid.New()
			if len(args) == 1 {
				account, err = uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid account id: %w", err)
				}
			}

			return issueToken(cmd.OutOrStdout(), jwtAuth, account, ttl)
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "token lifetime")
	return cmd
}

func issueToken(out io.Writer, issuer ports.TokenIssuer, account domain.AccountID, ttl time.Duration) error {
	token, err := issuer.Issue(account, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "account: %s\ntoken: %s\n", account, token)
	return err
}
