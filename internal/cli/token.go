package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-membership/pkg/auth"
	"github.com/tendant/simple-membership/pkg/domain"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	Principal string
	TTL       time.Duration
}

// NewTokenCommand creates the token command.
func NewTokenCommand(level *slog.LevelVar) *cobra.Command {
	opts := &TokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a caller token for a principal",
		Long: `Print a signed bearer token naming the given principal.

The token is signed with JWT_SECRET and JWT_ISSUER from the environment,
so it is accepted by a server running with the same configuration.
Intended for development and scripting.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(level)
			if err != nil {
				return err
			}
			ttl := cfg.AccessTokenTTL
			if opts.TTL > 0 {
				ttl = opts.TTL
			}
			tokens := auth.NewTokenService(auth.TokenConfig{
				AccessTokenTTL: ttl,
				JWTSecret:      []byte(cfg.JWTSecret),
				Issuer:         cfg.JWTIssuer,
			})
			return runToken(cmd, tokens, opts.Principal)
		},
	}

	cmd.Flags().StringVarP(&opts.Principal, "principal", "p", "", "principal the token identifies (required)")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 0, "token lifetime (default ACCESS_TOKEN_TTL)")
	_ = cmd.MarkFlagRequired("principal")

	return cmd
}

func runToken(cmd *cobra.Command, tokens *auth.TokenService, principal string) error {
	p, err := domain.ParsePrincipal(principal)
	if err != nil {
		return err
	}
	token, _, err := tokens.IssueToken(p)
	if err != nil {
		return fmt.Errorf("issue token for %s: %w", p, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
