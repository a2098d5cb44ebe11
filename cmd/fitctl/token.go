package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"example.com/fittrack/pkg/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		scopes  []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed bearer token for local development",
		Example: `  fitctl token --sub 7c9e6679-7425-40de-944b-e07fc1f90ae7
  fitctl token --sub demo --scopes nutrition:read,nutrition:write --ttl 15m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.JWTTTL
			}
			token, err := auth.Issue(auth.Config{
				Secret: cfg.JWTSecret,
				Issuer: cfg.JWTIssuer,
				TTL:    ttl,
			}, subject, scopes, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "", "user id placed in the sub claim")
	cmd.Flags().StringSliceVar(&scopes, "scopes", auth.AllScopes, "granted scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: jwt_ttl)")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
