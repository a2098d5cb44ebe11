package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"example.com/fittrack/internal/session"
)

const signedOut = "signed out"

func newSessionCmd() *cobra.Command {
	var (
		baseURL string
		token   string
	)

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Resolve the signed-in user against a running API",
		Long: `session calls GET /v1/session with the given token. If the API does not
answer within session_check_timeout, or rejects the token, the user is
reported as signed out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			out, err := checkSession(cmd.Context(), http.DefaultClient, baseURL, token, cfg.SessionCheckTimeout)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "API base URL")
	cmd.Flags().StringVar(&token, "token", "", "bearer token")
	return cmd
}

// checkSession returns the session body, or signedOut when the check times out
// or the token is refused.
func checkSession(ctx context.Context, client *http.Client, baseURL, token string, timeout time.Duration) (string, error) {
	var (
		status int
		body   []byte
	)
	err := session.Race(ctx, timeout, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/v1/session", nil)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		body, err = io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return err
	})
	switch {
	case errors.Is(err, session.ErrTimeout):
		return signedOut, nil
	case err != nil:
		return "", err
	case status == http.StatusUnauthorized, status == http.StatusServiceUnavailable:
		return signedOut, nil
	case status != http.StatusOK:
		return "", fmt.Errorf("session check failed: %d %s", status, strings.TrimSpace(string(body)))
	}
	return strings.TrimSpace(string(body)), nil
}
