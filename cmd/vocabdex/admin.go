package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
)

// runWired builds the app, wires its dependencies and runs fn.
func runWired(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.wire(cmd.Context()); err != nil {
		return err
	}
	return fn(cmd.Context(), a)
}

func migrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending record store migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			applied, err := a.migrate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
			return nil
		},
	}
}

func reindexCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the record store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWired(cmd, flags, func(ctx context.Context, a *app) error {
				start := time.Now()
				n, err := a.awards.Reindex(ctx, identity.System())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "indexed %d award(s) in %s\n", n, time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
}

func purgeCmd(flags *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge PID...",
		Short: "Physically delete awards from the record store and index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("purge destroys records permanently; pass --yes to confirm")
			}
			return runWired(cmd, flags, func(ctx context.Context, a *app) error {
				for _, pid := range args {
					if err := a.awards.ForceDelete(ctx, identity.System(), pid); err != nil {
						return fmt.Errorf("purge %s: %w", pid, err)
					}
					a.logger.Info("Award purged", zap.String("pid", pid))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm permanent deletion")
	return cmd
}

func funderCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "funder",
		Short: "Manage funders referenced by awards",
	}

	var country string
	add := &cobra.Command{
		Use:   "add ID NAME",
		Short: "Register a funder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWired(cmd, flags, func(ctx context.Context, a *app) error {
				f, err := a.funders.Create(ctx, identity.System(), args[0], args[1], country)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created funder %s (%s)\n", f.ID(), f.Name())
				return nil
			})
		},
	}
	add.Flags().StringVar(&country, "country", "", "ISO 3166 alpha-2 country code")

	cmd.AddCommand(add)
	return cmd
}

func tokenCmd(flags *globalFlags) *cobra.Command {
	var (
		roles  []string
		scopes []string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token SUBJECT",
		Short: "Issue a signed bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.initTokens(); err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = a.cfg.Auth.TokenTTL()
			}
			token, err := a.tokens.Issue(args[0], roles, scopes, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&roles, "role", []string{identity.RoleManager}, "Granted roles")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "Glob patterns of writable award pids (default: all)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: auth.token_ttl_min)")
	return cmd
}
