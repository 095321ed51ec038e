package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophsync/internal/client/sync"
)

func (c *Cli) newConflictsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List postponed conflicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConflicts(cmd.Context())
		},
	}
}

func (c *Cli) runConflicts(ctx context.Context) error {
	if err := c.services(ctx); err != nil {
		return err
	}

	marks, err := c.syncService.ListConflicted(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conflicts: %w", err)
	}

	if len(marks) == 0 {
		c.io.Println("No postponed conflicts.")
		return nil
	}

	c.io.Printf("Found %d conflict(s):\n", len(marks))
	c.io.Println()
	for _, m := range marks {
		c.io.Printf("%s  [%s]\n", m.EntityID, m.EntityType)
		c.io.Printf("  Type:   %s\n", m.Type)
		if len(m.Fields) > 0 {
			c.io.Printf("  Fields: %s\n", strings.Join(m.Fields, ", "))
		}
		if m.Reason != "" {
			c.io.Printf("  Reason: %s\n", m.Reason)
		}
		for _, a := range m.Attempts {
			c.io.Printf("  Tried:  %s: %s\n", a.Resolver, a.Error)
		}
		c.io.Printf("  Marked: %s\n", time.UnixMilli(m.MarkedAt).Format(time.RFC3339))
	}
	c.io.Println()
	c.io.Println("Use 'gophsync resolve <id>' on a terminal to decide.")
	return nil
}

func (c *Cli) newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id>",
		Short: "Resolve one entity and commit the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), args[0])
		},
	}
}

func (c *Cli) runResolve(ctx context.Context, id string) error {
	if err := c.services(ctx); err != nil {
		return err
	}

	res, err := c.syncService.ResolveEntity(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", id, err)
	}

	c.printEntityResult(res)
	return nil
}

func (c *Cli) newResolveAllCommand() *cobra.Command {
	var conflictedOnly bool

	cmd := &cobra.Command{
		Use:   "resolve-all",
		Short: "Resolve every entity in the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolveAll(cmd.Context(), conflictedOnly)
		},
	}

	cmd.Flags().BoolVar(&conflictedOnly, "conflicted", false, "only retry postponed conflicts")
	return cmd
}

func (c *Cli) runResolveAll(ctx context.Context, conflictedOnly bool) error {
	if err := c.services(ctx); err != nil {
		return err
	}

	var (
		summary *sync.Summary
		err     error
	)
	if conflictedOnly {
		summary, err = c.syncService.ResolveConflicted(ctx)
	} else {
		summary, err = c.syncService.ResolveAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	c.io.Println("=== Resolution ===")
	c.io.Println()
	c.io.Printf("Entities:  %d\n", summary.Total)
	c.io.Printf("Resolved:  %d\n", summary.Resolved)
	c.io.Printf("Unchanged: %d\n", summary.Unchanged)
	if summary.Postponed > 0 {
		c.io.Printf("Postponed: %d\n", summary.Postponed)
	}
	if summary.Cancelled > 0 {
		c.io.Printf("Cancelled: %d\n", summary.Cancelled)
	}
	if summary.Failed > 0 {
		c.io.Printf("Failed:    %d\n", summary.Failed)
		for _, r := range summary.Results {
			if r.Outcome == sync.OutcomeFailed {
				c.io.Printf("  %s: %v\n", r.EntityID, r.Err)
			}
		}
		return fmt.Errorf("%d of %d entities failed", summary.Failed, summary.Total)
	}
	return nil
}

func (c *Cli) printEntityResult(res *sync.EntityResult) {
	switch res.Outcome {
	case sync.OutcomeResolved:
		r := res.Result
		c.io.Printf("✓ %s resolved by %s (%s), version %d\n",
			res.EntityID, r.StrategyName, r.Resolution, r.Record.Version)
		if r.Metadata.Reason != "" {
			c.io.Printf("  Reason: %s\n", r.Metadata.Reason)
		}
		for _, fc := range r.Metadata.Conflicts {
			c.io.Printf("  %s: %s\n", fc.Field, fc.Strategy)
		}
	case sync.OutcomeUnchanged:
		c.io.Printf("✓ %s has no conflict\n", res.EntityID)
	case sync.OutcomePostponed:
		c.io.Printf("%s postponed, see 'gophsync conflicts'\n", res.EntityID)
	case sync.OutcomeCancelled:
		c.io.Printf("%s superseded by a newer conflict\n", res.EntityID)
	default:
		c.io.Printf("%s failed: %v\n", res.EntityID, res.Err)
	}
}

func (c *Cli) newRetryCommitsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "retry-commits",
		Short: "Commit results whose earlier commit failed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRetryCommits(cmd.Context())
		},
	}
}

func (c *Cli) runRetryCommits(ctx context.Context) error {
	if err := c.services(ctx); err != nil {
		return err
	}

	res, err := c.syncService.RetryCommits(ctx)
	if res != nil {
		c.io.Printf("Committed: %d\n", res.Committed)
		if len(res.Failed) > 0 {
			c.io.Printf("Failed:    %s\n", strings.Join(res.Failed, ", "))
		}
	}
	if err != nil {
		return fmt.Errorf("retry failed: %w", err)
	}
	return nil
}
