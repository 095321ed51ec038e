package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophsync/internal/analytics"
)

// statsReport снимок аналитики с производными показателями
type statsReport struct {
	*analytics.Snapshot
	AvgFieldsInConflict float64 `json:"avg_fields_in_conflict"`
	AvgDurationMs       float64 `json:"avg_duration_ms"`
	AutoResolutionRate  float64 `json:"auto_resolution_rate"`
}

func (c *Cli) newStatsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show conflict analytics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd.Context(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (c *Cli) runStats(ctx context.Context, asJSON bool) error {
	if err := c.services(ctx); err != nil {
		return err
	}
	if c.stats == nil {
		return fmt.Errorf("analytics are not configured")
	}

	snap, err := c.stats.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load analytics: %w", err)
	}

	report := statsReport{
		Snapshot:            snap,
		AvgFieldsInConflict: snap.AvgFieldsInConflict(),
		AvgDurationMs:       snap.AvgDurationMs(),
		AutoResolutionRate:  snap.AutoResolutionRate(),
	}

	if asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		c.io.Println(string(data))
		return nil
	}

	c.io.Println("=== Conflict analytics ===")
	c.io.Println()
	c.io.Printf("Detected:        %d\n", snap.Detected)
	c.io.Printf("Resolved:        %d\n", snap.Resolved)
	c.io.Printf("Auto-resolved:   %d (%.1f%%)\n", snap.AutoResolved, report.AutoResolutionRate*100)
	c.io.Printf("Avg fields:      %.2f\n", report.AvgFieldsInConflict)
	c.io.Printf("Avg duration:    %s\n", time.Duration(report.AvgDurationMs*float64(time.Millisecond)))
	c.io.Printf("Max duration:    %s\n", time.Duration(snap.MaxDurationMs)*time.Millisecond)

	c.printCounts("By conflict type", stringKeys(snap.ByConflictType))
	c.printCounts("By entity type", snap.ByEntityType)
	c.printCounts("By strategy", snap.ByStrategy)
	c.printCounts("By method", stringKeys(snap.ByMethod))
	return nil
}

func (c *Cli) printCounts(title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c.io.Println()
	c.io.Printf("%s:\n", title)
	for _, k := range keys {
		c.io.Printf("  %-20s %d\n", k, counts[k])
	}
}

func stringKeys[K ~string](m map[K]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func (c *Cli) newVersionCommand(info VersionInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c.io.Println("gophsync")
			c.io.Printf("Version:    %s\n", info.Version)
			c.io.Printf("Build Date: %s\n", info.BuildDate)
			c.io.Printf("Git Commit: %s\n", info.GitCommit)
		},
	}
}
