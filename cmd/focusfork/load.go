package main

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/focusfork/internal/client"
	"github.com/okian/focusfork/pkg/logger"
)

const defaultWorkersPerCPU = 2

var (
	loadRequests int
	loadWorkers  int
)

// loadStats counts outcomes of a load run.
type loadStats struct {
	Submitted int64
	Selected  int64
	Empty     int64
	Failed    int64
	Duration  time.Duration
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Fire concurrent scout requests and report outcomes",
	Long: `Fire --requests scout requests across --workers goroutines and report how
many selected an issue, found nothing or failed.

Every request is one GitHub search on the server side, so keep the count low
against the public API.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		stats := runLoad(cmd.Context(), c, loadRequests, loadWorkers)
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, stats)
		}
		fmt.Fprintf(w, "Requests: %d in %s\n", stats.Submitted, stats.Duration.Round(time.Millisecond))
		fmt.Fprintf(w, "  selected: %d\n  empty:    %d\n  failed:   %d\n", stats.Selected, stats.Empty, stats.Failed)
		return nil
	},
}

func init() {
	loadCmd.Flags().IntVarP(&loadRequests, "requests", "n", 10, "Number of scout requests")
	loadCmd.Flags().IntVarP(&loadWorkers, "workers", "w", runtime.NumCPU()*defaultWorkersPerCPU, "Concurrent workers")
	loadCmd.Flags().StringVarP(&language, "language", "l", "", "Repository language")
	loadCmd.Flags().StringVarP(&skillLevel, "skill", "s", "", "Skill level")
}

// runLoad distributes n scout requests over a worker pool.
func runLoad(ctx context.Context, c *client.Client, n, workers int) loadStats {
	if workers < 1 {
		workers = 1
	}
	log := logger.Get().Named("load")
	start := time.Now()

	var selected, empty, failed, submitted int64
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				if ctx.Err() != nil {
					return
				}
				sel, err := c.Scout(ctx, language, skillLevel)
				atomic.AddInt64(&submitted, 1)
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
					log.Debug(ctx, "scout failed", logger.Error(err))
				case sel == nil:
					atomic.AddInt64(&empty, 1)
				default:
					atomic.AddInt64(&selected, 1)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	return loadStats{
		Submitted: atomic.LoadInt64(&submitted),
		Selected:  atomic.LoadInt64(&selected),
		Empty:     atomic.LoadInt64(&empty),
		Failed:    atomic.LoadInt64(&failed),
		Duration:  time.Since(start),
	}
}
