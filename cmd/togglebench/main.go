package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/d60-Lab/sleep-social/config"
	"github.com/d60-Lab/sleep-social/internal/model"
	"github.com/d60-Lab/sleep-social/internal/repository"
	"github.com/d60-Lab/sleep-social/internal/service"
	"github.com/d60-Lab/sleep-social/pkg/database"
)

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// run executes op n times across conc workers and returns per-op latencies.
func run(n, conc int, op func(i int) error) ([]time.Duration, int, time.Duration) {
	if conc > n {
		conc = n
	}
	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var (
		mu       sync.Mutex
		lat      = make([]time.Duration, 0, n)
		rejected int
		wg       sync.WaitGroup
	)
	start := time.Now()
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				st := time.Now()
				err := op(i)
				d := time.Since(st)
				mu.Lock()
				lat = append(lat, d)
				if err != nil {
					rejected++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return lat, rejected, time.Since(start)
}

func report(name string, n int, lat []time.Duration, rejected int, total time.Duration) {
	fmt.Printf("%s: total=%v per-op=%v p50=%v p95=%v p99=%v rejected=%d\n",
		name, total, total/time.Duration(n), pct(lat, 0.50), pct(lat, 0.95), pct(lat, 0.99), rejected)
}

type benchOptions struct {
	users   int
	toggles int
	conc    int
}

func main() {
	var opts benchOptions
	cmd := &cobra.Command{
		Use:   "togglebench",
		Short: "Concurrent follow/clock/feed load against the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.users < 2 || opts.toggles < 1 || opts.conc < 1 {
				return fmt.Errorf("users must be >= 2, toggles and conc >= 1")
			}
			return runBench(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.users, "users", 50, "number of seeded users")
	cmd.Flags().IntVar(&opts.toggles, "toggles", 2000, "total clock toggles")
	cmd.Flags().IntVar(&opts.conc, "conc", 16, "concurrent workers")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runBench(ctx context.Context, opts benchOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	users, toggles, conc := opts.users, opts.toggles, opts.conc

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	recordRepo := repository.NewSleepRecordRepository(db)
	sleepSvc := service.NewSleepService(recordRepo)
	relSvc := service.NewRelationshipService(userRepo, followRepo)
	feedSvc := service.NewFeedService(followRepo, recordRepo, nil)

	seeded := make([]*model.User, users)
	for i := range seeded {
		id := uuid.New().String()
		u := &model.User{ID: id, Name: "bench-" + id[:8], Email: id[:8] + "@bench.local", PasswordHash: "x"}
		if err := userRepo.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		seeded[i] = u
	}

	// 每个用户关注下一个用户，同时混入重复关注与自关注
	lat, rej, total := run(users*2, conc, func(i int) error {
		from := seeded[i%users]
		to := seeded[(i+1)%users]
		if i%10 == 0 {
			to = from
		}
		_, err := relSvc.Follow(ctx, from, to.ID)
		return err
	})
	report("follow", users*2, lat, rej, total)

	lat, rej, total = run(toggles, conc, func(i int) error {
		_, err := sleepSvc.Clock(ctx, seeded[i%users])
		return err
	})
	report("toggle", toggles, lat, rej, total)

	lat, rej, total = run(users, conc, func(i int) error {
		_, err := feedSvc.FollowingFeed(ctx, seeded[i])
		return err
	})
	report("feed", users, lat, rej, total)

	violations := 0
	for _, u := range seeded {
		open, err := recordRepo.CountOpen(ctx, u.ID)
		if err != nil {
			return err
		}
		if open > 1 {
			violations++
		}
	}
	fmt.Printf("users=%d toggles=%d conc=%d driver=%s open-record violations=%d\n",
		users, toggles, conc, cfg.Database.Driver, violations)
	if violations > 0 {
		return fmt.Errorf("%d users hold more than one open record", violations)
	}
	return nil
}
