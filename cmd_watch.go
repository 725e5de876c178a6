package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kisan_bazaar/marketplace"
	"kisan_bazaar/scheduler"
	"kisan_bazaar/workers"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the filtered view current and print it whenever it changes",
	Long: `Runs until interrupted. The view is refreshed on start, then on the schedule
set by REFRESH_CRON or REFRESH_INTERVAL. Without either, it refreshes once.
Send SIGHUP to refresh immediately.`,
	RunE: runWatch,
}

func init() {
	addFilterFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	a.pipeline.SetCriteria(listCriteria())

	changes := make(chan marketplace.Snapshot, 1)
	a.pipeline.Subscribe(func(s marketplace.Snapshot) {
		if s.Status.Loading {
			return
		}
		// keep only the latest snapshot; never block the refresh path
		for {
			select {
			case changes <- s:
				return
			default:
			}
			select {
			case <-changes:
			default:
			}
		}
	})

	worker := workers.NewRefreshWorker(a.pipeline, a.logger)
	sched := scheduler.New(a.cfg.Scheduler, worker, a.logger)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		triggerOnSignal(gctx, hup, sched, a.logger)
		return nil
	})
	g.Go(func() error {
		var last string
		for {
			select {
			case <-gctx.Done():
				return nil
			case s := <-changes:
				if banner := s.Status.Banner(); banner != "" && banner != last {
					fmt.Fprintln(cmd.ErrOrStderr(), banner)
				}
				last = s.Status.Banner()
				fmt.Fprintf(out, "\n[%s]\n", time.Now().Format("15:04:05"))
				printListings(out, s, time.Now())
			}
		}
	})

	a.logger.Info("Watching listings. Press Ctrl+C to stop.")
	err = g.Wait()
	runs, failures := worker.Stats()
	a.logger.Info("Shutting down", zap.Int64("refreshes", runs), zap.Int64("failures", failures))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

type triggerer interface {
	TriggerNow()
}

// triggerOnSignal asks for an immediate refresh each time sig fires, until ctx is done.
func triggerOnSignal(ctx context.Context, sig <-chan os.Signal, t triggerer, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-sig:
			logger.Info("Refresh requested", zap.String("signal", s.String()))
			t.TriggerNow()
		}
	}
}
