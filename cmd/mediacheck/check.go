package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pion/mediacheck"
	"github.com/pion/mediacheck/pkg/driver"
)

const barWidth = 40

type result struct {
	name string
	err  error
}

// report collects check results in order.
type report struct {
	mu      sync.Mutex
	results []result
}

func (r *report) add(name string, err error) {
	r.mu.Lock()
	r.results = append(r.results, result{name, err})
	r.mu.Unlock()
}

func (r *report) print(w io.Writer) (failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, res := range r.results {
		if res.err != nil {
			failed++
			fmt.Fprintf(w, "FAIL  %-7s %v\n", res.name, res.err)
			continue
		}
		fmt.Fprintf(w, "PASS  %s\n", res.name)
	}
	return failed
}

// levelPrinter redraws a level bar at most every interval.
type levelPrinter struct {
	w        io.Writer
	interval time.Duration

	mu       sync.Mutex
	last     time.Time
	printed  bool
	finished bool
}

func (p *levelPrinter) SetLevel(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finished {
		return
	}
	if now := time.Now(); now.Sub(p.last) >= p.interval {
		p.last = now
		fmt.Fprintf(p.w, "\rmicrophone %s %3.0f%%", levelBar(level, barWidth), level*100)
		p.printed = true
	}
}

// finish stops drawing. Nothing is written to w afterwards.
func (p *levelPrinter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.printed && !p.finished {
		fmt.Fprintln(p.w)
	}
	p.finished = true
}

func runCheck(ctx context.Context, w io.Writer, cfg *Config) error {
	m := driver.NewManager()
	if err := registerDrivers(m, cfg.Synthetic); err != nil {
		return err
	}

	md := mediacheck.NewMediaDevices(m)
	gate := mediacheck.NewGate(
		mediacheck.WithUserMediaProviders(md),
		mediacheck.WithDisplayMediaProvider(md),
	)

	printer := &levelPrinter{w: w, interval: 100 * time.Millisecond}
	defer printer.finish()

	tester, err := mediacheck.NewTester(gate,
		mediacheck.WithMediaElementContainer(mediacheck.NewContainer()),
		mediacheck.WithVolumeMeterElement(printer),
		mediacheck.WithQuietVolume(cfg.QuietVolume),
	)
	if err != nil {
		return err
	}
	defer tester.Close()

	var r report
	if err := tester.CheckBrowser(); err != nil {
		r.add("devices", err)
		return summarize(w, &r)
	}

	if cfg.Video {
		r.add("video", tester.StartVideo(ctx))
	}

	if cfg.Audio {
		err := tester.StartAudio(ctx)
		if err == nil {
			err = watchLevels(ctx, tester, cfg.Duration)
		}
		printer.finish()
		r.add("audio", err)
	}

	if cfg.Screen {
		r.add("screen", checkScreen(ctx, tester))
	}

	return summarize(w, &r)
}

// watchLevels waits for duration and fails when the microphone delivered no
// level at all.
func watchLevels(ctx context.Context, tester *mediacheck.Tester, duration time.Duration) error {
	levels := tester.Levels()
	timer := time.NewTimer(duration)
	defer timer.Stop()

	var received int
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if received == 0 {
				return fmt.Errorf("no microphone level within %s", duration)
			}
			return nil
		case _, ok := <-levels:
			if !ok {
				return fmt.Errorf("microphone stopped after %d level(s)", received)
			}
			received++
		}
	}
}

func checkScreen(ctx context.Context, tester *mediacheck.Tester) error {
	if !tester.CheckScreenSharing() {
		return mediacheck.NewError(mediacheck.BrowserNotSupported, "Your browser doesn't support screen sharing.")
	}
	if err := tester.StartScreenSharing(ctx); err != nil {
		return err
	}
	return tester.EndScreenSharing()
}

func summarize(w io.Writer, r *report) error {
	if failed := r.print(w); failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}
