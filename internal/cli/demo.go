package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rustgd/machinae"
	"github.com/rustgd/machinae/internal/demo"
	"github.com/rustgd/machinae/internal/logging"
	"github.com/rustgd/machinae/internal/scenario"
	"github.com/rustgd/machinae/internal/tui"
	fileAdapter "github.com/rustgd/machinae/pkg/adapters/file"
	httpAdapter "github.com/rustgd/machinae/pkg/adapters/http"
	redisAdapter "github.com/rustgd/machinae/pkg/adapters/redis"
	"github.com/rustgd/machinae/pkg/observability"
	"github.com/rustgd/machinae/pkg/runner"
	"github.com/rustgd/machinae/pkg/trace"
)

// DemoOptions configures a demo run.
type DemoOptions struct {
	Script      string        // scenario file; empty means interactive stdin
	Duration    time.Duration // wall-clock cap; zero runs until quit
	FPS         int           // fixed updates per second
	TracePath   string        // journal file; empty disables tracing
	RedisAddr   string        // journal to redis instead of a file
	MetricsAddr string        // prometheus endpoint; empty disables it
	LogLevel    string        // debug, info, warn, error
	NoBanner    bool

	// In and Out default to os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer
}

// RunDemo wires the machine, loop, trace sink and metrics together and runs
// the demo until the player quits, the duration elapses, or a signal
// arrives.
func RunDemo(opts DemoOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	in := opts.In
	if in == nil {
		in = os.Stdin
	}

	levelName := opts.LogLevel
	if levelName == "" {
		levelName = "info"
	}
	level, err := logging.Parse(levelName)
	if err != nil {
		return err
	}
	logger := logging.New(level)

	var script scenario.Script
	if opts.Script != "" {
		loaded, err := scenario.Load(opts.Script)
		if err != nil {
			return err
		}
		script = *loaded
	}

	if !opts.NoBanner {
		tui.PrintBanner()
	}

	var hookList []machinae.Hooks

	var store *redisAdapter.Store
	var sink trace.Sink
	switch {
	case opts.RedisAddr != "":
		store = redisAdapter.New(opts.RedisAddr, "", 0)
		sink = store
	case opts.TracePath != "":
		fs, err := fileAdapter.New(opts.TracePath)
		if err != nil {
			return err
		}
		sink = fs
	}

	if opts.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics := observability.New(reg)
		hookList = append(hookList, metrics.Hooks())

		srvOpts := []httpAdapter.Option{httpAdapter.WithMetrics(reg), httpAdapter.WithLogger(logger)}
		if store != nil {
			srvOpts = append(srvOpts, httpAdapter.WithSource(store))
		}
		srv := httpAdapter.New(opts.MetricsAddr, srvOpts...)
		if sink != nil {
			sink = srv.Sink(sink)
		}
		srv.Start()
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer scancel()
			srv.Shutdown(sctx)
		}()
	}

	var rec *trace.Recorder
	if sink != nil {
		rec = trace.NewRecorder(sink, trace.WithLogger(logger))
		hookList = append(hookList, rec.Hooks())
		defer sink.Close()
	}

	machineOpts := []machinae.Option{machinae.WithLogger(logger)}
	if len(hookList) > 0 {
		machineOpts = append(machineOpts, machinae.WithHooks(machinae.JoinHooks(hookList...)))
	}
	m := demo.New(script.Settings, machineOpts...)

	render := tui.NewRenderer()
	makeWorld := func(f runner.Frame) *demo.World {
		return &demo.World{
			Frame:  f.Number,
			Delta:  f.Delta,
			Total:  f.Total,
			Out:    out,
			Render: render,
			Logger: logger,
		}
	}

	step := runner.DefaultFixedStep
	if opts.FPS > 0 {
		step = time.Second / time.Duration(opts.FPS)
	}
	loop := runner.New[*demo.World, demo.Input](m, makeWorld, runner.WithFixedStep(step))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if opts.Duration > 0 {
		var timed context.CancelFunc
		ctx, timed = context.WithTimeout(ctx, opts.Duration)
		defer timed()
	}

	if len(script.Steps) > 0 {
		go feedScript(ctx, loop, scenario.NewPlayer(&script), logger)
	} else {
		printSystemMessage(out, "inputs: start, pause, resume, retry, quit")
		go feedLines(in, loop, logger)
	}

	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return err
	}

	// Close out lifecycles so the journal records the full teardown.
	if m.Running() {
		m.Stop(&demo.World{Out: out, Render: render, Logger: logger})
	}

	printSystemMessage(out, "demo finished after %d frames", loop.Frames())
	if rec != nil {
		if opts.TracePath != "" {
			printSystemMessage(out, "trace written to %s (run %s)", opts.TracePath, rec.Run())
		} else {
			printSystemMessage(out, "trace recorded to redis (run %s)", rec.Run())
		}
		if dropped := rec.Dropped(); dropped > 0 {
			logger.Warn("journal entries dropped", "count", dropped)
		}
	}
	return nil
}

// feedScript replays scripted inputs against the loop's wall clock.
func feedScript(ctx context.Context, loop *runner.Loop[*demo.World, demo.Input], player *scenario.Player, logger *slog.Logger) {
	start := time.Now()
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, in := range player.Due(time.Since(start)) {
				if err := loop.Send(in); err != nil {
					logger.Warn("dropping scripted input", "input", string(in), "err", err)
				}
			}
			if player.Done() {
				return
			}
		}
	}
}

// feedLines forwards typed inputs. It exits when the reader does, which for
// stdin is the end of the process anyway.
func feedLines(r io.Reader, loop *runner.Loop[*demo.World, demo.Input], logger *slog.Logger) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		in, err := demo.ParseInput(text)
		if err != nil {
			logger.Warn("ignoring input", "err", err)
			continue
		}
		if err := loop.Send(in); err != nil {
			logger.Warn("dropping input", "input", text, "err", err)
		}
	}
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
