// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/go-a2a/a2a-session"
	"github.com/go-a2a/a2a-session/server/session"
)

// maxLineSize bounds one JSON event in a replay file.
const maxLineSize = 16 << 20

type replayOptions struct {
	contextID string
	taskID    string
	strict    bool
}

func newReplayCmd(a *app) *cobra.Command {
	var opts replayOptions

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Feed a JSON-lines event file through one session processor",
		Long: `Replay reads one A2A event per line ("-" reads stdin) and sends each to a
single session processor, in order. Every line is reported as accepted,
rejected (with its reason), invalid or failed. The session state after the
last line is printed at the end.

The context and task IDs default to those of the first event; a message-only
exchange gets a random task ID.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			return a.replay(cmd.Context(), in, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.contextID, "context-id", "", "Context ID of the session (default: from the first event)")
	cmd.Flags().StringVar(&opts.taskID, "task-id", "", "Task ID of the session (default: from the first event)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail if any event is rejected or invalid")

	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	return f, nil
}

// replayResult counts the outcomes of a replay.
type replayResult struct {
	accepted int
	rejected int
	invalid  int
	failed   int
}

func (r replayResult) notAccepted() int { return r.rejected + r.invalid + r.failed }

func (a *app) replay(ctx context.Context, in io.Reader, out io.Writer, opts replayOptions) error {
	lines, err := readEvents(in)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("replay file has no events")
	}
	resolveIDs(&opts, lines)

	store, closeStore, err := openStore(a.cfg.Store, a.logger)
	if err != nil {
		return fmt.Errorf("open task store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.logger.ErrorContext(ctx, "close task store", slog.Any("error", err))
		}
	}()

	popts := []session.Option{
		session.WithStore(store),
		session.WithSubscriberBuffer(a.cfg.Session.SubscriberBuffer),
		session.WithLogger(a.logger),
	}
	mirror, err := openMirror(ctx, a.cfg.NATS, a.logger)
	if err != nil {
		return fmt.Errorf("open nats mirror: %w", err)
	}
	if mirror != nil {
		defer mirror.Close()
		popts = append(popts, session.WithMirror(mirror))
	}

	p, err := session.NewProcessor(opts.contextID, opts.taskID, popts...)
	if err != nil {
		return err
	}
	defer p.Close()

	// Drain a subscriber so that a bounded buffer never stalls the replay.
	sub := p.Subscribe()
	delivered := make(chan int, 1)
	go func() {
		n := 0
		for range sub.All(ctx) {
			n++
		}
		delivered <- n
	}()

	var res replayResult
	for _, l := range lines {
		if l.err != nil {
			res.invalid++
			fmt.Fprintf(out, "%d\tinvalid\t-\t%v\n", l.number, l.err)
			continue
		}

		err := send(ctx, p, l.event)
		reason, rejected := session.IsRejected(err)
		switch {
		case err == nil:
			res.accepted++
			fmt.Fprintf(out, "%d\taccepted\t%s\n", l.number, l.event.Kind())
		case rejected:
			res.rejected++
			fmt.Fprintf(out, "%d\trejected\t%s\t%s\n", l.number, l.event.Kind(), reason)
		default:
			res.failed++
			fmt.Fprintf(out, "%d\tfailed\t%s\t%v\n", l.number, l.event.Kind(), err)
		}
	}

	if err := p.Close(); err != nil {
		return err
	}
	n := <-delivered

	fmt.Fprintf(out, "state: %s\n", describe(p.State()))
	fmt.Fprintf(out, "accepted: %d rejected: %d invalid: %d failed: %d delivered: %d\n",
		res.accepted, res.rejected, res.invalid, res.failed, n)

	if opts.strict && res.notAccepted() > 0 {
		return fmt.Errorf("%d of %d events were not accepted", res.notAccepted(), len(lines))
	}
	return nil
}

type replayLine struct {
	number int
	event  a2a.Event
	err    error
}

// readEvents decodes every non-blank line of in. Lines that fail to decode
// are kept with their error.
func readEvents(in io.Reader) ([]replayLine, error) {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	var lines []replayLine
	for n := 1; sc.Scan(); n++ {
		data := bytes.TrimSpace(sc.Bytes())
		if len(data) == 0 {
			continue
		}
		ev, err := a2a.UnmarshalEvent(data)
		lines = append(lines, replayLine{number: n, event: ev, err: err})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read replay file: %w", err)
	}
	return lines, nil
}

// resolveIDs fills the IDs opts leaves empty from the first decoded event.
func resolveIDs(opts *replayOptions, lines []replayLine) {
	for _, l := range lines {
		if l.event == nil {
			continue
		}
		if opts.contextID == "" {
			opts.contextID = l.event.GetContextID()
		}
		if te, ok := l.event.(a2a.TaskEvent); ok && opts.taskID == "" {
			opts.taskID = te.GetTaskID()
		}
		break
	}
	if opts.contextID == "" {
		opts.contextID = uuid.NewString()
	}
	if opts.taskID == "" {
		opts.taskID = uuid.NewString()
	}
}

func send(ctx context.Context, p *session.Processor, ev a2a.Event) error {
	switch e := ev.(type) {
	case *a2a.Message:
		return p.SendMessage(ctx, e)
	case a2a.TaskEvent:
		return p.SendTaskEvent(ctx, e)
	default:
		return fmt.Errorf("unsupported event type %T", ev)
	}
}

func describe(st session.SessionType) string {
	switch s := st.(type) {
	case session.MessageSession:
		return "message"
	case session.TaskSession:
		return fmt.Sprintf("task %s %s final=%t", s.TaskID, s.TaskState, s.FinalReceived)
	default:
		return "uninitialized"
	}
}
