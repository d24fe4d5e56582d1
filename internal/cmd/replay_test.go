// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/a2a-session"
)

func eventLines(t *testing.T, events ...a2a.Event) string {
	t.Helper()

	var buf bytes.Buffer
	for _, ev := range events {
		if err := a2a.WriteEvent(&buf, ev); err != nil {
			t.Fatal(err)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	// Keep the environment from overriding the built-in defaults.
	for _, key := range []string{"DATABASE_URL", "NATS_URL", "A2A_SESSION_STORE_DRIVER", "A2A_SESSION_LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestReplayTaskLifecycle(t *testing.T) {
	input := eventLines(t,
		a2a.NewStatusUpdateEvent("t1", "c1", a2a.TaskStateWorking, nil, false),
		&a2a.Task{ID: "t1", ContextID: "c1", Status: a2a.TaskStatus{State: a2a.TaskStateSubmitted}},
		a2a.NewStatusUpdateEvent("t1", "c1", a2a.TaskStateWorking, nil, false),
		a2a.NewStatusUpdateEvent("t1", "c1", a2a.TaskStateCompleted, nil, false),
		a2a.NewStatusUpdateEvent("t1", "c1", a2a.TaskStateCompleted, nil, true),
		a2a.NewUserTextMessage("late", "c1", "t1"),
	) + "\n{\"kind\":\"bogus\"}\n"

	out, err := runRoot(t, input, "replay", "-")
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}

	want := []string{
		"1\trejected\tstatus-update\ttask does not exist",
		"2\taccepted\ttask",
		"3\taccepted\tstatus-update",
		"4\trejected\tstatus-update\tterminal status update requires final flag",
		"5\taccepted\tstatus-update",
		"6\trejected\tmessage\ttask already initialized",
		`8	invalid	-	unknown event kind "bogus"`,
		"state: task t1 completed final=true",
		"accepted: 3 rejected: 3 invalid: 1 failed: 0 delivered: 3",
	}
	if diff := cmp.Diff(want, strings.Split(strings.TrimSpace(out), "\n")); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestReplayMessageExchangeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	input := eventLines(t, a2a.NewAgentTextMessage("hello", "c9", ""), a2a.NewAgentTextMessage("again", "c9", ""))
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runRoot(t, "", "replay", path)
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	for _, line := range []string{"1\taccepted\tmessage", "2\trejected\tmessage\tmessage already sent", "state: message"} {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}

	if _, err := runRoot(t, "", "replay", "--strict", path); err == nil {
		t.Error("strict replay with a rejected event error = nil")
	}
}

func TestReplayExplicitIDs(t *testing.T) {
	input := eventLines(t, &a2a.Task{ID: "t1", ContextID: "c1", Status: a2a.TaskStatus{State: a2a.TaskStateWorking}})

	out, err := runRoot(t, input, "replay", "--context-id", "c1", "--task-id", "t2", "-")
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	if !strings.Contains(out, "1\trejected\ttask\ttask id mismatch\n") {
		t.Errorf("output = %q", out)
	}
}

func TestReplayErrors(t *testing.T) {
	tests := map[string]struct {
		stdin string
		args  []string
	}{
		"empty input":             {stdin: "\n\n", args: []string{"replay", "-"}},
		"missing file":            {args: []string{"replay", filepath.Join(os.TempDir(), "does-not-exist.jsonl")}},
		"no argument":             {args: []string{"replay"}},
		"migrate on memory store": {args: []string{"migrate"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := runRoot(t, tt.stdin, tt.args...); err == nil {
				t.Error("error = nil")
			}
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := runRoot(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, a2a.Version) {
		t.Errorf("version output = %q", out)
	}
}

func TestReadEventsAndResolveIDs(t *testing.T) {
	t.Parallel()

	lines, err := readEvents(strings.NewReader("\n  \n{}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].number != 3 || lines[0].err == nil {
		t.Errorf("readEvents() = %+v", lines)
	}

	opts := replayOptions{}
	resolveIDs(&opts, lines)
	if opts.contextID == "" || opts.taskID == "" {
		t.Errorf("resolveIDs() left empty IDs: %+v", opts)
	}
}
