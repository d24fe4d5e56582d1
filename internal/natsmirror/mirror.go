// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package natsmirror copies the events accepted by session processors to a
// NATS JetStream stream, so that processes other than the one running the
// session can follow it.
package natsmirror

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/go-a2a/a2a-session"
)

// Header names set on every mirrored message.
const (
	HeaderEventKind = "A2A-Event-Kind"
	HeaderContextID = "A2A-Context-Id"
)

// DefaultSubjectPrefix is the subject prefix used when none is configured.
const DefaultSubjectPrefix = "a2a.session"

// Publisher is the part of [jetstream.JetStream] the mirror needs.
type Publisher interface {
	PublishMsg(ctx context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

var _ Publisher = (jetstream.JetStream)(nil)

// Mirror publishes events as JSON to <prefix>.<context ID>.<task ID>. A
// message exchange has no task and uses "message" as its last token.
type Mirror struct {
	js     Publisher
	prefix string
	nc     *nats.Conn
	logger *slog.Logger
}

// Option configures a [Mirror].
type Option func(*Mirror)

// WithSubjectPrefix sets the subject prefix.
func WithSubjectPrefix(prefix string) Option {
	return func(m *Mirror) {
		m.prefix = strings.TrimSuffix(prefix, ".")
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mirror) {
		m.logger = logger
	}
}

// New returns a Mirror publishing through js.
func New(js Publisher, opts ...Option) *Mirror {
	m := &Mirror{
		js:     js,
		prefix: DefaultSubjectPrefix,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Connect connects to the NATS server at url, makes sure stream captures the
// mirror subjects and returns a Mirror owning the connection.
func Connect(ctx context.Context, url, stream string, opts ...Option) (*Mirror, error) {
	nc, err := nats.Connect(url, nats.Name("a2a-session"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	m := New(js, opts...)
	m.nc = nc

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     stream,
		Subjects: []string{m.prefix + ".>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}

	m.logger.InfoContext(ctx, "nats mirror connected", slog.String("url", url), slog.String("stream", stream))
	return m, nil
}

// Subject returns the subject event is published to.
func (m *Mirror) Subject(event a2a.Event) string {
	last := "message"
	if te, ok := event.(a2a.TaskEvent); ok {
		last = token(te.GetTaskID())
	}
	return m.prefix + "." + token(event.GetContextID()) + "." + last
}

// Publish publishes event and waits for the stream acknowledgement.
func (m *Mirror) Publish(ctx context.Context, event a2a.Event) error {
	data, err := a2a.MarshalEvent(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := nats.NewMsg(m.Subject(event))
	msg.Data = data
	msg.Header.Set(HeaderEventKind, string(event.Kind()))
	msg.Header.Set(HeaderContextID, event.GetContextID())

	var opts []jetstream.PublishOpt
	if am, ok := event.(*a2a.Message); ok && am.MessageID != "" {
		opts = append(opts, jetstream.WithMsgID(am.MessageID))
	}

	if _, err := m.js.PublishMsg(ctx, msg, opts...); err != nil {
		return fmt.Errorf("nats publish %s: %w", msg.Subject, err)
	}
	return nil
}

// Close closes the connection opened by [Connect]. It does nothing for a
// Mirror created by [New].
func (m *Mirror) Close() error {
	if m.nc == nil {
		return nil
	}
	if err := m.nc.Drain(); err != nil {
		m.nc.Close()
		return fmt.Errorf("nats drain: %w", err)
	}
	return nil
}

// token makes s usable as a single subject token.
func token(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, s)
}
