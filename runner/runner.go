//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package runner drives user turns against a remote agent and renders their
// events on a sink.
package runner

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"trpc.group/trpc-go/trpc-workspace-agent-go/agent"
	"trpc.group/trpc-go/trpc-workspace-agent-go/event"
	itelemetry "trpc.group/trpc-go/trpc-workspace-agent-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
	"trpc.group/trpc-go/trpc-workspace-agent-go/session"
	"trpc.group/trpc-go/trpc-workspace-agent-go/sink"
	tmetric "trpc.group/trpc-go/trpc-workspace-agent-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-workspace-agent-go/telemetry/trace"
)

// Outcome is how a turn ended.
type Outcome int

const (
	// OutcomeResponded means the agent yielded at least one event.
	OutcomeResponded Outcome = iota
	// OutcomeNoResponse means every attempt ended with an empty stream.
	// Nothing was rendered.
	OutcomeNoResponse
	// OutcomeFailed means an error ended the turn. Pending calls were marked
	// failed and the failure answer was rendered.
	OutcomeFailed
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeResponded:
		return "responded"
	case OutcomeNoResponse:
		return "no_response"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes a finished turn.
type Result struct {
	Outcome   Outcome
	Attempts  int    // Attempts is the number of streams requested.
	SessionID string // SessionID is empty when the session lookup failed.
	Err       error  // Err is the error that failed the turn, for logging.
}

// Runner runs turns. A Runner holds no per-turn state and is safe for
// concurrent use.
type Runner struct {
	store  *session.Store
	client agent.Client
	opts   options

	attempts metric.Int64Counter
	outcomes metric.Int64Counter
}

// New creates a Runner resolving sessions with store and streaming from client.
func New(store *session.Store, client agent.Client, opts ...Option) *Runner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = trace.Tracer
	}
	if o.meter == nil {
		o.meter = tmetric.Meter
	}

	r := &Runner{store: store, client: client, opts: o}
	var err error
	if r.attempts, err = o.meter.Int64Counter(itelemetry.MetricTurnAttempts,
		metric.WithDescription("Agent streams requested by turns.")); err != nil {
		log.Warnf("create %s counter: %v", itelemetry.MetricTurnAttempts, err)
	}
	if r.outcomes, err = o.meter.Int64Counter(itelemetry.MetricTurnOutcomes,
		metric.WithDescription("Finished turns by outcome.")); err != nil {
		log.Warnf("create %s counter: %v", itelemetry.MetricTurnOutcomes, err)
	}
	return r
}

// MaxAttempts returns the attempt bound of a turn.
func (r *Runner) MaxAttempts() int {
	return r.opts.maxAttempts
}

// RunTurn runs one turn of user with input and renders it on s.
//
// RunTurn never returns an error: failures are rendered on s and reported
// in the Result.
func (r *Runner) RunTurn(ctx context.Context, user string, input any, s sink.Sink) Result {
	ctx, span := r.opts.tracer.Start(ctx, itelemetry.SpanNameRunTurn)
	defer span.End()

	t := &turn{
		Runner:  r,
		user:    user,
		input:   input,
		sink:    s,
		ignored: s.IgnoredAuthors(),
		pending: newPendingCalls(),
	}
	res := t.run(ctx)

	itelemetry.TraceRunTurn(span, user, res.SessionID, res.Attempts, res.Outcome.String())
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
	}
	if r.attempts != nil {
		r.attempts.Add(ctx, int64(res.Attempts))
	}
	if r.outcomes != nil {
		r.outcomes.Add(ctx, 1, metric.WithAttributes(itelemetry.KeyOutcome.String(res.Outcome.String())))
	}
	return res
}

// turn is the state of one RunTurn call.
type turn struct {
	*Runner
	user    string
	input   any
	sink    sink.Sink
	ignored map[string]struct{}
	pending *pendingCalls
}

func (t *turn) run(ctx context.Context) Result {
	var res Result
	sessionID, err := t.store.GetOrCreate(ctx, t.user)
	if err != nil {
		return t.fail(ctx, res, err)
	}
	res.SessionID = sessionID
	userID := session.UserPseudoID(t.user)

	responded := false
	for res.Attempts < t.opts.maxAttempts && !responded {
		res.Attempts++
		log.Debugf("agent request %d/%d for %s", res.Attempts, t.opts.maxAttempts, t.user)
		content, err := t.sink.ExtractInput(ctx, t.input)
		if err != nil {
			return t.fail(ctx, res, fmt.Errorf("extract input: %w", err))
		}
		for evt, err := range t.client.Stream(ctx, userID, sessionID, content) {
			if err != nil {
				return t.fail(ctx, res, fmt.Errorf("agent stream: %w", err))
			}
			responded = true
			if err := t.dispatch(ctx, evt); err != nil {
				return t.fail(ctx, res, err)
			}
		}
	}

	if !responded {
		log.Warnf("no response from the agent for %s after %d attempts", t.user, res.Attempts)
		res.Outcome = OutcomeNoResponse
		return res
	}
	if n := t.pending.len(); n > 0 {
		log.Warnf("turn of %s ended with %d tool calls without result", t.user, n)
	}
	res.Outcome = OutcomeResponded
	return res
}

// dispatch renders one event.
func (t *turn) dispatch(ctx context.Context, evt *event.Event) error {
	if evt == nil {
		return nil
	}
	switch evt.Kind {
	case event.KindContent:
		log.Debugf("%s: answer", evt.Author)
		if err := t.sink.FinalAnswer(ctx, evt.Author, evt.Text, true, false); err != nil {
			return fmt.Errorf("render answer of %s: %w", evt.Author, err)
		}
	case event.KindToolCallStart:
		if t.skipped(evt) {
			log.Debugf("%s: internal event, call of %s", evt.Author, evt.ToolName)
			return nil
		}
		h, err := t.sink.FunctionCallingInitiation(ctx, evt.Author, evt.ToolName)
		if err != nil {
			return fmt.Errorf("render call of %s: %w", evt.ToolName, err)
		}
		t.pending.add(evt.CallID, pendingCall{toolName: evt.ToolName, handle: h})
	case event.KindToolCallEnd:
		if t.skipped(evt) {
			log.Debugf("%s: internal event, result of %s", evt.Author, evt.ToolName)
			return nil
		}
		call, ok := t.pending.get(evt.CallID)
		if !ok {
			log.Warnf("%s: result of %s for unknown call %q skipped", evt.Author, evt.ToolName, evt.CallID)
			return nil
		}
		if err := t.sink.FunctionCallingCompletion(ctx, evt.Author, evt.ToolName, evt.Result, call.handle); err != nil {
			return fmt.Errorf("render result of %s: %w", evt.ToolName, err)
		}
		t.pending.remove(evt.CallID)
	case event.KindInternal:
		log.Debugf("%s: internal event", evt.Author)
	default:
		log.Warnf("%s: unknown event kind %s", evt.Author, evt.Kind)
	}
	return nil
}

func (t *turn) skipped(evt *event.Event) bool {
	if evt.IsTransfer() {
		return true
	}
	_, ok := t.ignored[evt.ToolName]
	return ok
}

// fail marks every pending call failed and renders the failure answer.
// Rendering errors are logged only.
func (t *turn) fail(ctx context.Context, res Result, err error) Result {
	log.Errorf("turn of %s failed: %v", t.user, err)
	for _, call := range t.pending.drain() {
		if ferr := t.sink.FunctionCallingFailure(ctx, call.toolName, call.handle); ferr != nil {
			log.Errorf("render failure of %s: %v", call.toolName, ferr)
		}
	}
	if ferr := t.sink.FinalAnswer(ctx, sink.DefaultAuthor, t.opts.failureText, false, true); ferr != nil {
		log.Errorf("render failure answer: %v", ferr)
	}
	res.Outcome = OutcomeFailed
	res.Err = err
	return res
}
