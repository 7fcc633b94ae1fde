//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package runner

import "trpc.group/trpc-go/trpc-workspace-agent-go/sink"

// pendingCall is a rendered tool call still waiting for its result.
type pendingCall struct {
	toolName string
	handle   sink.Handle
}

// pendingCalls keeps the pending calls of one turn in start order, so that
// failures are rendered in the order the calls appeared.
type pendingCalls struct {
	calls map[string]pendingCall
	order []string
}

func newPendingCalls() *pendingCalls {
	return &pendingCalls{calls: make(map[string]pendingCall)}
}

func (p *pendingCalls) add(callID string, call pendingCall) {
	if _, ok := p.calls[callID]; !ok {
		p.order = append(p.order, callID)
	}
	p.calls[callID] = call
}

func (p *pendingCalls) get(callID string) (pendingCall, bool) {
	call, ok := p.calls[callID]
	return call, ok
}

func (p *pendingCalls) remove(callID string) {
	if _, ok := p.calls[callID]; !ok {
		return
	}
	delete(p.calls, callID)
	for i, id := range p.order {
		if id == callID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

func (p *pendingCalls) len() int {
	return len(p.calls)
}

// drain removes and returns every pending call in start order.
func (p *pendingCalls) drain() []pendingCall {
	out := make([]pendingCall, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.calls[id])
	}
	p.calls = make(map[string]pendingCall)
	p.order = nil
	return out
}
