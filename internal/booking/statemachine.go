package booking

import "servicehub/internal/apperr"

type Action string

const (
	ActionRequestStart  Action = "request_start"
	ActionRequestFinish Action = "request_finish"
	ActionAcceptStart   Action = "accept_start"
	ActionDenyStart     Action = "deny_start"
	ActionAcceptFinish  Action = "accept_finish"
	ActionDenyFinish    Action = "deny_finish"
)

// ByProvider reports whether the action belongs to the provider; replies belong to the client.
func (a Action) ByProvider() bool {
	return a == ActionRequestStart || a == ActionRequestFinish
}

var blocked = map[Action][]RequestWorkState{
	ActionRequestStart:  {WorkRunning, WorkCompleted, WorkDispute, WorkRequestFinish, WorkRequestFinishDenied},
	ActionRequestFinish: {WorkCompleted, WorkDispute, WorkRequestStart, WorkRequestStartDenied, WorkUpcoming},
}

var replies = map[Action]struct{ from, to RequestWorkState }{
	ActionAcceptStart:  {WorkRequestStart, WorkRunning},
	ActionDenyStart:    {WorkRequestStart, WorkRequestStartDenied},
	ActionAcceptFinish: {WorkRequestFinish, WorkCompleted},
	ActionDenyFinish:   {WorkRequestFinish, WorkRequestFinishDenied},
}

// Transition returns the request work state reached by applying a to cur.
// noop is set when a provider repeats a request that is already pending.
func Transition(cur RequestWorkState, a Action) (next RequestWorkState, noop bool, err error) {
	switch a {
	case ActionRequestStart, ActionRequestFinish:
		target := WorkRequestStart
		if a == ActionRequestFinish {
			target = WorkRequestFinish
		}
		if cur == target {
			return cur, true, nil
		}
		for _, s := range blocked[a] {
			if s == cur {
				return cur, false, apperr.InvalidState("cannot %s while booking is %s", a, cur)
			}
		}
		return target, false, nil
	}

	r, ok := replies[a]
	if !ok {
		return cur, false, apperr.Validation("unknown booking action " + string(a))
	}
	if cur != r.from {
		return cur, false, apperr.InvalidState("cannot %s while booking is %s", a, cur)
	}
	return r.to, false, nil
}

// Apply moves b through a, updating counters and the outer state.
func Apply(b *Booking, a Action) (changed bool, err error) {
	next, noop, err := Transition(b.RequestWorkState, a)
	if err != nil || noop {
		return false, err
	}

	b.RequestWorkState = next
	switch a {
	case ActionRequestStart:
		b.TotalTryingToStart++
	case ActionRequestFinish:
		b.TotalTryingToFinish++
	case ActionAcceptStart:
		b.State = StateActive
	case ActionAcceptFinish:
		b.State = StateCompleted
	}
	return true, nil
}
