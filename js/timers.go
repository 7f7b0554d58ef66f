package js

import (
	"sort"
	"time"

	"github.com/dop251/goja"
)

// maxFlush bounds how many timers one Flush runs, so a script that keeps
// rescheduling itself cannot hang the caller.
const maxFlush = 10000

// timer is a scheduled setTimeout callback.
type timer struct {
	id       int
	callback goja.Callable
	args     []goja.Value
	due      time.Duration
}

// timerManager keeps timeouts on a virtual clock. Nothing runs until the
// runtime is flushed, which makes replays deterministic.
type timerManager struct {
	timers map[int]*timer
	nextID int
	now    time.Duration
}

func newTimerManager() *timerManager {
	return &timerManager{
		timers: make(map[int]*timer),
		nextID: 1,
	}
}

func (tm *timerManager) setTimeout(callback goja.Callable, delay time.Duration, args []goja.Value) int {
	id := tm.nextID
	tm.nextID++
	tm.timers[id] = &timer{
		id:       id,
		callback: callback,
		args:     args,
		due:      tm.now + delay,
	}
	return id
}

func (tm *timerManager) clearTimer(id int) {
	delete(tm.timers, id)
}

// next removes and returns the earliest timer, ties broken by id.
func (tm *timerManager) next() *timer {
	if len(tm.timers) == 0 {
		return nil
	}
	pending := make([]*timer, 0, len(tm.timers))
	for _, t := range tm.timers {
		pending = append(pending, t)
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].due != pending[j].due {
			return pending[i].due < pending[j].due
		}
		return pending[i].id < pending[j].id
	})
	t := pending[0]
	delete(tm.timers, t.id)
	if t.due > tm.now {
		tm.now = t.due
	}
	return t
}

// setupTimers installs setTimeout and clearTimeout.
func (r *Runtime) setupTimers() {
	r.vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		callback, ok := goja.AssertFunction(call.Arguments[0])
		if !ok {
			return goja.Undefined()
		}
		delay := int64(0)
		if len(call.Arguments) > 1 {
			delay = call.Arguments[1].ToInteger()
		}
		if delay < 0 {
			delay = 0
		}
		var args []goja.Value
		if len(call.Arguments) > 2 {
			args = call.Arguments[2:]
		}
		id := r.timers.setTimeout(callback, time.Duration(delay)*time.Millisecond, args)
		return r.vm.ToValue(id)
	})

	r.vm.Set("clearTimeout", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			r.timers.clearTimer(int(call.Arguments[0].ToInteger()))
		}
		return goja.Undefined()
	})
}

// Flush runs pending timeouts in due order, including ones they schedule,
// and returns how many ran.
func (r *Runtime) Flush() int {
	ran := 0
	for ; ran < maxFlush; ran++ {
		t := r.timers.next()
		if t == nil {
			break
		}
		r.call(t.callback, goja.Undefined(), t.args...)
	}
	return ran
}

// Pending returns the number of scheduled timeouts.
func (r *Runtime) Pending() int {
	return len(r.timers.timers)
}
