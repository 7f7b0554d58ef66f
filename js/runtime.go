// Package js exposes the toolkit to scripts through the goja JavaScript
// engine: Swell.Event for listeners and hotkeys, Marlin.find for selector
// queries, and a small document binding to reach elements.
package js

import (
	"fmt"
	"io"
	"strings"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"

	"github.com/chrisuehlinger/swell/event"
	"github.com/chrisuehlinger/swell/host"
	"github.com/chrisuehlinger/swell/selector"
)

// Runtime wraps a goja runtime bound to one host document.
type Runtime struct {
	vm         *goja.Runtime
	host       *host.Host
	dispatcher *event.Dispatcher
	engine     *selector.Engine
	binder     *binder
	timers     *timerManager
	logger     zerolog.Logger
	console    io.Writer
	callbacks  map[*goja.Object]*event.Callback
	functions  map[*event.Callback]*goja.Object
	errors     []error
	onError    func(error)
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger console output and script errors go to.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithConsole also writes console output, one line per call, to w.
func WithConsole(w io.Writer) Option {
	return func(r *Runtime) {
		r.console = w
	}
}

// WithDispatcher makes scripts register through d.
func WithDispatcher(d *event.Dispatcher) Option {
	return func(r *Runtime) {
		r.dispatcher = d
	}
}

// WithEngine makes Marlin.find query through e.
func WithEngine(e *selector.Engine) Option {
	return func(r *Runtime) {
		r.engine = e
	}
}

// NewRuntime creates a runtime over h's document. Without WithDispatcher or
// WithEngine it builds its own, sharing the runtime's logger.
func NewRuntime(h *host.Host, opts ...Option) *Runtime {
	r := &Runtime{
		vm:        goja.New(),
		host:      h,
		timers:    newTimerManager(),
		logger:    zerolog.Nop(),
		callbacks: make(map[*goja.Object]*event.Callback),
		functions: make(map[*event.Callback]*goja.Object),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.dispatcher == nil {
		r.dispatcher = event.New(h, event.WithLogger(r.logger))
	}
	if r.engine == nil {
		r.engine = selector.New(h, selector.WithLogger(r.logger))
	}
	r.binder = newBinder(r)

	r.setupConsole()
	r.setupTimers()
	r.vm.Set("window", r.vm.GlobalObject())
	r.vm.Set("document", r.binder.document())
	r.setupSwell()
	r.setupMarlin()
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime { return r.vm }

// Dispatcher returns the dispatcher scripts register through.
func (r *Runtime) Dispatcher() *event.Dispatcher { return r.dispatcher }

// Engine returns the selector engine behind Marlin.find.
func (r *Runtime) Engine() *selector.Engine { return r.engine }

// SetOnError sets a callback for script errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.onError = handler
}

func (r *Runtime) fail(err error) {
	r.errors = append(r.errors, err)
	r.logger.Error().Err(err).Msg("script error")
	if r.onError != nil {
		r.onError(err)
	}
}

// Execute runs code and returns its completion value.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.fail(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.fail(err)
	}
	return result, err
}

// ExecuteScript compiles code under the name src and runs it in sloppy
// mode. Errors are recorded and returned; later scripts still run.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", src, p)
			r.fail(err)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.fail(err)
		return err
	}
	if _, err = r.vm.RunProgram(program); err != nil {
		r.fail(err)
	}
	return err
}

// Errors returns the errors recorded so far.
func (r *Runtime) Errors() []error {
	return append([]error{}, r.errors...)
}

// ClearErrors forgets recorded errors.
func (r *Runtime) ClearErrors() {
	r.errors = r.errors[:0]
}

// call invokes a script function, recording anything it throws.
func (r *Runtime) call(fn goja.Callable, this goja.Value, args ...goja.Value) goja.Value {
	v, err := fn(this, args...)
	if err != nil {
		r.fail(err)
		return goja.Undefined()
	}
	return v
}

// setupConsole routes console output to the logger.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	levels := map[string]zerolog.Level{
		"log":   zerolog.InfoLevel,
		"info":  zerolog.InfoLevel,
		"debug": zerolog.DebugLevel,
		"trace": zerolog.TraceLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	}
	for name, level := range levels {
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			r.print(level, formatArgs(call.Arguments))
			return goja.Undefined()
		})
	}
	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg += ": " + formatArgs(call.Arguments[1:])
			}
			r.print(zerolog.ErrorLevel, msg)
		}
		return goja.Undefined()
	})
	counts := make(map[string]int)
	console.Set("count", func(call goja.FunctionCall) goja.Value {
		label := "default"
		if len(call.Arguments) > 0 {
			label = call.Arguments[0].String()
		}
		counts[label]++
		r.print(zerolog.InfoLevel, fmt.Sprintf("%s: %d", label, counts[label]))
		return goja.Undefined()
	})
	r.vm.Set("console", console)
}

func (r *Runtime) print(level zerolog.Level, msg string) {
	r.logger.WithLevel(level).Str("source", "console").Msg(msg)
	if r.console != nil {
		fmt.Fprintln(r.console, msg)
	}
}

// formatArgs formats console arguments space separated.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
