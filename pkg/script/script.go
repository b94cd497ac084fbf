package script

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var ErrNoRegister = errors.New("script: did not call register()")
var ErrHookTimeout = errors.New("script: js hook timeout")

type Stats struct {
	Seen         int64
	Dropped      int64
	HookErrors   int64
	HookTimeouts int64
}

type Options struct {
	HookTimeout time.Duration
}

// Filter is an event filter backed by a JavaScript module that calls
// register({ name, filter(ev, ctx), transform(ev, ctx) }). Both hooks are
// optional. A goja runtime is single threaded, so calls are serialized.
type Filter struct {
	mu   sync.Mutex
	vm   *goja.Runtime
	opts Options

	name        string
	filterFn    goja.Callable
	transformFn goja.Callable
	state       *goja.Object
	stats       Stats
}

func LoadFromFile(ctx context.Context, path string, opts Options) (*Filter, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	return Load(ctx, path, string(b), opts)
}

// Load compiles and runs src. Cancelling ctx interrupts a script whose top
// level does not return.
func Load(ctx context.Context, name string, src string, opts Options) (*Filter, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "load script")
	}

	f := &Filter{vm: goja.New(), opts: opts}
	f.state = f.vm.NewObject()
	enableConsole(f.vm, name)

	var config *goja.Object
	if err := f.vm.Set("register", func(v goja.Value) error {
		if config != nil {
			return errors.New("register() called more than once")
		}
		if isNullish(v) {
			return errors.New("register(config) requires a config object")
		}
		config = v.ToObject(f.vm)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "set register")
	}

	prog, err := goja.Compile(name, src, false)
	if err != nil {
		return nil, errors.Wrap(err, "compile script")
	}
	it := &interrupter{vm: f.vm}
	stop := context.AfterFunc(ctx, func() { it.interrupt(ctx.Err()) })
	_, err = f.vm.RunProgram(prog)
	stop()
	it.release()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, "run script")
		}
		return nil, errors.Wrap(err, "run script")
	}
	if config == nil {
		return nil, ErrNoRegister
	}

	nameVal := config.Get("name")
	if isNullish(nameVal) || strings.TrimSpace(nameVal.String()) == "" {
		return nil, errors.New("register({ name: string, ... }): name is required")
	}
	f.name = nameVal.String()

	if fn, ok := goja.AssertFunction(config.Get("filter")); ok {
		f.filterFn = fn
	}
	if fn, ok := goja.AssertFunction(config.Get("transform")); ok {
		f.transformFn = fn
	}
	if f.filterFn == nil && f.transformFn == nil {
		return nil, errors.New("register(...): at least one of filter or transform is required")
	}
	return f, nil
}

func (f *Filter) Name() string { return f.name }

func (f *Filter) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

// Apply runs filter then transform. A falsy filter result or a null
// transform result drops the event.
func (f *Filter) Apply(ev event.Event) (event.Event, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stats.Seen++
	obj := f.toObject(ev)

	if f.filterFn != nil {
		keep, err := f.call(f.filterFn, obj, f.context("filter"))
		if err != nil {
			return ev, false, errors.Wrapf(err, "%s: filter", f.name)
		}
		if !keep.ToBoolean() {
			f.stats.Dropped++
			return ev, false, nil
		}
	}

	if f.transformFn != nil {
		out, err := f.call(f.transformFn, obj, f.context("transform"))
		if err != nil {
			return ev, false, errors.Wrapf(err, "%s: transform", f.name)
		}
		if isNullish(out) {
			f.stats.Dropped++
			return ev, false, nil
		}
		ev, err = f.fromValue(out, ev)
		if err != nil {
			f.stats.HookErrors++
			return ev, false, errors.Wrapf(err, "%s: transform", f.name)
		}
	}
	return ev, true, nil
}

func (f *Filter) call(fn goja.Callable, args ...goja.Value) (goja.Value, error) {
	if timeout := f.opts.HookTimeout; timeout > 0 {
		it := &interrupter{vm: f.vm}
		timer := time.AfterFunc(timeout, func() { it.interrupt(ErrHookTimeout) })
		defer func() {
			timer.Stop()
			it.release()
		}()
	}

	v, err := fn(goja.Undefined(), args...)
	if err != nil {
		f.stats.HookErrors++
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			f.stats.HookTimeouts++
			return nil, ErrHookTimeout
		}
		return nil, err
	}
	return v, nil
}

// interrupter interrupts a runtime until released. A release waits out an
// interrupt already in flight and clears it, so nothing leaks into the next
// call.
type interrupter struct {
	mu       sync.Mutex
	released bool
	vm       *goja.Runtime
}

func (i *interrupter) interrupt(reason any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.released {
		i.vm.Interrupt(reason)
	}
}

func (i *interrupter) release() {
	i.mu.Lock()
	i.released = true
	i.mu.Unlock()
	i.vm.ClearInterrupt()
}

func (f *Filter) context(hook string) *goja.Object {
	obj := f.vm.NewObject()
	_ = obj.Set("hook", hook)
	_ = obj.Set("state", f.state)
	return obj
}

func (f *Filter) toObject(ev event.Event) *goja.Object {
	obj := f.vm.NewObject()
	_ = obj.Set("level", ev.Level.String())
	_ = obj.Set("message", ev.Message)
	_ = obj.Set("timestamp", ev.Timestamp.UnixMilli())
	return obj
}

func (f *Filter) fromValue(v goja.Value, base event.Event) (event.Event, error) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return base, errors.New("transform must return an object or null")
	}
	out := base
	if lv := obj.Get("level"); !isNullish(lv) {
		out.Level = event.ParseLevel(lv.String())
	}
	if mv := obj.Get("message"); !isNullish(mv) {
		out.Message = mv.String()
	}
	if tv := obj.Get("timestamp"); !isNullish(tv) {
		out.Timestamp = time.UnixMilli(tv.ToInteger())
	}
	return out, nil
}

func enableConsole(vm *goja.Runtime, name string) {
	obj := vm.NewObject()
	logFn := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, a := range call.Arguments {
			parts = append(parts, a.String())
		}
		log.Info().Str("script", name).Msg(strings.Join(parts, " "))
		return goja.Undefined()
	}
	_ = obj.Set("log", logFn)
	_ = obj.Set("warn", logFn)
	_ = obj.Set("error", logFn)
	_ = vm.Set("console", obj)
}

func isNullish(v goja.Value) bool {
	if v == nil {
		return true
	}
	return goja.IsUndefined(v) || goja.IsNull(v)
}
