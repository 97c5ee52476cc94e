package log

import "context"

// Kv is a helper type for structured logging fields usage.
type Kv = map[string]any

// Logger is the logger used by all the slafeed components.
type Logger interface {
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
	WithValues(values Kv) Logger
	WithCtxValues(ctx context.Context) Logger
	SetValuesOnCtx(parent context.Context, values Kv) context.Context
}

// Noop logger doesn't log anything.
const Noop = noop(0)

type noop int

func (n noop) Infof(string, ...any)                                        {}
func (n noop) Warningf(string, ...any)                                     {}
func (n noop) Errorf(string, ...any)                                       {}
func (n noop) Debugf(string, ...any)                                       {}
func (n noop) WithValues(Kv) Logger                                        { return n }
func (n noop) WithCtxValues(context.Context) Logger                        { return n }
func (n noop) SetValuesOnCtx(parent context.Context, _ Kv) context.Context { return parent }

type ctxKey struct{}

// CtxWithValues returns a copy of parent with the key values merged on top of the
// ones already stored on it.
func CtxWithValues(parent context.Context, kv Kv) context.Context {
	values := make(Kv, len(kv))
	for k, v := range ValuesFromCtx(parent) {
		values[k] = v
	}
	for k, v := range kv {
		values[k] = v
	}

	return context.WithValue(parent, ctxKey{}, values)
}

// ValuesFromCtx gets the log key values from a context.
func ValuesFromCtx(ctx context.Context) Kv {
	values, ok := ctx.Value(ctxKey{}).(Kv)
	if !ok {
		return Kv{}
	}

	return values
}
