// Package natives holds the Go functions installed into a program's global
// scope before it runs.
package natives

import (
	"darix/internal/object"
	"io"
	"log/slog"
)

// Host is anything natives can be registered with. The evaluator satisfies it.
type Host interface {
	Register(name string, arity int, fn object.NativeFunction)
	Out() io.Writer
}

// Native pairs a function with its declared arity.
type Native struct {
	Arity int
	Fn    object.NativeFunction
}

// Options selects which native groups Install registers.
type Options struct {
	// Database enables the db_* functions.
	Database bool
	// Drivers restricts db_open to the named drivers. Empty allows every
	// supported driver.
	Drivers []string
	Logger  *slog.Logger
}

// Install registers the core, collection, string and math natives and, when
// enabled, the database natives. The returned Database is nil when the database group is
// disabled; otherwise the caller must Close it to release open handles.
func Install(host Host, opts Options) *Database {
	register(host, Core(host.Out()))
	register(host, Collections())
	register(host, Strings())
	register(host, Math())

	if !opts.Database {
		return nil
	}
	db := NewDatabase(opts.Drivers, opts.Logger)
	register(host, db.Natives())
	return db
}

func register(host Host, group map[string]Native) {
	for name, n := range group {
		host.Register(name, n.Arity, n.Fn)
	}
}

func unpackString(arg object.Object, fnName string, position int) (string, error) {
	s, ok := arg.(*object.String)
	if !ok {
		return "", object.NewError(object.TypeError, "argument %d to `%s` must be a string, got %s", position, fnName, arg.Type())
	}
	return s.Value, nil
}

func unpackInteger(arg object.Object, fnName string, position int) (int64, error) {
	i, ok := arg.(*object.Integer)
	if !ok {
		return 0, object.NewError(object.TypeError, "argument %d to `%s` must be an int, got %s", position, fnName, arg.Type())
	}
	return i.Value, nil
}

func unpackArray(arg object.Object, fnName string) (*object.Array, error) {
	a, ok := arg.(*object.Array)
	if !ok {
		return nil, object.NewError(object.TypeError, "argument to `%s` must be an array, got %s", fnName, arg.Type())
	}
	return a, nil
}

func argCount(fnName string, args []object.Object, min int) error {
	if len(args) < min {
		return object.NewError(object.ArityError, "%s expects at least %d arguments, got %d", fnName, min, len(args))
	}
	return nil
}

// display is the string form print and str produce.
func display(obj object.Object) string {
	if obj == nil {
		return "null"
	}
	return obj.Inspect()
}
