package evaluator

import (
	"darix/internal/object"
	"log/slog"
)

// Register installs a native function into the global scope. arity is the
// exact number of arguments a call must pass, or object.Variadic to accept
// any number. Registering an existing name replaces it.
func (e *Evaluator) Register(name string, arity int, fn object.NativeFunction) {
	e.globals.Define(name, &object.Function{
		Name:   name,
		Native: fn,
		Arity:  arity,
	})
	e.logger.Debug("registered native", slog.String("name", name), slog.Int("arity", arity))
}
