package repl

import (
	"darix/internal/evaluator"
	"darix/internal/object"
	"darix/internal/runner"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
)

const (
	PROMPT      = ">> "
	CONT_PROMPT = ".. "
	historyFile = ".darix_history"
)

// exitSignals end an interactive session. Ctrl+C is left to liner and SIGHUP
// to the log file reopener.
var exitSignals = []os.Signal{syscall.SIGTERM}

// LineReader is the prompt source of the loop. *liner.State implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// Start runs an interactive session on the terminal with line editing and
// history. It returns the process exit code.
func Start(r *runner.Runner, version string) int {
	fmt.Fprintf(r.Out, "darix %s\nCtrl+C cancels input, Ctrl+D exits. Type :env to list globals, :quit to exit.\n", version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, exitSignals...)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	s := NewSession(r)
	defer s.Close()
	s.History = ln.AppendHistory
	s.Loop(ln)
	return runner.ExitOK
}

// Session evaluates entries against one evaluator so definitions persist
// from one entry to the next.
type Session struct {
	runner *runner.Runner
	eval   *evaluator.Evaluator
	closer io.Closer

	// History receives every entry that was evaluated.
	History func(entry string)
}

func NewSession(r *runner.Runner) *Session {
	e, db := r.NewEvaluator()
	s := &Session{runner: r, eval: e, History: func(string) {}}
	if db != nil {
		s.closer = db
	}
	return s
}

func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Loop reads entries until end of input or :quit. :env lists the globals the
// session has defined.
func (s *Session) Loop(in LineReader) {
	for {
		src, ok := s.read(in)
		if !ok {
			fmt.Fprintln(s.runner.Out)
			return
		}

		switch strings.TrimSpace(src) {
		case "":
			continue
		case ":quit":
			return
		case ":env":
			s.Env()
			continue
		}

		s.History(strings.ReplaceAll(src, "\n", " "))
		s.Eval(src)
	}
}

// read collects lines until the entry parses or fails for a reason other
// than running out of input. Ctrl+C discards the pending entry.
func (s *Session) read(in LineReader) (string, bool) {
	var b strings.Builder

	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = CONT_PROMPT
		}
		line, err := in.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := runner.Compile(src)
		var errs runner.SyntaxErrors
		if errors.As(perr, &errs) && errs.Incomplete() {
			continue
		}
		return src, true
	}
}

// Env prints every global defined by the session, one "name: type" per line.
// Natives are left out.
func (s *Session) Env() {
	globals := s.eval.Globals()
	for _, name := range globals.Names() {
		value := globals.Bindings[name]
		if fn, ok := value.(*object.Function); ok && fn.IsNative() {
			continue
		}
		fmt.Fprintf(s.runner.Out, "%s: %s\n", name, value.Type())
	}
}

// Eval runs one entry and echoes a non-null result.
func (s *Session) Eval(src string) {
	program, err := runner.Compile(src)
	if err != nil {
		s.runner.Report(src, err)
		return
	}

	result, err := s.eval.Run(program)
	if err != nil {
		s.runner.Report(src, err)
		return
	}
	s.runner.Logger.Debug("repl entry", slog.String("result", string(result.Type())))

	if result != object.NULL {
		fmt.Fprintln(s.runner.Out, object.Repr(result))
	}
}
