// Package runner drives a program through lexing, parsing and evaluation and
// turns the outcome into diagnostics and a process exit code.
package runner

import (
	"darix/internal/ast"
	"darix/internal/evaluator"
	"darix/internal/lexer"
	"darix/internal/natives"
	"darix/internal/object"
	"darix/internal/parser"
	"darix/internal/util"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"
)

const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitSyntax  = 2
	ExitRuntime = 3
)

// SyntaxErrors holds the lexical and grammar errors of one source text,
// ordered by position.
type SyntaxErrors []error

func (se SyntaxErrors) Error() string {
	msgs := make([]string, len(se))
	for i, e := range se {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Incomplete reports whether every error is a parse error caused by the input
// ending early, which the REPL treats as a request for more lines.
func (se SyntaxErrors) Incomplete() bool {
	var parseErrs parser.ParseErrors
	for _, e := range se {
		pe, ok := e.(*parser.ParseError)
		if !ok {
			return false
		}
		parseErrs = append(parseErrs, pe)
	}
	return parser.IsIncomplete(parseErrs)
}

// Position returns the 1-based location carried by a diagnostic, or 0, 0.
func Position(err error) (int, int) {
	var lexErr *lexer.LexError
	var parseErr *parser.ParseError
	var rtErr *object.RuntimeError
	switch {
	case errors.As(err, &lexErr):
		return lexErr.Line, lexErr.Column
	case errors.As(err, &parseErr):
		return parseErr.Line, parseErr.Column
	case errors.As(err, &rtErr):
		return rtErr.Line, rtErr.Column
	}
	return 0, 0
}

// Compile lexes and parses src. Lexical and grammar errors are collected
// together; the returned error is a SyntaxErrors or nil.
func Compile(src string) (*ast.Program, error) {
	tokens, lexErr := lexer.Scan(src)
	program, parseErr := parser.Parse(tokens)

	var errs SyntaxErrors
	var lexErrs lexer.LexErrors
	if errors.As(lexErr, &lexErrs) {
		for _, e := range lexErrs {
			errs = append(errs, e)
		}
	}
	var parseErrs parser.ParseErrors
	if errors.As(parseErr, &parseErrs) {
		for _, e := range parseErrs {
			errs = append(errs, e)
		}
	}
	if len(errs) == 0 {
		return program, nil
	}

	sort.SliceStable(errs, func(i, j int) bool {
		li, ci := Position(errs[i])
		lj, cj := Position(errs[j])
		if li != lj {
			return li < lj
		}
		return ci < cj
	})
	return program, errs
}

// Runner executes programs with one configuration. Program output goes to
// Out and diagnostics to Err.
type Runner struct {
	Config util.Configuration
	Out    io.Writer
	Err    io.Writer
	Logger *slog.Logger
}

func New(config util.Configuration, out, errOut io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{Config: config, Out: out, Err: errOut, Logger: logger}
}

// NewEvaluator builds an evaluator with the natives the configuration
// enables. The returned database is nil when db natives are disabled.
func (r *Runner) NewEvaluator() (*evaluator.Evaluator, *natives.Database) {
	e := evaluator.New(r.Out, r.Logger)
	if r.Config.MaxCallDepth > 0 {
		e.MaxCallDepth = r.Config.MaxCallDepth
	}
	db := natives.Install(e, natives.Options{
		Database: r.Config.Database.Enabled,
		Drivers:  r.Config.Database.Drivers,
		Logger:   r.Logger,
	})
	return e, db
}

// RunFile reads and runs a program file.
func (r *Runner) RunFile(path string) int {
	src, err := util.ReadSource(path)
	if err != nil {
		fmt.Fprintln(r.Err, err)
		return ExitUsage
	}
	r.Logger.Info("run", slog.String("file", path), slog.Int("bytes", len(src)))
	return r.RunSource(src)
}

// RunSource compiles and evaluates src with a fresh evaluator. Nothing is
// executed when the source has syntax errors.
func (r *Runner) RunSource(src string) int {
	start := time.Now()
	program, err := Compile(src)
	r.Logger.Info("compiled", slog.Duration("elapsed", time.Since(start)))
	if err != nil {
		r.Report(src, err)
		return ExitSyntax
	}

	if r.Config.DebugAST != "" {
		if err := r.DumpAST(program); err != nil {
			fmt.Fprintln(r.Err, err)
			return ExitUsage
		}
	}

	e, db := r.NewEvaluator()
	if db != nil {
		defer func() {
			if err := db.Close(); err != nil {
				r.Logger.Warn("closing database handles", slog.Any("error", err))
			}
		}()
	}

	start = time.Now()
	_, err = e.Run(program)
	r.Logger.Info("evaluated", slog.Duration("elapsed", time.Since(start)))
	if err != nil {
		r.Report(src, err)
		return ExitRuntime
	}
	return ExitOK
}

// DumpAST writes the program to Err in the configured debug format.
func (r *Runner) DumpAST(program *ast.Program) error {
	if err := parser.Render(r.Err, program, r.Config.DebugAST); err != nil {
		return fmt.Errorf("failed to dump ast: %w", err)
	}
	return nil
}

// Report prints each diagnostic as `<kind> [line L:C]: message` followed by
// the surrounding source lines.
func (r *Runner) Report(src string, err error) {
	var errs SyntaxErrors
	if !errors.As(err, &errs) {
		errs = SyntaxErrors{err}
	}

	for _, e := range errs {
		fmt.Fprintln(r.Err, e.Error())
		if line, col := Position(e); line > 0 {
			if ctx := util.GetContextLines(src, line, col, ""); ctx != "" {
				fmt.Fprintln(r.Err, ctx)
			}
		}
	}
}
