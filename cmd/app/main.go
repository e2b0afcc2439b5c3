package main

import (
	"darix/internal/log"
	"darix/internal/repl"
	"darix/internal/runner"
	"darix/internal/util"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
)

var (
	// Version is stamped at build time with -ldflags.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configFile string
	debugAST   string
	noDB       bool
	evalSource string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configFile, "config", "", "TOML configuration file (default ./darix.toml if present)")
	// parser config
	flag.StringVar(&debugAST, "debug-ast", "", "Dump the parsed AST to stderr: text, json or yaml")
	// evaluator config
	flag.BoolVar(&noDB, "no-db", false, "Do not install the db_* natives")
	flag.StringVar(&evalSource, "e", "", "Run the given source text instead of a file")
	// log config
	flag.StringVar(&logLevel, "log-level", "none", "Log level: trace, debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.CommandLine.Init("darix", flag.ContinueOnError)
	flag.Usage = printHelp
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return runner.ExitOK
		}
		return runner.ExitUsage
	}

	if version {
		printVersion()
		return runner.ExitOK
	}

	if help {
		printHelp()
		return runner.ExitOK
	}

	config, err := util.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return runner.ExitUsage
	}
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit
	applyFlags(&config)

	logger, closer, err := log.New(config.LogLevel, config.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return runner.ExitUsage
	}
	defer closer.Close()
	slog.SetDefault(logger)

	r := runner.New(config, os.Stdout, os.Stderr, logger)

	switch {
	case evalSource != "":
		return r.RunSource(evalSource)
	case flag.NArg() > 1:
		printHelp()
		return runner.ExitUsage
	case flag.NArg() == 1:
		return r.RunFile(flag.Arg(0))
	default:
		return repl.Start(r, Version)
	}
}

// applyFlags overrides configuration values with the flags given explicitly
// on the command line.
func applyFlags(config *util.Configuration) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		case "debug-ast":
			config.DebugAST = debugAST
		case "no-db":
			config.Database.Enabled = !noDB
		}
	})
}

func printVersion() {
	fmt.Printf("darix version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: darix [options] [file]

Options:
  -config <path>      TOML configuration file. Default is ./darix.toml when present.
  -debug-ast <format> Dump the parsed AST to stderr as text, json or yaml.
  -no-db              Do not install the db_* natives.
  -e <source>         Run the given source text instead of a file.
  -log-level <level>  Set the log level: trace, debug, info, warn, error, none. Default is 'none'.
  -log-file <path>    Specify a log file to write logs. Default is stderr.
  -help               Display this help information and exit.
  -version            Display version information and exit.

Details:
Without a file argument darix starts an interactive session. In the session
:env lists the globals defined so far and :quit exits.

Exit codes:
  0  success
  1  usage error or unreadable source file
  2  lexical or syntax errors (nothing is executed)
  3  uncaught runtime error

Examples:
  darix                       Start the interactive session
  darix program.dx            Execute the provided file
  darix -e 'print(1 + 2);'    Execute source text
  darix -debug-ast yaml a.dx  Dump the AST of a.dx and run it

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
