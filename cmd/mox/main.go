// Command mox is the CLI entry point for the mox-lang interpreter.
//
// Usage:
//
//	mox [flags] tokens <file> [-json]   Print tokens
//	mox [flags] parse  <file>           Print AST as JSON
//	mox [flags] run    <file>...        Run source files
//	mox [flags] repl                    Start interactive REPL
//
// Flags:
//
//	-config     path to the YAML config file (default ~/.moxrc.yaml)
//	-log-level  log level (debug, info, warn, error)
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"mox-lang/internal/ast"
	"mox-lang/internal/config"
	"mox-lang/internal/diag"
	"mox-lang/internal/lexer"
	"mox-lang/internal/parser"
	"mox-lang/internal/runtime"
	"os"
	goruntime "runtime"

	"golang.org/x/sync/errgroup"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", config.DefaultPath(), "path to the YAML config file")
	var logLevel = slog.LevelWarn
	flag.TextVar(&logLevel, "log-level", &logLevel, "Log level (debug, info, warn, error)")
	flag.Usage = func() { usage(os.Stderr) }
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	// an explicit -log-level wins over the config file
	if !flagPassed("log-level") {
		logLevel = cfg.LogLevel
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	os.Exit(run(context.Background(), os.Stdout, os.Stderr, cfg, logger, flag.Args()))
}

// run dispatches a subcommand and returns the process exit code.
func run(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, logger *slog.Logger, args []string) int {
	if len(args) < 1 {
		usage(stderr)
		return 1
	}

	command, rest := args[0], args[1:]
	logger.Debug("dispatch", "command", command, "args", rest)

	switch command {
	case "tokens":
		files := positional(rest)
		if len(files) != 1 {
			fmt.Fprintln(stderr, "error: missing file argument")
			return 1
		}
		return cmdTokens(stdout, stderr, files[0], hasFlag(rest, "-json", "--json"))
	case "parse":
		if len(rest) != 1 {
			fmt.Fprintln(stderr, "error: missing file argument")
			return 1
		}
		return cmdParse(stdout, stderr, rest[0])
	case "run":
		if len(rest) == 0 {
			fmt.Fprintln(stderr, "error: missing file argument")
			return 1
		}
		return cmdRun(ctx, stdout, stderr, cfg, logger, rest)
	case "repl":
		return cmdRepl(cfg, logger)
	default:
		fmt.Fprintf(stderr, "error: unknown command '%s'\n", command)
		usage(stderr)
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mox [flags] tokens <file> [-json]   Tokenize and print tokens")
	fmt.Fprintln(w, "  mox [flags] parse  <file>           Parse and print AST (JSON)")
	fmt.Fprintln(w, "  mox [flags] run    <file>...        Run source files")
	fmt.Fprintln(w, "  mox [flags] repl                    Start interactive REPL")
	fmt.Fprintln(w, "Flags:")
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
}

func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

func hasFlag(args []string, names ...string) bool {
	for _, arg := range args {
		for _, name := range names {
			if arg == name {
				return true
			}
		}
	}
	return false
}

// positional returns the arguments that do not look like flags.
func positional(args []string) []string {
	var out []string
	for _, arg := range args {
		if len(arg) > 0 && arg[0] == '-' {
			continue
		}
		out = append(out, arg)
	}
	return out
}

// ---- tokens command ----

func cmdTokens(stdout, stderr io.Writer, filename string, jsonMode bool) int {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(stderr, "error: cannot read file %s: %v\n", filename, err)
		return 1
	}

	tokens, diags := lexer.New(string(source)).Tokenize()

	if jsonMode {
		if err := printTokensJSON(stdout, tokens, diags); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	} else {
		printTokensText(stdout, tokens)
		printDiagsText(stderr, "", diags)
	}

	if len(diags) > 0 {
		return 1
	}
	return 0
}

// ---- parse command ----

func cmdParse(stdout, stderr io.Writer, filename string) int {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(stderr, "error: cannot read file %s: %v\n", filename, err)
		return 1
	}

	program, diags := parser.Parse(string(source))

	output := map[string]interface{}{
		"ast":         ast.NodeToMap(program),
		"diagnostics": diagsToSlice(diags),
	}
	if err := printJSON(stdout, output); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if len(diags) > 0 {
		return 1
	}
	return 0
}

// ---- run command ----

// fileResult is the buffered outcome of running one file.
type fileResult struct {
	stdout     bytes.Buffer
	diags      []diag.Diagnostic
	runtimeErr *runtime.ErrorVal
}

func (r *fileResult) failed() bool {
	return len(r.diags) > 0 || r.runtimeErr != nil
}

// cmdRun runs every file in its own interpreter, concurrently. Output is buffered
// per file and written in argument order once all files are done.
func cmdRun(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, logger *slog.Logger, filenames []string) int {
	results := make([]*fileResult, len(filenames))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(goruntime.GOMAXPROCS(0))
	for idx, filename := range filenames {
		idx, filename := idx, filename
		g.Go(func() error {
			res, err := runFile(ctx, cfg, logger, filename)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	code := 0
	for idx, res := range results {
		prefix := ""
		if len(filenames) > 1 {
			prefix = filenames[idx]
		}
		stdout.Write(res.stdout.Bytes())
		printDiagsText(stderr, prefix, res.diags)
		if res.runtimeErr != nil {
			if prefix != "" {
				fmt.Fprintf(stderr, "%s: %s\n", prefix, res.runtimeErr)
			} else {
				fmt.Fprintln(stderr, res.runtimeErr.String())
			}
		}
		if res.failed() {
			code = 1
		}
	}
	return code
}

// runFile lexes, parses and evaluates one file. Files with diagnostics are not evaluated.
// Only I/O failures and cancellation are returned as errors.
func runFile(ctx context.Context, cfg *config.Config, logger *slog.Logger, filename string) (*fileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", filename, err)
	}

	res := &fileResult{}
	program, diags := parser.Parse(string(source))
	if len(diags) > 0 {
		res.diags = diags
		return res, nil
	}

	interp := runtime.New(
		runtime.WithOutput(&res.stdout),
		runtime.WithMaxDepth(cfg.MaxDepth),
		runtime.WithLogger(logger.With("file", filename)),
	)
	if ev, ok := interp.Interpret(program).(*runtime.ErrorVal); ok {
		res.runtimeErr = ev
	}
	return res, nil
}
