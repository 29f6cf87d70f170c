package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mox-lang/internal/ast"
	"mox-lang/internal/config"
	"mox-lang/internal/diag"
	"mox-lang/internal/parser"
	"mox-lang/internal/runtime"
	"mox-lang/internal/token"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
)

// ---- repl command ----

func cmdRepl(cfg *config.Config, logger *slog.Logger) int {
	comp := &completer{}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            paint(cfg.Color, colorGreen, cfg.Prompt),
		HistoryFile:       cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		AutoComplete:      comp,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		return 1
	}
	defer rl.Close()

	s := newSession(cfg, logger, rl.Stdout(), rl.Stderr())
	comp.interp = s.interp

	// Welcome banner
	fmt.Fprintf(rl.Stdout(), "%s %s\n\n",
		paint(cfg.Color, colorBold+colorCyan, "mox-lang REPL"),
		paint(cfg.Color, colorGray, "(type 'exit' or Ctrl+D to quit)"))

	for {
		// Update prompt based on multi-line state
		if s.pending() {
			rl.SetPrompt(paint(cfg.Color, colorGray, "...   "))
		} else {
			rl.SetPrompt(paint(cfg.Color, colorGreen, cfg.Prompt))
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if s.pending() {
					// Cancel multi-line input
					s.reset()
					continue
				}
				// Show hint instead of exiting
				fmt.Fprintf(rl.Stdout(), "\n%s\n", paint(cfg.Color, colorGray, "(use 'exit' or Ctrl+D to quit)"))
				continue
			}
			// EOF (Ctrl+D) or other error → exit
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if !s.feed(line) {
			break
		}
	}
	return 0
}

// session holds REPL state between lines: one interpreter whose bindings persist,
// and the buffered text of an unfinished multi-line input.
type session struct {
	interp *runtime.Interpreter
	stdout io.Writer
	stderr io.Writer
	color  bool

	accumulated strings.Builder
	braceDepth  int
}

func newSession(cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) *session {
	return &session{
		interp: runtime.New(
			runtime.WithOutput(stdout),
			runtime.WithMaxDepth(cfg.MaxDepth),
			runtime.WithLogger(logger),
		),
		stdout: stdout,
		stderr: stderr,
		color:  cfg.Color,
	}
}

func (s *session) pending() bool {
	return s.braceDepth > 0
}

func (s *session) reset() {
	s.accumulated.Reset()
	s.braceDepth = 0
}

// feed handles one input line. It returns false when the user asked to quit.
func (s *session) feed(line string) bool {
	// Exit command
	if !s.pending() && strings.TrimSpace(line) == "exit" {
		return false
	}

	// Count braces for multi-line input
	s.braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
	s.accumulated.WriteString(line)
	s.accumulated.WriteString("\n")

	// If braces are unbalanced, keep reading
	if s.pending() {
		return true
	}

	source := s.accumulated.String()
	s.reset()

	// Skip empty input
	if strings.TrimSpace(source) == "" {
		return true
	}
	s.eval(source)
	return true
}

func (s *session) eval(source string) {
	program, diags := parser.Parse(source)
	if len(diags) > 0 {
		printDiagsColored(s.stderr, s.color, diags)
		return
	}

	result := s.interp.Interpret(program)
	if ev, ok := result.(*runtime.ErrorVal); ok {
		fmt.Fprintln(s.stderr, paint(s.color, colorRed, ev.String()))
		return
	}
	if shouldEcho(program, result) {
		fmt.Fprintln(s.stdout, result.String())
	}
}

// shouldEcho reports whether the REPL prints the result of an input. Null results
// and inputs ending in a print statement, which already wrote the value, are skipped.
func shouldEcho(program *ast.Program, result runtime.Value) bool {
	if _, ok := result.(runtime.NullVal); ok {
		return false
	}
	if n := len(program.Statements); n > 0 {
		if _, ok := program.Statements[n-1].(*ast.PrintStmt); ok {
			return false
		}
	}
	return true
}

// printDiagsColored prints diagnostics with red color for REPL display.
func printDiagsColored(w io.Writer, color bool, diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, paint(color, colorRed, d.String()))
	}
}

// ---- completion ----

// completer completes keywords, builtins and the names bound in the REPL session.
type completer struct {
	interp *runtime.Interpreter
}

func (c *completer) candidates() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, kw := range token.Keywords() {
		add(kw)
	}
	for name := range c.interp.Builtins() {
		add(name)
	}
	for _, name := range c.interp.Env().Names() {
		add(name)
	}
	sort.Strings(names)
	return names
}

// Do implements readline.AutoCompleter. It returns the missing suffixes of every
// candidate that extends the identifier before the cursor.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && isIdentRune(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	var out [][]rune
	for _, name := range c.candidates() {
		if strings.HasPrefix(name, prefix) && name != prefix {
			out = append(out, []rune(name[len(prefix):]))
		}
	}
	return out, len([]rune(prefix))
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
