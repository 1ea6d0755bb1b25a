package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"wyweb/internal/buildpipeline"
	"wyweb/internal/diagfmt"
	"wyweb/internal/driver"
	"wyweb/internal/observ"
	"wyweb/internal/ui"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file.wy",
	Short: "Compile a Wy file to JavaScript",
	Long: `Compile checks a Wy program and prints the generated JavaScript.
With --verify the program is proved first; --counterexamples adds a small
counterexample to failed assertions. Use - to read standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	f := compileCmd.Flags()
	f.Bool("verify", false, "verify assertions and contracts")
	f.Bool("counterexamples", false, "search counterexamples for failed assertions")
	f.String("format", "pretty", "output format (pretty|json)")
	f.String("query", "", "JSONPath applied to the json result")
	f.Bool("progress", false, "show rule progress")
	f.Bool("timings", false, "print stage timings")
	f.StringP("output", "o", "", "write JavaScript to this file")
}

type compileFlags struct {
	format   string
	query    string
	output   string
	progress bool
	timings  bool
	opts     driver.Options
}

func readCompileFlags(cmd *cobra.Command) (compileFlags, error) {
	f := cmd.Flags()
	var cf compileFlags
	cf.opts.Verify, _ = f.GetBool("verify")
	cf.opts.Counterexamples, _ = f.GetBool("counterexamples")
	cf.format, _ = f.GetString("format")
	cf.query, _ = f.GetString("query")
	cf.output, _ = f.GetString("output")
	cf.progress, _ = f.GetBool("progress")
	cf.timings, _ = f.GetBool("timings")
	switch cf.format {
	case "pretty", "json":
	default:
		return cf, fmt.Errorf("unknown format: %s", cf.format)
	}
	if cf.query != "" && cf.format != "json" {
		return cf, fmt.Errorf("--query needs --format json")
	}
	return cf, nil
}

func readSource(path string, stdin io.Reader) ([]byte, string, error) {
	if path == "-" {
		code, err := io.ReadAll(stdin)
		return code, "<stdin>", err
	}
	code, err := os.ReadFile(path)
	return code, filepath.Base(path), err
}

func runCompile(cmd *cobra.Command, args []string) error {
	cf, err := readCompileFlags(cmd)
	if err != nil {
		return err
	}
	timer := observ.NewTimer()

	idx := timer.Begin("read")
	code, name, err := readSource(args[0], cmd.InOrStdin())
	timer.End(idx, name)
	if err != nil {
		return err
	}

	idx = timer.Begin("library")
	l, err := loadLibrary(cmd.Context())
	timer.End(idx, "")
	if err != nil {
		return err
	}
	c := newCompiler(l)

	var out *driver.Outcome
	if cf.progress && isTerminal(os.Stderr) {
		out, err = compileWithUI(cmd.Context(), c, name, code, cf.opts)
		if err != nil {
			return err
		}
	} else {
		out = c.Compile(cmd.Context(), code, cf.opts)
	}
	for _, st := range out.Timings.Stages() {
		timer.Record(string(st), out.Timings.Duration(st))
	}

	if err := report(cmd, cf, out); err != nil {
		return err
	}
	if cf.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if out.Kind == diagfmt.ResultException {
		dumpTrace(cmd.ErrOrStderr(), "exception")
	}
	if out.Kind != diagfmt.ResultSuccess {
		return silentError{fmt.Errorf("compile failed: %s", out.Kind)}
	}
	return nil
}

func report(cmd *cobra.Command, cf compileFlags, out *driver.Outcome) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if cf.format == "json" {
		payload, err := diagfmt.Encode(out.Result)
		if err != nil {
			return err
		}
		if cf.query == "" {
			_, err = fmt.Fprintln(stdout, string(payload))
			return err
		}
		return printQuery(stdout, payload, cf.query)
	}

	opts := diagfmt.PrettyOpts{Color: !color.NoColor, ShowCode: true}
	switch out.Kind {
	case diagfmt.ResultSuccess:
		if cf.output != "" {
			return os.WriteFile(cf.output, []byte(out.JS), 0o644)
		}
		_, err := io.WriteString(stdout, out.JS)
		return err
	case diagfmt.ResultErrors:
		return diagfmt.Pretty(stderr, *out.Diagnostic, opts)
	default:
		return diagfmt.PrettyException(stderr, out.Err.Error(), opts)
	}
}

// printQuery prints every value selected by the JSONPath expr, one per line.
func printQuery(w io.Writer, payload []byte, expr string) error {
	x, err := jp.ParseString(expr)
	if err != nil {
		return fmt.Errorf("invalid jsonpath '%s': %w", expr, err)
	}
	data, err := oj.Parse(payload)
	if err != nil {
		return err
	}
	for _, v := range x.Get(data) {
		if s, ok := v.(string); ok {
			fmt.Fprintln(w, s)
			continue
		}
		fmt.Fprintln(w, oj.JSON(v, &oj.Options{Sort: true}))
	}
	return nil
}

// compileWithUI runs the compile while a Bubble Tea program renders rule
// events on stderr.
func compileWithUI(ctx context.Context, c *driver.Compiler, title string, code []byte, opts driver.Options) (*driver.Outcome, error) {
	events := make(chan buildpipeline.Event, 256)
	outcome := make(chan *driver.Outcome, 1)

	var names []string
	for _, r := range c.Rules(opts).Rules() {
		names = append(names, r.Name)
	}
	go func() {
		opts.Progress = buildpipeline.ChannelSink{Ch: events}
		outcome <- c.Compile(ctx, code, opts)
		close(events)
	}()

	model := ui.NewProgressModel(title, names, events)
	_, uiErr := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil)).Run()
	out := <-outcome
	return out, uiErr
}
