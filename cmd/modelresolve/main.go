// Command modelresolve loads a YAML or JSON model and resolves template
// expressions against it.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/speakeasy-api/modeladaptor"
	"github.com/speakeasy-api/modeladaptor/pkg/metrics"
	"github.com/speakeasy-api/modeladaptor/pkg/modelfile"
)

// exitError ends the command with a specific status without printing a message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type options struct {
	modelFile   string
	loopMode    string
	iteratorVar string
	noFallback  bool
	logLevel    string
	output      string
	iterate     bool
	stats       bool
	strict      bool
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "modelresolve [flags] expression...",
		Short: "Resolve template expressions against a YAML or JSON model",
		Long: color.New(color.FgBlue).Sprint("Usage: modelresolve -m model.yaml [flags] expression...") + "\n\n" +
			"Loads a model and resolves each expression the way a template engine would,\n" +
			"e.g. customer.name, items[last].price or codes._keys. Problems are reported\n" +
			"on stderr and never stop resolution.\n",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &opts, args)
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	f := cmd.Flags()
	f.StringVarP(&opts.modelFile, "model", "m", "-", "Model file (YAML or JSON); - reads stdin")
	f.StringVar(&opts.loopMode, "loop-mode", "default", "How mappings are iterated. One of: (default | list)")
	f.StringVar(&opts.iteratorVar, "iterator-var", modeladaptor.DefaultSpecialIteratorVariable, "Name of the loop index variable")
	f.BoolVar(&opts.noFallback, "no-key-fallback", false, "Disable matching mapping keys by their printed form")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level. One of: (error | warn | info | debug)")
	f.StringVarP(&opts.output, "output", "o", "text", "Output format. One of: (text | yaml | json)")
	f.BoolVar(&opts.iterate, "iterate", false, "Print the elements a for-each loop would visit")
	f.BoolVar(&opts.stats, "stats", false, "Print resolution metrics to stderr")
	f.BoolVar(&opts.strict, "strict", false, "Exit with status 2 when any error was reported")
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *options, exprs []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	w, err := newWriter(opts.output, stdout)
	if err != nil {
		return err
	}
	loopMode, err := modeladaptor.ParseLoopMode(opts.loopMode)
	if err != nil {
		return err
	}
	model, err := loadModel(cmd.InOrStdin(), opts.modelFile)
	if err != nil {
		return err
	}

	o := modeladaptor.DefaultOptions()
	o.LoopMode = loopMode
	o.SpecialIteratorVariable = opts.iteratorVar
	o.EnableSlowMapAccess = !opts.noFallback
	o.LogLevel = opts.logLevel
	o.Logger = modeladaptor.NewLogger(modeladaptor.ParseLogLevel(opts.logLevel), stderr)
	a := modeladaptor.New(o)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg, a)
	if err != nil {
		return err
	}

	var errs modeladaptor.Collector
	for _, expr := range exprs {
		v := m.Resolve(model, modeladaptor.ParsePath(expr), &errs, expr)
		if opts.iterate {
			i := 0
			for elem := range a.Iterable(v) {
				if err := w.write(record{expr: expr, iterVar: a.SpecialIteratorVariable(), index: i, value: elem}); err != nil {
					return err
				}
				i++
			}
			continue
		}
		if err := w.write(record{expr: expr, index: -1, value: v}); err != nil {
			return err
		}
	}

	reports := errs.Reports()
	if len(reports) > 0 {
		writeReports(stderr, reports)
	}
	if opts.stats {
		if err := writeStats(stderr, reg); err != nil {
			return err
		}
	}
	if opts.strict && len(reports) > 0 {
		return &exitError{code: 2}
	}
	return nil
}

func loadModel(stdin io.Reader, path string) (map[string]any, error) {
	if path == "" || path == "-" {
		model, err := modelfile.Load(stdin)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return model, nil
	}
	return modelfile.LoadFile(path)
}
