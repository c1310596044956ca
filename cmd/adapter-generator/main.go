// Package main provides the CLI entrypoint for adapter-generator.
//
// adapter-generator reads a property model (or analyzes Go packages) and
// generates streaming parse/serialize adapters for every type in it.
//
// Commands:
//   - gen: generate and write the adapter files
//   - check: synthesize without writing, print diagnostics
//   - dump: print what each generated adapter supports as JSON
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"adapter-generator/internal/analyze"
	"adapter-generator/internal/assemble"
	"adapter-generator/internal/config"
	"adapter-generator/internal/diagnostic"
	"adapter-generator/internal/gen"
	"adapter-generator/internal/logging"
	"adapter-generator/internal/model"
)

const usage = `usage: adapter-generator [flags] <gen|check|dump>

Flags:
`

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("adapter-generator", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	config.Flags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}

		return 2
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	cmd := fs.Arg(0)

	err := execute(cmd, fs, stdout, stderr)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()

		return 2
	default:
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
}

func execute(cmd string, fs *pflag.FlagSet, stdout, stderr io.Writer) error {
	if cmd != "gen" && cmd != "check" && cmd != "dump" {
		return errUsage
	}

	path, _ := fs.GetString("config")

	cfg, err := config.Load(path, fs)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.Init(&cfg.Log)
	if err != nil {
		return err
	}

	defer func() { _ = log.Sync() }()

	b, err := loadBatch(cfg, log)
	if err != nil {
		return err
	}

	out, err := generator(cfg, log).Generate(b)
	if out != nil {
		printDiagnostics(stderr, out.Diagnostics)
	}

	if err != nil {
		return err
	}

	switch cmd {
	case "gen":
		if err := gen.WriteFiles(out.Files, cfg.Output); err != nil {
			return err
		}

		log.Info("adapters written", zap.String("dir", cfg.Output), zap.Int("files", len(out.Files)))
	case "dump":
		if err := dump(stdout, out.Results); err != nil {
			return err
		}
	}

	return out.Diagnostics.Error()
}

func generator(cfg *config.Config, log *zap.Logger) *gen.Generator {
	gc := gen.DefaultGeneratorConfig()
	gc.PackageName = cfg.Name
	gc.OutputDir = cfg.Output
	gc.GenerateComments = cfg.Comments
	gc.Backend = cfg.Backend

	return gen.NewGenerator(gc, log)
}

// loadBatch reads the model file or builds the model from Go packages.
func loadBatch(cfg *config.Config, log *zap.Logger) (*model.Batch, error) {
	if cfg.Model != "" {
		b, err := model.LoadFile(cfg.Model)
		if err != nil {
			return nil, err
		}

		if cfg.Package != "" {
			b.Output.Path = cfg.Package
		}

		return b, nil
	}

	naming, err := cfg.NamingStyle()
	if err != nil {
		return nil, err
	}

	unknown, err := cfg.UnknownPolicy()
	if err != nil {
		return nil, err
	}

	a := analyze.NewAnalyzer(log)
	if _, err := a.LoadPackages(cfg.Packages...); err != nil {
		return nil, err
	}

	return a.Batch(analyze.Options{
		Output:  model.OutputPackage{Path: cfg.Package, Name: cfg.Name},
		Naming:  naming,
		Unknown: unknown,
		Types:   cfg.Types,
	})
}

func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}
}

func dump(w io.Writer, results []assemble.Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding results")
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}
