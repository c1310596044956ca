package gen

import (
	"bytes"
	"path"
	"slices"
	"text/template"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/imports"

	"adapter-generator/internal/assemble"
	"adapter-generator/internal/backend"
	"adapter-generator/internal/common"
	"adapter-generator/internal/diagnostic"
	"adapter-generator/internal/match"
	"adapter-generator/internal/model"
	"adapter-generator/internal/registry"
)

// HoldersFile is the name of the holder epilogue.
const HoldersFile = "holders.go"

// ErrInvalidModel is returned when the batch does not pass preparation.
var ErrInvalidModel = errors.New("invalid model")

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName overrides the name of the generated package.
	PackageName string
	// OutputDir is where unformatted sources are dumped when formatting fails.
	OutputDir string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
	// Backend names the token stream backend.
	Backend string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		OutputDir:        "./generated",
		GenerateComments: true,
		Backend:          backend.JSONIter{}.Name(),
	}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "pair_adapter.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Output is the outcome of one run.
type Output struct {
	Files       []GeneratedFile
	Results     []assemble.Result
	Diagnostics *diagnostic.Diagnostics
}

// Generator generates adapters for a model batch.
type Generator struct {
	config GeneratorConfig
	log    *zap.Logger
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}

	return &Generator{config: config, log: log}
}

// Generate prepares b and generates one file per type plus the holder
// epilogue. Types that cannot be synthesized are reported as
// "synthesis_failed" diagnostics and skipped; an unresolved adapter aborts
// the run.
func (g *Generator) Generate(b *model.Batch) (*Output, error) {
	be, err := backend.Lookup(g.config.Backend)
	if err != nil {
		return nil, err
	}

	if g.config.PackageName != "" {
		b.Output.Name = g.config.PackageName
	}

	diags := model.Prepare(b)
	res := &Output{Diagnostics: diags}

	if diags.HasErrors() {
		return res, errors.Wrapf(ErrInvalidModel, "%d error(s)", len(diags.Errors))
	}

	backlog := registry.NewBacklog(b.Output.Path)
	as := assemble.New(b, be, backlog, g.log)

	for _, t := range b.Types {
		unit, err := as.Assemble(t, diags)
		if err != nil {
			var se *diagnostic.SynthesisError
			if !errors.As(err, &se) {
				return nil, errors.Wrapf(err, "generating %s", t.Name)
			}

			diags.AddError("synthesis_failed", se.Error(), t.Name, se.Field)
			g.log.Warn("type skipped", zap.String("type", t.Name), zap.Error(err))

			continue
		}

		file, err := g.renderAdapter(b, be, unit)
		if err != nil {
			return nil, errors.Wrapf(err, "generating %s", t.Name)
		}

		res.Files = append(res.Files, *file)
		res.Results = append(res.Results, unit.Result)

		g.log.Debug("adapter generated", zap.String("type", t.Name), zap.String("file", file.Filename),
			zap.Bool("parse", unit.Result.CanParse), zap.Bool("serialize", unit.Result.CanSerialize))
	}

	if backlog.Len() > 0 {
		file, err := g.renderHolders(b, backlog)
		if err != nil {
			return nil, errors.Wrap(err, "generating holders")
		}

		res.Files = append(res.Files, *file)
	}

	for _, d := range diags.Warnings {
		g.log.Warn("diagnostic", zap.String("code", d.Code), zap.String("message", d.String()))
	}

	return res, nil
}

// Filename is the file the adapter of t is generated into.
func Filename(t *model.TypeModel) string {
	return match.ToSnake(t.Adapter) + ".go"
}

func (g *Generator) renderAdapter(b *model.Batch, be backend.Backend, unit *assemble.Unit) (*GeneratedFile, error) {
	data := &adapterData{
		PackageName:      b.Output.Name,
		Imports:          importSpecs(be, unit.Imports),
		GenerateComments: g.config.GenerateComments,
		Adapter:          unit.Adapter,
		Handled:          unit.Handled,
		OnUnknown:        unit.OnUnknown,
		Methods:          unit.Methods,
	}

	for i, f := range unit.Fields {
		data.Fields = append(data.Fields, fieldData{Name: f.Name, Type: f.Type, Init: unit.Inits[i].Type})
	}

	return g.render(adapterTemplate, Filename(unit.Model), data)
}

func (g *Generator) renderHolders(b *model.Batch, backlog *registry.Backlog) (*GeneratedFile, error) {
	data := &holdersData{PackageName: b.Output.Name}

	var pkgs []string

	for _, h := range backlog.Holders() {
		data.Holders = append(data.Holders, holderData{Name: h.Name, Init: h.Init, Ref: h.Ref.String()})

		if h.Package != b.Output.Path {
			pkgs = append(pkgs, h.Package)
		}
	}

	slices.Sort(pkgs)
	data.Imports = importSpecs(nil, slices.Compact(pkgs))

	return g.render(holdersTemplate, HoldersFile, data)
}

func (g *Generator) render(tmpl *template.Template, filename string, data any) (*GeneratedFile, error) {
	var buf bytes.Buffer

	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "executing template")
	}

	formatted, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		// Best-effort: keep the raw source around to aid debugging.
		if g.config.OutputDir != "" {
			if derr := writeDebugUnformatted(g.config.OutputDir, filename, buf.Bytes()); derr != nil {
				g.log.Warn("writing unformatted source", zap.Error(derr))
			}
		}

		return &GeneratedFile{
			Filename: filename,
			Content:  buf.Bytes(),
		}, errors.Wrap(err, "formatting code (unformatted code returned)")
	}

	return &GeneratedFile{Filename: filename, Content: formatted}, nil
}

// importSpecs aliases every import whose package name cannot be derived from
// the last path element.
func importSpecs(be backend.Backend, paths []string) []importSpec {
	named := map[string]string{}

	if be != nil {
		for _, imp := range be.Imports() {
			named[imp.Path] = imp.Name
		}
	}

	res := make([]importSpec, 0, len(paths))

	for _, p := range paths {
		spec := importSpec{Path: p, Alias: named[p]}
		if spec.Alias == "" {
			if alias := common.PkgAlias(p); alias != path.Base(p) {
				spec.Alias = alias
			}
		}

		res = append(res, spec)
	}

	return res
}
