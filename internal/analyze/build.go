package analyze

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"adapter-generator/internal/match"
	"adapter-generator/internal/model"
)

// ErrUnsupportedField is returned for fields whose type has no wire form.
var ErrUnsupportedField = errors.New("unsupported field type")

// Options configure how structs become type models.
type Options struct {
	Output  model.OutputPackage
	Naming  match.NamingStyle
	Unknown model.UnknownPolicy
	// Types restricts the batch to the named structs; empty takes all of them.
	Types []string
}

// Batch builds a model batch with one type per analyzed struct. Fields are
// left without adapter trees; model.Prepare infers them.
func (a *Analyzer) Batch(opts Options) (*model.Batch, error) {
	b := &model.Batch{Output: opts.Output}

	paths := lo.Keys(a.graph.Packages)
	slices.Sort(paths)

	for _, p := range paths {
		for _, id := range a.graph.Packages[p].Types {
			info := a.graph.GetType(id)
			if info.Kind != TypeKindStruct || len(opts.Types) > 0 && !lo.Contains(opts.Types, id.Name) {
				continue
			}

			t, err := a.typeModel(info, opts)
			if err != nil {
				return nil, errors.Wrapf(err, "analyzing %s", id)
			}

			if len(t.Fields) == 0 {
				a.log.Debug("struct without properties skipped", zap.Stringer("type", id))
				continue
			}

			b.Types = append(b.Types, t)
		}
	}

	return b, nil
}

func (a *Analyzer) typeModel(info *TypeInfo, opts Options) (*model.TypeModel, error) {
	s := NewTypeStringer(opts.Output.Path)

	t := &model.TypeModel{
		Name:    info.ID.Name,
		Package: info.ID.PkgPath,
		Unknown: opts.Unknown,
	}

	for _, f := range info.Fields {
		tag := f.AdapterTag()
		if tag.Skip {
			continue
		}

		if f.Embedded {
			a.log.Debug("embedded field skipped", zap.Stringer("type", info.ID), zap.String("field", f.Name))
			continue
		}

		if !serializable(f.Type) {
			return nil, errors.Wrapf(ErrUnsupportedField, "%s %s", f.Name, s.TypeString(f.Type))
		}

		name := tag.Name
		if name == "" {
			name = opts.Naming.Apply(f.Name)
		}

		t.Fields = append(t.Fields, model.FieldData{
			Name:     name,
			Type:     s.TypeString(f.Type),
			Go:       f.Name,
			Required: tag.Required,
			Default:  tag.Default,
		})
	}

	t.Imports = s.Imports()

	return t, nil
}

func serializable(t *TypeInfo) bool {
	switch t.Kind {
	case TypeKindUnknown:
		return false
	case TypeKindPointer, TypeKindSlice:
		return serializable(t.ElemType)
	case TypeKindMap:
		return serializable(t.KeyType) && serializable(t.ElemType)
	default:
		return true
	}
}
