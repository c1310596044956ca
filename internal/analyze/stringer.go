package analyze

import (
	"go/types"
	"slices"

	"adapter-generator/internal/common"
)

// TypeStringer renders types as Go expressions seen from one package and
// remembers the imports the expressions need.
type TypeStringer struct {
	ctxPkg  string
	imports map[string]bool
}

// NewTypeStringer creates a stringer for code living in ctxPkg.
func NewTypeStringer(ctxPkg string) *TypeStringer {
	return &TypeStringer{ctxPkg: ctxPkg, imports: map[string]bool{}}
}

// TypeString returns the Go expression of t.
func (s *TypeStringer) TypeString(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	if t.IsNamed() && t.ID.PkgPath != "" {
		return s.qualify(t.ID.PkgPath, t.ID.Name)
	}

	switch t.Kind {
	case TypeKindPointer:
		return "*" + s.TypeString(t.ElemType)
	case TypeKindSlice:
		return "[]" + s.TypeString(t.ElemType)
	case TypeKindMap:
		return "map[" + s.TypeString(t.KeyType) + "]" + s.TypeString(t.ElemType)
	case TypeKindBasic:
		return t.GoType.String()
	}

	if t.GoType == nil {
		return common.UnknownStr
	}

	return types.TypeString(t.GoType, func(p *types.Package) string {
		if p.Path() == s.ctxPkg {
			return ""
		}

		return common.PkgAlias(s.use(p.Path()))
	})
}

// Imports returns the packages referenced so far, sorted.
func (s *TypeStringer) Imports() []string {
	res := make([]string, 0, len(s.imports))
	for p := range s.imports {
		res = append(res, p)
	}

	slices.Sort(res)

	return res
}

func (s *TypeStringer) qualify(pkgPath, name string) string {
	return common.Qualify(s.ctxPkg, s.use(pkgPath), name)
}

func (s *TypeStringer) use(pkgPath string) string {
	if pkgPath != s.ctxPkg {
		s.imports[pkgPath] = true
	}

	return pkgPath
}
