package analyze

import (
	"go/types"
	"reflect"
	"strings"

	"adapter-generator/internal/common"
)

// TagKey is the struct tag configuring a field.
const TagKey = "adapter"

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "example.com/shapes"
	Name    string // e.g., "Circle"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindStruct            // struct type
	TypeKindPointer           // pointer to another type
	TypeKindSlice             // slice of another type
	TypeKindMap               // map from KeyType to ElemType
	TypeKindNamed             // named type wrapping a non-struct
	TypeKindExternal          // named type from a package that was not loaded
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindMap:
		return "map"
	case TypeKindNamed:
		return "named"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Underlying *TypeInfo   // For named types, the underlying type
	ElemType   *TypeInfo   // For pointers, slices and maps, the element type
	KeyType    *TypeInfo   // For maps, the key type
	Fields     []FieldInfo // For structs, the list of fields
	GoType     types.Type  // The original go/types.Type
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// FieldTag is the parsed adapter tag of a field.
type FieldTag struct {
	// Name overrides the serialized name; empty applies the naming style.
	Name     string
	Skip     bool
	Required bool
	// Default is a Go expression used when the property is absent.
	Default string
}

// AdapterTag parses the adapter tag. Options after the name are "required"
// and "default=<expr>"; the default expression runs to the end of the tag so
// it may contain commas.
func (f *FieldInfo) AdapterTag() FieldTag {
	raw, ok := f.Tag.Lookup(TagKey)
	if !ok {
		return FieldTag{}
	}

	if raw == "-" {
		return FieldTag{Skip: true}
	}

	name, opts, _ := strings.Cut(raw, ",")
	res := FieldTag{Name: name}

	for opts != "" {
		var opt string

		if strings.HasPrefix(opts, "default=") {
			res.Default = strings.TrimPrefix(opts, "default=")
			break
		}

		opt, opts, _ = strings.Cut(opts, ",")
		if opt == "required" {
			res.Required = true
		}
	}

	return res
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package, sorted by name
}
