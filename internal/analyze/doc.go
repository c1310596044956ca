// Package analyze is the Go frontend: it loads packages and turns their
// exported structs into type models.
//
// It uses golang.org/x/tools/go/packages with go/types to build an
// in-memory graph of structs and their fields, then derives one model.TypeModel
// per struct. Fields are configured with the adapter struct tag:
//
//	Name  string `adapter:"name,required"`
//	Score int    `adapter:",default=10"`
//	Cache []byte `adapter:"-"`
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/named/pointer/slice/map/external)
//   - FieldInfo: describes field name, type, tags, and embedding
package analyze
