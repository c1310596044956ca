package model

import (
	"strings"

	"github.com/cockroachdb/errors"

	"adapter-generator/internal/common"
)

// AdapterRef identifies an adapter: a package-level name plus an optional
// named-instance discriminator. It is comparable and used as a map key.
type AdapterRef struct {
	Package string
	Name    string
	Named   string
}

// ParseRef parses "import/path.Name" or "import/path.Name#named". A bare
// "Name" has no package.
func ParseRef(s string) (AdapterRef, error) {
	var ref AdapterRef

	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '#'); i >= 0 {
		s, ref.Named = s[:i], s[i+1:]
	}

	slash := strings.LastIndexByte(s, '/')
	if dot := strings.LastIndexByte(s, '.'); dot > slash {
		ref.Package, ref.Name = s[:dot], s[dot+1:]
	} else {
		ref.Name = s
	}

	if ref.Name == "" {
		return AdapterRef{}, errors.Newf("invalid adapter reference %q", s)
	}

	return ref, nil
}

// String renders pkg.Name#named.
func (r AdapterRef) String() string {
	s := r.Name
	if r.Package != "" {
		s = r.Package + "." + s
	}

	if r.Named != "" {
		s += "#" + r.Named
	}

	return s
}

// IsZero reports an unset reference.
func (r AdapterRef) IsZero() bool {
	return r == AdapterRef{}
}

// Ident is the identifier fragment used for registry entries: the package
// alias, the name and the named-instance suffix.
func (r AdapterRef) Ident() string {
	id := r.Name
	if alias := common.PkgAlias(r.Package); alias != "" {
		id = alias + "_" + id
	}

	if r.Named != "" {
		id += "__" + r.Named
	}

	return common.Sanitize(id)
}

func (r AdapterRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *AdapterRef) UnmarshalText(text []byte) error {
	ref, err := ParseRef(string(text))
	if err != nil {
		return err
	}

	*r = ref

	return nil
}
