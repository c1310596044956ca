package analyze

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldInfo_AdapterTag(t *testing.T) {
	tests := []struct {
		tag  string
		want FieldTag
	}{
		{tag: ``, want: FieldTag{}},
		{tag: `json:"x"`, want: FieldTag{}},
		{tag: `adapter:"-"`, want: FieldTag{Skip: true}},
		{tag: `adapter:"name"`, want: FieldTag{Name: "name"}},
		{tag: `adapter:",required"`, want: FieldTag{Required: true}},
		{tag: `adapter:"n,required,default=3"`, want: FieldTag{Name: "n", Required: true, Default: "3"}},
		{tag: `adapter:",default=[]int{1, 2},required"`, want: FieldTag{Default: "[]int{1, 2},required"}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			f := FieldInfo{Tag: reflect.StructTag(tt.tag)}
			assert.Equal(t, tt.want, f.AdapterTag())
		})
	}
}
