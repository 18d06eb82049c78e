package sources

import "strings"

// Type is the repository type of a source entry.
type Type string

const (
	TypeDeb    Type = "deb"
	TypeDebSrc Type = "deb-src"
)

// FieldName is the name of a field in a deb822 source entry.
type FieldName string

const (
	FieldTypes         FieldName = "Types"
	FieldURIs          FieldName = "URIs"
	FieldSuites        FieldName = "Suites"
	FieldComponents    FieldName = "Components"
	FieldArchitectures FieldName = "Architectures"
	FieldSignedBy      FieldName = "Signed-By"
	FieldLanguages     FieldName = "Languages"
	FieldTargets       FieldName = "Targets"
	FieldPDiffs        FieldName = "PDiffs"
	FieldByHash        FieldName = "By-Hash"
	FieldTrusted       FieldName = "Trusted"
)

// UnparseablePrefix starts the comment that replaces a line which is not a
// valid one-line entry.
const UnparseablePrefix = "# 无法解析: "

// optionFields maps lower-cased one-line option keys to their deb822 field.
var optionFields = map[string]FieldName{
	"arch":      FieldArchitectures,
	"signed-by": FieldSignedBy,
	"lang":      FieldLanguages,
	"target":    FieldTargets,
	"pdiffs":    FieldPDiffs,
	"by-hash":   FieldByHash,
	"trusted":   FieldTrusted,
}

// FieldNameFor returns the deb822 field name for a one-line option key.
// Known keys are matched case-insensitively. Any other key keeps its
// spelling with only the first character upper-cased, so "foo-bar" becomes
// "Foo-bar".
func FieldNameFor(key string) FieldName {
	if f, ok := optionFields[strings.ToLower(key)]; ok {
		return f
	}
	return FieldName(upperFirst(key))
}
