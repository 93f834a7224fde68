// Package shape classifies type metadata into structural shapes.
//
// The compiler does not describe enum discriminants or standard collections in
// generic type metadata. Instead it synthesizes field names: a variant struct
// carries a leading RUST$ENUM$DISR field, tuple fields are named __0, __1, and
// niche-encoded enums wrap their payload in a field prefixed with
// RUST$ENCODED$ENUM$. Classification is pattern matching on those names and
// on the type's meta-kind; it never looks at runtime data.
package shape

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/rsinspect/internal/debug/value"
)

// Tag is the structural shape of a type.
type Tag int

// Shape tags. Other is the fallback for metadata no rule recognizes.
const (
	Other Tag = iota
	Empty
	Struct
	Tuple
	CStyleVariant
	TupleVariant
	StructVariant
	SingletonEnum
	RegularEnum
	CompressedEnum
	RegularUnion
	Vector
	Text
	TextSlice
)

var tagNames = [...]string{
	Other:          "Other",
	Empty:          "Empty",
	Struct:         "Struct",
	Tuple:          "Tuple",
	CStyleVariant:  "CStyleVariant",
	TupleVariant:   "TupleVariant",
	StructVariant:  "StructVariant",
	SingletonEnum:  "SingletonEnum",
	RegularEnum:    "RegularEnum",
	CompressedEnum: "CompressedEnum",
	RegularUnion:   "RegularUnion",
	Vector:         "Vector",
	Text:           "Text",
	TextSlice:      "TextSlice",
}

// String returns the tag name.
func (t Tag) String() string {
	if t >= 0 && int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// IsVariant reports whether values of this shape carry a hidden marker field.
func (t Tag) IsVariant() bool {
	return t == CStyleVariant || t == TupleVariant || t == StructVariant
}

const (
	// DiscriminantField is the synthesized name of a variant's marker field.
	DiscriminantField = "RUST$ENUM$DISR"
	// CompressedEnumPrefix prefixes the lone field of a niche-encoded enum.
	CompressedEnumPrefix = "RUST$ENCODED$ENUM$"
)

var tupleFieldPattern = regexp.MustCompile(`^__\d+$`)

// Patterns holds the type-name patterns recognized as standard collections.
type Patterns struct {
	Vector    *regexp.Regexp
	Text      *regexp.Regexp
	TextSlice *regexp.Regexp
}

// Default patterns for the standard library's Vec, String and &str.
const (
	DefaultVectorPattern    = `^(alloc::([a-zA-Z]+::)+)Vec<.+>$`
	DefaultTextPattern      = `^(alloc::([a-zA-Z]+::)+)String$`
	DefaultTextSlicePattern = `^&str$`
)

// DefaultPatterns returns the patterns for the standard library layout.
func DefaultPatterns() Patterns {
	return Patterns{
		Vector:    regexp.MustCompile(DefaultVectorPattern),
		Text:      regexp.MustCompile(DefaultTextPattern),
		TextSlice: regexp.MustCompile(DefaultTextSlicePattern),
	}
}

// CompilePatterns compiles custom collection patterns.
// Empty strings select the default for that pattern.
func CompilePatterns(vector, text, textSlice string) (Patterns, error) {
	compile := func(expr, fallback string) (*regexp.Regexp, error) {
		if expr == "" {
			expr = fallback
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
		}
		return re, nil
	}

	var p Patterns
	var err error
	if p.Vector, err = compile(vector, DefaultVectorPattern); err != nil {
		return Patterns{}, err
	}
	if p.Text, err = compile(text, DefaultTextPattern); err != nil {
		return Patterns{}, err
	}
	if p.TextSlice, err = compile(textSlice, DefaultTextSlicePattern); err != nil {
		return Patterns{}, err
	}
	return p, nil
}

// Classifier maps type metadata to shape tags.
type Classifier struct {
	patterns Patterns
}

// NewClassifier creates a classifier using the given patterns.
// Nil patterns fall back to the defaults.
func NewClassifier(p Patterns) *Classifier {
	def := DefaultPatterns()
	if p.Vector == nil {
		p.Vector = def.Vector
	}
	if p.Text == nil {
		p.Text = def.Text
	}
	if p.TextSlice == nil {
		p.TextSlice = def.TextSlice
	}
	return &Classifier{patterns: p}
}

var defaultClassifier = NewClassifier(DefaultPatterns())

// Classify classifies t with the default patterns.
func Classify(t *value.Type) Tag {
	return defaultClassifier.Classify(t)
}

// Classify returns the shape of t. It is total: unrecognized metadata
// classifies as Other.
func (c *Classifier) Classify(t *value.Type) Tag {
	if t == nil {
		return Other
	}

	switch t.Kind {
	case value.KindStruct:
		return c.classifyStruct(t)
	case value.KindUnion:
		return classifyUnion(t)
	default:
		return Other
	}
}

func (c *Classifier) classifyStruct(t *value.Type) Tag {
	fields := t.Fields
	if len(fields) == 0 {
		return Empty
	}

	switch {
	case c.patterns.Vector.MatchString(t.Name):
		return Vector
	case c.patterns.Text.MatchString(t.Name):
		return Text
	case c.patterns.TextSlice.MatchString(t.Name):
		return TextSlice
	}

	if fields[0].Name == DiscriminantField {
		if len(fields) == 1 {
			return CStyleVariant
		}
		if isTupleFields(fields[1:]) {
			return TupleVariant
		}
		return StructVariant
	}

	if isTupleFields(fields) {
		return Tuple
	}
	return Struct
}

func classifyUnion(t *value.Type) Tag {
	fields := t.Fields
	if len(fields) == 0 {
		return Empty
	}

	first := fields[0].Name
	switch {
	case first == "":
		if len(fields) == 1 {
			return SingletonEnum
		}
		return RegularEnum
	case strings.HasPrefix(first, CompressedEnumPrefix):
		return CompressedEnum
	default:
		return RegularUnion
	}
}

func isTupleFields(fields []value.Field) bool {
	for _, f := range fields {
		if !tupleFieldPattern.MatchString(f.Name) {
			return false
		}
	}
	return true
}

// Check reports internal-consistency violations in t's encoding. Metadata
// produced by the compiler never fails the check.
func Check(t *value.Type) error {
	if t == nil || t.Kind != value.KindUnion || len(t.Fields) == 0 {
		return nil
	}
	if strings.HasPrefix(t.Fields[0].Name, CompressedEnumPrefix) && len(t.Fields) != 1 {
		return fmt.Errorf("%w: %s has %d fields, want 1", ErrInconsistent, t.Name, len(t.Fields))
	}
	return nil
}
