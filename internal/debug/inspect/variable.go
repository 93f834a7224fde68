package inspect

import (
	"fmt"
	"strings"

	"github.com/dshills/rsinspect/internal/debug/formatter"
	"github.com/dshills/rsinspect/internal/debug/provider"
	"github.com/dshills/rsinspect/internal/debug/shape"
	"github.com/dshills/rsinspect/internal/debug/value"
	"github.com/dshills/rsinspect/internal/logging"
)

// Variable is one row of the variable tree.
type Variable struct {
	// Name is the display name.
	Name string `json:"name"`

	// Value is the summary, or the rendered scalar.
	Value string `json:"value"`

	// Type is the type name.
	Type string `json:"type"`

	// VariablesReference retrieves the children; zero means none.
	VariablesReference int `json:"variablesReference"`

	// NamedVariables is the number of named children.
	NamedVariables int `json:"namedVariables,omitempty"`

	// IndexedVariables is the number of indexed children.
	IndexedVariables int `json:"indexedVariables,omitempty"`

	// EvaluateName is the access path from the root.
	EvaluateName string `json:"evaluateName,omitempty"`

	// MemoryReference is the value's address.
	MemoryReference string `json:"memoryReference,omitempty"`

	// Children are the expanded children.
	Children []*Variable `json:"children,omitempty"`

	// Expanded indicates if children have been fetched.
	Expanded bool `json:"-"`

	// Parent is the parent variable (nil for top-level).
	Parent *Variable `json:"-"`
}

// HasChildren returns true if this variable can be expanded.
func (v *Variable) HasChildren() bool {
	return v.VariablesReference > 0
}

// TotalChildren returns the total number of children.
func (v *Variable) TotalChildren() int {
	return v.NamedVariables + v.IndexedVariables
}

// DefaultMaxChildren caps how many children one expansion materializes.
const DefaultMaxChildren = 1000

// Options configures an Inspector.
type Options struct {
	// MaxChildren caps children per expansion. Zero uses DefaultMaxChildren.
	MaxChildren int
	// Logger receives diagnostics. Nil discards them.
	Logger *logging.Logger
}

// handle keeps the value as the host handed it out, before enum
// unwrapping, so a refresh can pick a different active variant.
type handle struct {
	v        value.Value
	target   value.Value
	p        provider.Provider
	path     string
	variable *Variable
}

// Inspector hands out variables and resolves their children.
type Inspector struct {
	f           *formatter.Formatter
	log         *logging.Logger
	maxChildren int

	nextRef int
	refs    map[int]*handle

	// Cache of expanded children by reference
	cache map[int][]*Variable
}

// New creates an inspector over f.
func New(f *formatter.Formatter, opts Options) *Inspector {
	if opts.MaxChildren <= 0 {
		opts.MaxChildren = DefaultMaxChildren
	}
	if opts.Logger == nil {
		opts.Logger = logging.Null()
	}
	return &Inspector{
		f:           f,
		log:         opts.Logger.WithComponent("inspect"),
		maxChildren: opts.MaxChildren,
		refs:        make(map[int]*handle),
		cache:       make(map[int][]*Variable),
	}
}

// Roots creates top-level variables for vals.
func (in *Inspector) Roots(vals []value.Value) []*Variable {
	out := make([]*Variable, 0, len(vals))
	for _, v := range vals {
		out = append(out, in.variable(v, v.Name()))
	}
	return out
}

func (in *Inspector) variable(v value.Value, path string) *Variable {
	variable := &Variable{
		Name:            v.Name(),
		Type:            typeName(v),
		EvaluateName:    path,
		MemoryReference: fmt.Sprintf("%#x", v.Address()),
	}

	variable.Value = in.display(v)

	p := in.f.Provider(v)
	if !p.HasChildren() || p.NumChildren() == 0 {
		return variable
	}

	in.nextRef++
	ref := in.nextRef
	h := &handle{v: v, p: p, path: path, variable: variable}
	in.refs[ref] = h
	variable.VariablesReference = ref
	in.count(h)
	return variable
}

func (in *Inspector) display(v value.Value) string {
	if s := in.f.Summary(v); s != "" {
		return s
	}
	return formatScalar(v)
}

// count records the provider's child count on the handle's variable.
func (in *Inspector) count(h *handle) {
	target, tag := in.f.Unwrap(h.v)
	h.target = target
	h.variable.NamedVariables, h.variable.IndexedVariables = 0, 0
	if tag == shape.Vector {
		h.variable.IndexedVariables = h.p.NumChildren()
	} else {
		h.variable.NamedVariables = h.p.NumChildren()
	}
}

// Variables returns the children behind a variables reference.
func (in *Inspector) Variables(ref int) ([]*Variable, error) {
	if cached, ok := in.cache[ref]; ok {
		return cached, nil
	}

	h, ok := in.refs[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownReference, ref)
	}

	n := h.p.NumChildren()
	if n > in.maxChildren {
		in.log.Info("%s: showing %d of %d children", h.path, in.maxChildren, n)
		n = in.maxChildren
	}

	result := make([]*Variable, 0, n)
	for i := 0; i < n; i++ {
		c := h.p.ChildAtIndex(i)
		if c == nil {
			continue
		}
		result = append(result, in.variable(c, childPath(h.path, c.Name())))
	}

	in.cache[ref] = result
	return result, nil
}

func childPath(parent, name string) string {
	switch {
	case strings.HasPrefix(name, "["):
		return parent + name
	case name == "":
		return parent
	default:
		return parent + "." + name
	}
}

// ExpandVariable fetches and populates children for a variable.
func (in *Inspector) ExpandVariable(variable *Variable) error {
	if !variable.HasChildren() || variable.Expanded {
		return nil
	}

	children, err := in.Variables(variable.VariablesReference)
	if err != nil {
		return err
	}

	for _, child := range children {
		child.Parent = variable
	}

	variable.Children = children
	variable.Expanded = true
	return nil
}

// CollapseVariable clears the children of a variable.
func (in *Inspector) CollapseVariable(variable *Variable) {
	variable.Children = nil
	variable.Expanded = false
}

// FindVariable resolves a child of ref by its display name using the
// provider's name lookup.
func (in *Inspector) FindVariable(ref int, name string) (*Variable, error) {
	h, ok := in.refs[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownReference, ref)
	}

	i := h.p.ChildIndex(name)
	if i == provider.NotFound {
		return nil, fmt.Errorf("%w: %s in %s", ErrVariableNotFound, name, h.path)
	}
	c := h.p.ChildAtIndex(i)
	if c == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrVariableNotFound, name, h.path)
	}
	return in.variable(c, childPath(h.path, c.Name())), nil
}

// Refresh is called when the target stops again. Every live provider
// recomputes its layout and cached children are dropped. An enum whose
// discriminant now selects another variant gets a new provider.
func (in *Inspector) Refresh() {
	for _, h := range in.refs {
		target, _ := in.f.Unwrap(h.v)
		if sameValue(target, h.target) {
			h.p.Refresh()
		} else {
			in.log.Debug("%s: active variant changed to %s", h.path, typeName(target))
			h.p = in.f.Provider(h.v)
		}
		h.variable.Value = in.display(h.v)
		in.count(h)
	}
	in.cache = make(map[int][]*Variable)
}

func sameValue(a, b value.Value) bool {
	return a.Address() == b.Address() && a.Type() == b.Type()
}

func typeName(v value.Value) string {
	if t := v.Type(); t != nil {
		return t.Name
	}
	return ""
}

// Reset drops every reference, for example when the selected frame changes.
func (in *Inspector) Reset() {
	in.refs = make(map[int]*handle)
	in.cache = make(map[int][]*Variable)
}

// GetVariablePath returns the names from root to the variable.
func (in *Inspector) GetVariablePath(variable *Variable) []string {
	var path []string
	for current := variable; current != nil; current = current.Parent {
		path = append([]string{current.Name}, path...)
	}
	return path
}

// FormatVariable returns a one-line representation of a variable.
func (in *Inspector) FormatVariable(variable *Variable) string {
	switch {
	case variable.Type != "" && variable.Value != "":
		return fmt.Sprintf("%s: %s = %s", variable.Name, variable.Type, variable.Value)
	case variable.Type != "":
		return fmt.Sprintf("%s: %s", variable.Name, variable.Type)
	default:
		return fmt.Sprintf("%s = %s", variable.Name, variable.Value)
	}
}
