package inspect

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the tree under roots, expanding up to depth levels.
// Depth zero prints only the roots.
func (in *Inspector) Render(w io.Writer, roots []*Variable, depth int) error {
	for _, root := range roots {
		if err := in.render(w, root, 0, depth); err != nil {
			return err
		}
	}
	return nil
}

func (in *Inspector) render(w io.Writer, v *Variable, level, depth int) error {
	line := strings.Repeat("  ", level) + in.FormatVariable(v)
	if v.HasChildren() && level >= depth {
		line += fmt.Sprintf(" (%d children)", v.TotalChildren())
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	if !v.HasChildren() || level >= depth {
		return nil
	}
	if err := in.ExpandVariable(v); err != nil {
		return err
	}
	for _, c := range v.Children {
		if err := in.render(w, c, level+1, depth); err != nil {
			return err
		}
	}
	if shown := len(v.Children); shown < v.TotalChildren() {
		_, err := fmt.Fprintf(w, "%s... %d more\n", strings.Repeat("  ", level+1), v.TotalChildren()-shown)
		return err
	}
	return nil
}
