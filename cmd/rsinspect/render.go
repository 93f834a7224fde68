package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/rsinspect/internal/config"
	"github.com/dshills/rsinspect/internal/debug/inspect"
	"github.com/dshills/rsinspect/internal/debug/snapshot"
)

func newRenderCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "render FILE...",
		Short: "Render the root values of one or more snapshot files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			images, err := loadImages(cmd.Context(), args)
			if err != nil {
				return err
			}
			for i, img := range images {
				if err := a.render(cmd.OutOrStdout(), args[i], img, asJSON, len(images) > 1); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int("depth", 0, "levels to expand (default from config)")
	flags.Int("max-children", 0, "children shown per expansion (default from config)")
	flags.BoolVar(&asJSON, "json", false, "output variables as JSON")
	_ = a.v.BindPFlag(config.KeyRenderDepth, flags.Lookup("depth"))
	_ = a.v.BindPFlag(config.KeyMaxChildren, flags.Lookup("max-children"))
	return cmd
}

// loadImages decodes every snapshot concurrently. Each file is an
// independent target; results keep argument order.
func loadImages(ctx context.Context, paths []string) ([]*snapshot.Image, error) {
	images := make([]*snapshot.Image, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := snapshot.Load(path)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

type fileVariables struct {
	File      string              `json:"file"`
	Variables []*inspect.Variable `json:"variables"`
}

func (a *app) render(w io.Writer, path string, img *snapshot.Image, asJSON, header bool) error {
	log := a.log.WithField("file", path)
	f, err := a.cfg.Formatter(log)
	if err != nil {
		return err
	}
	in := inspect.New(f, inspect.Options{MaxChildren: a.cfg.MaxChildren, Logger: log})
	roots := in.Roots(img.Roots())

	if !asJSON {
		if header {
			if _, err := fmt.Fprintf(w, "== %s\n", path); err != nil {
				return err
			}
		}
		return in.Render(w, roots, a.cfg.RenderDepth)
	}

	for _, root := range roots {
		if err := expand(in, root, a.cfg.RenderDepth); err != nil {
			return err
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fileVariables{File: path, Variables: roots})
}

func expand(in *inspect.Inspector, v *inspect.Variable, depth int) error {
	if depth <= 0 || !v.HasChildren() {
		return nil
	}
	if err := in.ExpandVariable(v); err != nil {
		return err
	}
	for _, c := range v.Children {
		if err := expand(in, c, depth-1); err != nil {
			return err
		}
	}
	return nil
}
