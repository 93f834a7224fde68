package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/rsinspect/internal/debug/shape"
	"github.com/dshills/rsinspect/internal/debug/snapshot"
)

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify FILE",
		Short: "Print the shape of every type declared in a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			f, err := a.cfg.Formatter(a.log)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range img.Types() {
				note := ""
				if err := shape.Check(t); err != nil {
					note = "\t(" + err.Error() + ")"
				}
				fmt.Fprintf(tw, "%s\t%s%s\n", f.Classify(t), t.Name, note)
			}
			return tw.Flush()
		},
	}
}
