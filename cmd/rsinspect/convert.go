package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/rsinspect/internal/debug/snapshot"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert a snapshot between TOML and msgpack (chosen by OUT's extension)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := snapshot.ReadFile(args[0])
			if err != nil {
				return err
			}
			if _, err := f.Build(); err != nil {
				return err
			}

			var buf bytes.Buffer
			switch strings.ToLower(filepath.Ext(args[1])) {
			case ".msgpack", ".mpk":
				err = snapshot.EncodeMsgpack(&buf, f)
			default:
				err = snapshot.EncodeTOML(&buf, f)
			}
			if err != nil {
				return err
			}
			a.log.Info("writing %s (%d bytes)", args[1], buf.Len())
			return os.WriteFile(args[1], buf.Bytes(), 0o644)
		},
	}
}
