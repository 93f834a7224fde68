package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/rsinspect/internal/config"
	"github.com/dshills/rsinspect/internal/logging"
)

// app carries the resolved configuration into subcommands.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        config.Config
	log        *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "rsinspect",
		Short:         "Render captured program values as debugger summaries and trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = cfg.Logger(logging.Config{Output: cmd.ErrOrStderr(), Prefix: "rsinspect"})
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a TOML configuration file")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newClassifyCmd(a))
	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}
