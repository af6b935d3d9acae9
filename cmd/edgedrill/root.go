package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"edgedrill/pkg/cfg"
	"edgedrill/pkg/color"
	"edgedrill/pkg/logging"
)

// Version is set at build time.
var Version = "0.1.0"

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	noColor bool

	config *cfg.Config
	logger *zap.Logger
	styles color.Styles
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop(), styles: color.NewStyles(false)}

	root := &cobra.Command{
		Use:   "edgedrill",
		Short: "Generate horizontal edge drilling G-code from panel DXF drawings",
		Long: `edgedrill reads panel drawings whose outline layer names the material
thickness and whose circles encode drill diameter and depth in their layer
names (EDGE_D8_P15). It rotates each panel into the machine orientation,
matches every hole size and direction against the tool catalog and writes a
G-code program for the router.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "__complete", "version":
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./edgedrill.yaml)")
	pf.String("catalog", "", "tool catalog CSV")
	pf.String("macro", "", "machine macro holding the tool change height")
	pf.String("safe-z-constant", "", "macro constant that holds the safe Z height")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-format", "", "log format (console|json)")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newToolsCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	c, err := cfg.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := logging.New(c.Log)
	if err != nil {
		return err
	}
	a.config = c
	a.logger = logger
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	a.styles = color.NewStyles(!a.noColor && !noColorEnv)

	if c.File != "" {
		logger.Debug("loaded config file", zap.String("path", c.File))
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "edgedrill v%s\n", Version)
		},
	}
}
