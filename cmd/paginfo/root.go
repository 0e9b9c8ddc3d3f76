package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/pag"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// options holds the settings shared by every subcommand.
type options struct {
	v *viper.Viper

	cfgFile string
	output  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	o := &options{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "paginfo",
		Short:         "Inspect PAG documents",
		Long:          `paginfo loads PAG documents through the pag bindings and prints their metadata.`,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.cfgFile, "config", "", "config file (yaml)")
	flags.String("engine", "", "engine: native or software (default: native, falling back to software)")
	flags.String("library", "", "native shim module name or path")
	flags.StringVarP(&o.output, "output", "o", formatTable, "output format: table, json or yaml")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log engine activity to stderr")

	_ = o.v.BindPFlag("engine", flags.Lookup("engine"))
	_ = o.v.BindPFlag("library", flags.Lookup("library"))
	_ = o.v.BindEnv("engine", pag.EnvEngine)
	_ = o.v.BindEnv("library", pag.EnvLibrary)

	cmd.AddCommand(newInfoCmd(o), newSurfaceCmd(o), newEnginesCmd(o), newSampleCmd())
	return cmd
}

// setup reads the config file and configures pag before any subcommand
// touches it.
func (o *options) setup(cmd *cobra.Command) error {
	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
		o.v.SetConfigType("yaml")
		if err := o.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	switch o.output {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}

	if o.verbose {
		pag.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	var opts []pag.Option
	if name := o.v.GetString("engine"); name != "" {
		opts = append(opts, pag.WithEngine(name))
	}
	if lib := o.v.GetString("library"); lib != "" {
		opts = append(opts, pag.WithLibrary(lib))
	}
	pag.Configure(opts...)
	return nil
}

// encode writes v as JSON or YAML. It reports false for the table format.
func (o *options) encode(w io.Writer, v any) (bool, error) {
	switch o.output {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

var errNoEngine = errors.New("no engine available (see --engine and --library)")
