package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/picadata/config"
	"github.com/teranos/picadata/errors"
	"github.com/teranos/picadata/logger"
	"github.com/teranos/picadata/pica/format"
	"github.com/teranos/picadata/pipeline"
	"github.com/teranos/picadata/version"
)

// options that steer the command itself rather than the pipeline
type options struct {
	configFile  string
	saveConfig  string
	showConfig  bool
	showVersion bool
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "picadata [FILE]",
		Short: "Filter, convert, validate and count PICA records",
		Long: `picadata reads PICA records from FILE, or standard input when FILE is
omitted, in a single pass.

Every record is restricted to the fields matched by --path, written in
the --to type, checked against the --schema and counted, in that order.
Validation errors are printed as "PPN: message" after the record they
belong to.

Serialization types: ` + strings.Join(format.Names(), ", ") + `

Examples:
  picadata -c records.dat                 # count records, holdings, items and fields
  picadata -f plain -t xml records.txt    # convert plain to PICA XML
  picadata -p '003@,021A' -t records.dat  # keep two fields, same type as input
  picadata -s schema.json -u -c -         # validate standard input`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, args, opts, stdin, stdout, stderr)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.StringP("from", "f", "", "input serialization type; guessed from the FILE extension when omitted")
	flags.StringP("to", "t", "", "write records as `TYPE`; the input type when TYPE is omitted")
	flags.Lookup("to").NoOptDefVal = config.SameAsInput
	flags.StringP("schema", "s", "", "validate records against the schema `FILE` (JSON or YAML)")
	flags.BoolP("unknown", "u", false, "report fields and subfields missing from the schema")
	flags.BoolP("count", "c", false, "print the number of records, invalid records, holdings, items and fields")
	flags.StringP("path", "p", "", "restrict records to the fields matched by `EXPR`, e.g. 003@,021A")
	flags.BoolP("help", "?", false, "print usage and exit")
	flags.StringVar(&opts.configFile, "config", "", "read settings from `FILE` instead of picadata.toml")
	flags.CountP("verbose", "v", "increase diagnostics on stderr (-v info, -vv debug)")
	flags.Bool("log-json", false, "write diagnostics as JSON")
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flags.BoolVar(&opts.showConfig, "show-config", false, "print the effective settings and their sources")
	flags.StringVar(&opts.saveConfig, "save-config", "", "write the effective settings to `FILE`")

	return cmd
}

func execute(cmd *cobra.Command, args []string, opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	if opts.showVersion {
		fmt.Fprintln(stdout, version.Get().String())
		return nil
	}
	if len(args) == 0 && stdinIsTerminal(stdin) && !opts.showConfig && opts.saveConfig == "" {
		return cmd.Help()
	}

	loader, err := config.NewLoader(opts.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	if err := logger.InitializeWithWriter(stderr, cfg.Log.Verbosity, cfg.Log.JSON); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer logger.Cleanup()
	logger.Debugw("Configuration loaded", "files", loader.Files(), "verbosity", logger.LevelName(cfg.Log.Verbosity))

	if opts.showConfig {
		return showConfig(stdout, loader)
	}
	if opts.saveConfig != "" {
		if err := config.Save(opts.saveConfig, cfg); err != nil {
			return errors.Mark(err, errors.ErrInvalidConfig)
		}
		pterm.Success.WithWriter(stderr).Printfln("Saved settings to %s", opts.saveConfig)
		return nil
	}

	var filename string
	if len(args) == 1 && args[0] != pipeline.StdinName {
		filename = args[0]
	}
	return process(cfg, filename, stdin, stdout)
}

// process resolves the run configuration, then streams the input
func process(cfg *config.Config, filename string, stdin io.Reader, stdout io.Writer) error {
	from, err := pipeline.ResolveType(cfg.From, filename)
	if err != nil {
		return err
	}
	pc, err := cfg.Pipeline(from)
	if err != nil {
		return err
	}

	in, err := pipeline.ResolveInput(filename, cfg.From, stdin)
	if err != nil {
		return err
	}
	defer func() {
		if err := in.Close(); err != nil {
			logger.Warnw("Closing input failed", logger.FieldFile, in.Name, logger.FieldError, err)
		}
	}()

	to, _ := pc.To()
	logger.Infow("Processing input",
		logger.FieldFile, in.Name,
		logger.FieldFromFormat, in.Type.String(),
		logger.FieldToFormat, to.String(),
		logger.FieldPath, cfg.Path,
		logger.FieldSchema, cfg.Schema)

	if _, err := pipeline.Run(pc, in.Reader, stdout); err != nil {
		if in.Name == pipeline.StdinName {
			return errors.Wrap(err, "standard input")
		}
		return errors.Wrapf(err, "%s", in.Name)
	}
	return nil
}

func showConfig(w io.Writer, loader *config.Loader) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(config.Table(loader.Introspect())).Srender()
	if err != nil {
		return errors.Wrap(err, "rendering settings")
	}
	fmt.Fprintln(w, table)
	return nil
}
