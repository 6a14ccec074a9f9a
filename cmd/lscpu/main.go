// Command lscpu prints the processor description decoded from CPUID.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/earentir/lscpu"
	"github.com/earentir/lscpu/internal/check"
	"github.com/earentir/lscpu/internal/config"
	"github.com/earentir/lscpu/internal/report"
	"github.com/earentir/lscpu/internal/verify"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

// errSilentFailure exits 1 without printing an error, for commands whose
// output already explains the failure.
var errSilentFailure = errors.New("silent failure")

type app struct {
	cfgFile string
	cfg     *config.Config
	stderr  io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{stderr: os.Stderr}

	rootCmd := &cobra.Command{
		Use:   "lscpu",
		Short: "Display CPU architecture information decoded from CPUID",
		Long: `lscpu describes the processor it runs on by issuing the CPUID instruction
directly: architecture, vendor, model and topology, without consulting the OS.

A register dump written by 'lscpu capture' can be decoded on any machine with --replay.`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.initialize,
		RunE:              a.runReport,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: lscpu.yaml in ., $HOME/.config/lscpu, /etc/lscpu)")
	flags.StringP("format", "o", report.FormatText, fmt.Sprintf("output format %v", report.Formats))
	flags.StringSlice("fields", nil, "comma separated field names to print (default all)")
	flags.String("color", config.ColorAuto, "color labels in text output: auto, always or never")
	flags.String("replay", "", "decode a capture file instead of the host processor")
	flags.Int("pin", -1, "pin to this logical CPU while decoding (Linux only)")
	flags.Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "demo",
		Short: "Print the report followed by the vendor ID",
		Args:  cobra.NoArgs,
		RunE:  a.runDemo,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "fields",
		Short: "List the field names accepted by --fields and get",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range lscpu.FieldNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "get <field>",
		Short: "Decode a single field",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runGet,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "capture <file>",
		Short: "Write the host's CPUID leaves to a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runCapture,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "check <expression>",
		Short: "Evaluate a boolean expression over the fields, exiting 1 when false",
		Example: `  lscpu check 'vendor_id == "GenuineIntel" && threads_per_core >= 2'
  lscpu check 'contains(model_name, "Xeon")'`,
		Args: cobra.ExactArgs(1),
		RunE: a.runCheck,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Cross-check the decoded fields against github.com/klauspost/cpuid",
		Args:  cobra.NoArgs,
		RunE:  a.runVerify,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lscpu %s (commit: %s, built: %s)\n", version, commitHash, buildDate)
		},
	})

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errSilentFailure) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func (a *app) initialize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	a.cfg = cfg

	var logOpts slog.HandlerOptions
	if cfg.Debug {
		logOpts.Level = slog.LevelDebug
		logOpts.AddSource = true
	} else {
		logOpts.Level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(a.stderr, &logOpts)))
	slog.Debug("configuration loaded", slog.String("format", cfg.Format), slog.String("replay", cfg.Replay), slog.Int("pin", cfg.Pin))
	return nil
}

// querier returns the replay capture when one is configured, the host otherwise.
func (a *app) querier() (lscpu.Querier, error) {
	if a.cfg.Replay == "" {
		return lscpu.Host, nil
	}
	data, err := lscpu.DataFromFile(a.cfg.Replay)
	if err != nil {
		return nil, err
	}
	slog.Debug("replaying capture", slog.String("file", a.cfg.Replay), slog.Int("entries", len(data.Entries)))
	return data, nil
}

func (a *app) record() (lscpu.CPU, error) {
	if a.cfg.Pin >= 0 {
		if a.cfg.Replay != "" {
			return lscpu.CPU{}, errors.New("--pin and --replay are mutually exclusive")
		}
		return lscpu.Snapshot(a.cfg.Pin)
	}
	q, err := a.querier()
	if err != nil {
		return lscpu.CPU{}, err
	}
	return lscpu.NewWithQuerier(q), nil
}

func (a *app) colorEnabled(w io.Writer) bool {
	switch a.cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && !color.NoColor && term.IsTerminal(int(f.Fd()))
}

func (a *app) runReport(cmd *cobra.Command, args []string) error {
	cpu, err := a.record()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	return report.Render(out, cpu, report.Options{
		Format: a.cfg.Format,
		Fields: a.cfg.Fields,
		Color:  a.colorEnabled(out),
	})
}

func (a *app) runDemo(cmd *cobra.Command, args []string) error {
	q, err := a.querier()
	if err != nil {
		return err
	}
	cpu := lscpu.NewWithQuerier(q)
	vendor, err := lscpu.Query(q, "vendor_id")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cpu)
	fmt.Fprintln(cmd.OutOrStdout(), vendor.Text())
	return nil
}

func (a *app) runGet(cmd *cobra.Command, args []string) error {
	q, err := a.querier()
	if err != nil {
		return err
	}
	field, err := lscpu.Query(q, args[0])
	if err != nil {
		return errors.Wrap(err, "run 'lscpu fields' for the list of names")
	}
	fmt.Fprintln(cmd.OutOrStdout(), field.Text())
	return nil
}

func (a *app) runCapture(cmd *cobra.Command, args []string) error {
	data := lscpu.CaptureData(lscpu.Host)
	if err := lscpu.WriteData(args[0], data); err != nil {
		return err
	}
	slog.Info("capture written", slog.String("file", args[0]), slog.Int("entries", len(data.Entries)))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d leaves to %s\n", len(data.Entries), args[0])
	return nil
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	cpu, err := a.record()
	if err != nil {
		return err
	}
	ok, err := check.Evaluate(args[0], cpu)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ok)
	if !ok {
		return errSilentFailure
	}
	return nil
}

func (a *app) runVerify(cmd *cobra.Command, args []string) error {
	if a.cfg.Replay != "" {
		return errors.New("verify compares against the host processor and cannot use --replay")
	}
	cpu, err := a.record()
	if err != nil {
		return err
	}
	mismatches := verify.Compare(cpu)
	out := cmd.OutOrStdout()
	if len(mismatches) == 0 {
		fmt.Fprintln(out, "all fields agree with github.com/klauspost/cpuid")
		return nil
	}
	for _, m := range mismatches {
		fmt.Fprintf(out, "%-18s decoded=%q reference=%q\n", m.Field, m.Decoded, m.Reference)
	}
	return errSilentFailure
}
