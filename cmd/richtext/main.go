package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-richtext"
	"github.com/goliatone/go-richtext/internal/convert"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/internal/migration"
)

var moduleBuilder = richtext.New

// CLI defines the richtext command line.
type CLI struct {
	Convert ConvertCmd `cmd:"" help:"Convert one legacy document to Editor.js JSON"`
	Migrate MigrateCmd `cmd:"" help:"Convert stored page content in place"`
}

// ConvertCmd converts a single JSON document.
type ConvertCmd struct {
	In       string `name:"in" short:"i" type:"path" help:"Input file (default: stdin)"`
	Out      string `name:"out" short:"o" type:"path" help:"Output file (default: stdout)"`
	Validate bool   `name:"validate" help:"Check converted output against the Editor.js schema"`
}

func (c *ConvertCmd) Run(app *kong.Context) error {
	var input io.Reader = os.Stdin
	if c.In != "" {
		f, err := os.Open(c.In)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		input = f
	}
	data, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	out, err := c.convert(data)
	if err != nil {
		return err
	}

	if c.Out == "" {
		_, err = fmt.Fprintln(app.Stdout, string(out))
		return err
	}
	return os.WriteFile(c.Out, append(out, '\n'), 0o644)
}

func (c *ConvertCmd) convert(data []byte) ([]byte, error) {
	if !c.Validate {
		return richtext.ConvertJSON(data)
	}
	doc, err := richtext.DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	converted, _, err := convert.NewConverter(convert.WithSchemaValidation(true)).Convert(doc)
	if err != nil {
		return nil, err
	}
	return richtext.EncodeDocument(converted)
}

// MigrateCmd runs the batch migration against a database.
type MigrateCmd struct {
	Config       string   `name:"config" short:"c" type:"path" help:"YAML config file"`
	DSN          string   `name:"dsn" help:"Database connection string"`
	Dialect      string   `name:"dialect" help:"Database dialect: sqlite or postgres"`
	BatchSize    int      `name:"batch-size" help:"Records read per batch"`
	Workers      int      `name:"workers" default:"-1" help:"Concurrent conversions per batch (0 uses all CPUs)"`
	DryRun       bool     `name:"dry-run" help:"Convert and report without writing"`
	StopOnError  bool     `name:"stop-on-error" help:"Abort at the first document that fails"`
	Target       []string `name:"target" help:"Tables to migrate: pages,page_translations"`
	CreateTables bool     `name:"create-tables" help:"Create missing tables before migrating"`
	LogLevel     string   `name:"log-level" default:"info" help:"Log level"`
}

func (m *MigrateCmd) Run(app *kong.Context) error {
	cfg, err := m.config()
	if err != nil {
		return err
	}

	ctx := context.Background()
	module, err := moduleBuilder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	sub := dispatcher.SubscribeCommand(module.Commands().MigrateContent)
	defer sub.Unsubscribe()

	logger := logging.MigrationLogger(module.LoggerProvider())
	dispatchErr := dispatcher.Dispatch(ctx, module.MigrateCommand())
	summary := module.LastSummary()
	if dispatchErr != nil {
		logger.Error("migration.cli.failed", "error", dispatchErr)
	}

	printSummary(app.Stdout, summary)
	if dispatchErr != nil {
		return fmt.Errorf("migrate: %w", dispatchErr)
	}
	if failed := summary.Count(migration.StatusFailed); failed > 0 {
		return fmt.Errorf("migrate: %d document(s) failed to convert", failed)
	}
	return nil
}

func (m *MigrateCmd) config() (richtext.Config, error) {
	cfg := richtext.DefaultConfig()
	if m.Config != "" {
		loaded, err := richtext.LoadConfig(m.Config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if m.DSN != "" {
		cfg.Storage.DSN = m.DSN
	}
	if m.Dialect != "" {
		cfg.Storage.Dialect = m.Dialect
	}
	if m.CreateTables {
		cfg.Storage.CreateTables = true
	}
	if m.BatchSize > 0 {
		cfg.Migration.BatchSize = m.BatchSize
	}
	if m.Workers >= 0 {
		cfg.Migration.Workers = m.Workers
	}
	if m.DryRun {
		cfg.Migration.DryRun = true
	}
	if m.StopOnError {
		cfg.Migration.StopOnError = true
	}
	if targets := splitTargets(m.Target); len(targets) > 0 {
		cfg.Migration.Targets = targets
	}
	if m.LogLevel != "" {
		cfg.Features.Logger = true
		cfg.Logging.Level = m.LogLevel
	}
	return cfg, cfg.Validate()
}

func splitTargets(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func printSummary(w io.Writer, summary richtext.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tBATCHES\tCONVERTED\tUNCHANGED\tNOT LEGACY\tEMPTY\tFAILED\tWRITTEN")
	for _, report := range summary.Reports {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			report.Table,
			report.Batches,
			report.Count(migration.StatusConverted),
			report.Count(migration.StatusUnchanged),
			report.Count(migration.StatusNotLegacy),
			report.Count(migration.StatusEmpty),
			report.Count(migration.StatusFailed),
			report.Written,
		)
	}
	_ = tw.Flush()

	for _, report := range summary.Reports {
		for _, failure := range report.Failures() {
			fmt.Fprintf(w, "failed %s %s: %v\n", failure.Table, failure.RecordID, failure.Err)
		}
		if report.DryRun {
			fmt.Fprintf(w, "%s: dry run, nothing written\n", report.Table)
		}
	}
}

func newParser(cli *CLI, stdout, stderr io.Writer) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("richtext"),
		kong.Description("Convert Draft.js rich text to Editor.js"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
}

func run(args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := newParser(&cli, stdout, stderr)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return ctx.Run(ctx)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli, os.Stdout, os.Stderr)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
