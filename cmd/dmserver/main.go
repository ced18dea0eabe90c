package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/s1000d"
	"github.com/fwojciec/s1000d/assemble"
	"github.com/fwojciec/s1000d/classify"
	"github.com/fwojciec/s1000d/etree"
	"github.com/fwojciec/s1000d/fs"
	"github.com/fwojciec/s1000d/htmltomarkdown"
	dmhttp "github.com/fwojciec/s1000d/http"
	"github.com/fwojciec/s1000d/pdfcpu"
	"github.com/fwojciec/s1000d/pipeline"
	"github.com/fwojciec/s1000d/plaintext"
	dmslog "github.com/fwojciec/s1000d/slog"
	"github.com/fwojciec/s1000d/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database holding the module history.
	DB *sqlite.DB

	// HTTP server, available after Open.
	Server *dmhttp.Server
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Run parses args, starts the server and blocks until ctx is cancelled.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("dmserver"),
		kong.Description("Serve the S1000D data module generator"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"db": defaultDBPath()},
		kong.DefaultEnvars("DMSERVER"),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if err := m.Open(cli, stderr); err != nil {
		m.Close()
		return err
	}
	fmt.Fprintf(stdout, "listening on %s\n", m.Server.URL())

	<-ctx.Done()
	return m.Close()
}

// Open wires the services described by cli and starts the HTTP server.
// Logs are written to logw.
func (m *Main) Open(cli *CLI, logw io.Writer) error {
	cfg := DefaultConfig()
	if cli.Config != "" {
		var err error
		if cfg, err = LoadConfig(cli.Config); err != nil {
			return err
		}
	}
	cli.apply(cfg)

	logger, err := newLogger(logw, cli.LogLevel, cli.LogFormat)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(cli.DB)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
	}

	modules := dmslog.NewLoggingModuleService(sqlite.NewModuleService(m.DB), logger)
	// The history goes first: it is rolled back if the mirror write fails.
	writers := []s1000d.ModuleWriter{modules}
	if cli.Out != "" {
		writers = append(writers, fs.NewWriter(cli.Out))
	}

	p := &pipeline.Pipeline{
		Loaders: map[s1000d.Format]s1000d.Loader{
			s1000d.FormatPDF:  dmslog.NewLoggingLoader(pdfcpu.NewLoader(cfg.Loader), s1000d.FormatPDF, logger),
			s1000d.FormatText: dmslog.NewLoggingLoader(plaintext.NewLoader(), s1000d.FormatText, logger),
		},
		Classifier: classify.NewClassifier(cfg.Classifier),
		Assembler:  assemble.NewAssembler(),
		Serializer: etree.NewSerializer(),
		Writers:    writers,
	}

	s := dmhttp.NewServer()
	s.Addr = cli.Addr
	s.Converter = dmslog.NewLoggingConverter(p, logger)
	s.Modules = modules
	s.Parser = etree.NewParser()
	s.Exporter = htmltomarkdown.NewExporter()
	s.MaxUploadSize = int64(cfg.Server.MaxUploadMB) << 20
	s.Logger = logger
	s.TrustProxy = cfg.Server.TrustProxy
	if cfg.Server.Rate > 0 {
		s.Limiter = dmhttp.NewClientLimiter(cfg.Server.Rate, cfg.Server.Burst)
	}
	m.Server = s

	return s.Open()
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	if m.Server != nil {
		err = m.Server.Close()
	}
	if m.DB != nil {
		if e := m.DB.Close(); err == nil {
			err = e
		}
	}
	return err
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dmserver.db"
	}
	dir := filepath.Join(home, ".dmserver")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "modules.db")
}
