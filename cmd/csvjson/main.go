// Command csvjson converts CSV to JSON or YAML.
//
// Usage:
//
//	csvjson [flags] [file]
//
// The input is read from file, or standard input when it is omitted or "-",
// and converted as it is read: memory use does not grow with the input except
// for --mapping columns and YAML output. Every flag can also be set with a
// CSVJSON_* environment variable or in a --config file.
//
// Example:
//
//	csvjson -H -m objects --column-types integer,string --indent 2 people.csv
package main

import (
	"bufio"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/shapestone/shape-csvjson/internal/config"
	"github.com/shapestone/shape-csvjson/internal/logger"
	"github.com/shapestone/shape-csvjson/pkg/csv"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		slog.Error("csvjson failed", "error", err)
		os.Exit(1)
	}
}

// flusher is implemented by the output encoders.
type flusher interface {
	csv.Handler
	Err() error
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("csvjson", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.RegisterFlags(fs)

	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	log, err := logger.New(stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "configuring logging")
	}
	log = logger.WithComponent(log, "csvjson")
	if cfg.ConfigFile != "" {
		log.Debug("config file loaded", "path", cfg.ConfigFile)
	}

	in, closeIn, err := openInput(cfg.Input, stdin)
	if err != nil {
		return err
	}
	defer closeIn()

	decoded, err := decodeInput(in, cfg.Encoding)
	if err != nil {
		return err
	}
	src := bufio.NewReaderSize(decoded, 64*1024)

	opts := cfg.CSV
	if cfg.Sniff {
		sample, _ := src.Peek(cfg.SniffBytes)
		opts = csv.NewSniffer(string(sample)).Apply(opts)
		log.Debug("dialect sniffed", "delimiter", string(opts.Delimiter), "header", opts.AssumeHeader)
	}
	opts.WarningCallback = func(line int, message string) {
		log.Debug("value fallback", "line", line, "detail", message)
	}

	out, closeOut, err := openOutput(cfg.Output, stdout)
	if err != nil {
		return err
	}

	var enc flusher
	switch cfg.Format {
	case config.FormatYAML:
		enc = csv.NewYAMLEncoder(out, cfg.FlowRows)
	default:
		enc = csv.NewJSONEncoder(out, cfg.Indent)
	}

	log.Info("converting",
		"input", displayName(cfg.Input),
		"output", displayName(cfg.Output),
		"format", cfg.Format,
		"mapping", opts.Mapping.String(),
	)

	p, err := csv.NewParser(enc, opts)
	if err != nil {
		closeOut()
		return errors.Wrap(err, "creating parser")
	}
	if _, err := io.Copy(p, src); err != nil {
		closeOut()
		return errors.Wrapf(err, "reading %s", displayName(cfg.Input))
	}
	if err := p.End(); err != nil {
		closeOut()
		return errors.Wrapf(err, "parsing %s", displayName(cfg.Input))
	}
	if err := enc.Err(); err != nil {
		closeOut()
		return errors.Wrapf(err, "writing %s", displayName(cfg.Output))
	}
	if err := closeOut(); err != nil {
		return errors.Wrapf(err, "closing %s", displayName(cfg.Output))
	}

	log.Info("done", "lines", p.Line(), "characters", p.Offset())
	return nil
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "stdio"
	}
	return path
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening input")
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating output")
	}
	return f, f.Close, nil
}

// decodeInput converts r from the named character set to UTF-8. A leading
// byte order mark overrides the name and is removed.
func decodeInput(r io.Reader, name string) (io.Reader, error) {
	if name == "" {
		name = "utf-8"
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown encoding %q", name)
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}
