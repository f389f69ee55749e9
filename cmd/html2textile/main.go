package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"

	"pkt.systems/html2textile"
	"pkt.systems/html2textile/internal/logfields"
)

const usageLine = "usage: html2textile <input> [output]"

func init() {
	version.SetDefaultModule("pkt.systems/html2textile")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		outPath       string
		allowTags     []string
		allowAttrs    []string
		allowListPath string
		strict        bool
		verbose       bool
		showVersion   bool
	)

	flags := pflag.NewFlagSet("html2textile", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.StringSliceVar(&allowTags, "allow-tag", nil, "Pass an unknown tag through as literal markup (repeatable)")
	flags.StringSliceVar(&allowAttrs, "allow-attr", nil, "Keep an attribute on passed-through tags (repeatable)")
	flags.StringVar(&allowListPath, "allow-list", "", "YAML file with tags and attributes allow-lists")
	flags.BoolVar(&strict, "strict", false, "Fail on unbalanced markup instead of recovering")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")
	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: html2textile [flags] <input> [output]\n")
		fmt.Fprintln(stderr, "\nInput is a file path, a file:// or http(s):// URL, or - for stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return 0
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	positional := flags.Args()
	if len(positional) > 2 {
		fmt.Fprintln(stderr, usageLine)
		return 2
	}
	input := "-"
	if len(positional) == 0 {
		if stdin == nil || isTerminal(stdin) {
			fmt.Fprintln(stderr, usageLine)
			return 1
		}
	} else {
		input = positional[0]
	}
	if len(positional) == 2 {
		if outPath != "" {
			fmt.Fprintln(stderr, "output given twice; use either -o or a second argument")
			return 2
		}
		outPath = positional[1]
	}

	opts := []html2textile.Option{
		html2textile.WithLogger(logger),
		html2textile.WithStrict(strict),
		html2textile.WithPermittedTags(allowTags...),
		html2textile.WithPermittedAttributes(allowAttrs...),
	}
	if allowListPath != "" {
		list, err := html2textile.LoadAllowList(normalizePath(allowListPath))
		if err != nil {
			fmt.Fprintf(stderr, "load allow-list: %v\n", err)
			return 1
		}
		opts = append(opts, html2textile.WithAllowList(list))
	}

	writer, closeOut, err := resolveOutput(outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("converting", logfields.Input(input), logfields.Output(defaultIf(outPath, "stdout")))
	if err := convertInput(ctx, input, stdin, writer, opts); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	return 0
}

var errOpenInput = errors.New("open input")

func convertInput(ctx context.Context, raw string, stdin io.Reader, w io.Writer, opts []html2textile.Option) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: empty input argument", errOpenInput)
	}
	if raw == "-" {
		return html2textile.Convert(html2textile.ConvertRequest{Reader: stdin, Writer: w, Options: opts})
	}
	path := raw
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return html2textile.HTTPConvert(ctx, html2textile.HTTPConvertRequest{URL: raw, Writer: w, Options: opts})
		case "file":
			path = u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
		}
	}
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return fmt.Errorf("%w: %w", errOpenInput, err)
	}
	defer func() { _ = f.Close() }()
	return html2textile.Convert(html2textile.ConvertRequest{Reader: f, Writer: w, Options: opts})
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" || path == "-" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func defaultIf(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
