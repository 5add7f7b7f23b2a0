package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/animalet/envkit/pkg/env"
	"github.com/pkg/errors"
)

const (
	outputYAML   = "yaml"
	outputDotenv = "dotenv"
)

type cliOptions struct {
	paths        pathList
	encoding     string
	format       string
	referenceDir string
	output       string
	override     bool
	expand       bool
	debug        bool
	showVersion  bool
	lookups      []string
}

// pathList collects repeated -f flags.
type pathList []string

func (p *pathList) String() string {
	return strings.Join(*p, ",")
}

func (p *pathList) Set(value string) error {
	*p = append(*p, value)
	return nil
}

func parseFlags(args []string, output io.Writer) (*cliOptions, error) {
	opts := &cliOptions{}

	fs := flag.NewFlagSet("envkit", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Var(&opts.paths, "f", "Source file to load (repeatable, default .env)")
	fs.StringVar(&opts.encoding, "encoding", env.DefaultEncoding, "Encoding of the source files")
	fs.StringVar(&opts.format, "format", "", "Source format: dotenv, yaml or toml (default: from extension)")
	fs.StringVar(&opts.referenceDir, "refs", "", "Directory read by ${file:name} references")
	fs.StringVar(&opts.output, "output", outputYAML, "Output format: yaml or dotenv")
	fs.BoolVar(&opts.override, "override", false, "Overwrite variables that are already set")
	fs.BoolVar(&opts.expand, "expand", false, "Expand ${key} and ${prefix:key} references in loaded values")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.output != outputYAML && opts.output != outputDotenv {
		err := errors.Errorf("unknown output format %q", opts.output)
		_, _ = fmt.Fprintln(output, err)
		return nil, err
	}
	opts.lookups = fs.Args()
	return opts, nil
}

func (o *cliOptions) loadOptions() env.Options {
	return env.Options{
		Paths:        o.paths,
		Encoding:     o.encoding,
		Format:       env.Format(o.format),
		Override:     o.override,
		Expand:       o.expand,
		ReferenceDir: o.referenceDir,
		Debug:        o.debug,
	}
}
