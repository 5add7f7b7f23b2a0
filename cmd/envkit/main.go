// Command envkit loads dotenv style sources and prints typed lookups.
//
//	envkit -f .env -f .env.local PORT:int=8080 DEBUG:bool=false DATABASE_URL
//
// Each lookup is KEY[:type][=default] with type one of string, float, int or
// bool. Results are printed as a YAML document, or as dotenv lines with
// -output dotenv. A lookup without default whose key is missing or unparsable
// makes envkit exit with status 1.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/animalet/envkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Version information set during build
var (
	version = "dev"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, env.OS()))
}

func run(args []string, stdout, stderr io.Writer, target env.Environment) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	if opts.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        stderr,
		NoColor:    false,
		TimeFormat: "2006-01-02 15:04:05",
	})

	if opts.showVersion {
		_, _ = fmt.Fprintf(stdout, "%s %s\n", "envkit", version)
		return 0
	}

	lookups, err := parseLookups(opts.lookups)
	if err != nil {
		log.Error().Err(err).Msg("Invalid lookup")
		return 2
	}

	parsed, err := env.Load(target, opts.loadOptions())
	if err != nil {
		// Sources are optional: platforms often provide the environment directly.
		log.Warn().Err(err).Msg("Unable to load every source")
	}
	log.Debug().Int("keys", len(parsed)).Msg("Sources loaded")

	result, err := resolveAll(env.New(target), lookups)
	if err != nil {
		log.Error().Err(err).Msg("Lookup failed")
		return 1
	}

	write := writeYAML
	if opts.output == outputDotenv {
		write = writeDotenv
	}
	if err = write(stdout, result); err != nil {
		log.Error().Err(err).Msg("Unable to write output")
		return 1
	}
	return 0
}

func writeYAML(w io.Writer, values map[string]any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(values); err != nil {
		return errors.Wrap(err, "error encoding lookups")
	}
	return encoder.Close()
}

func writeDotenv(w io.Writer, values map[string]any) error {
	lines := make(map[string]string, len(values))
	for key, value := range values {
		lines[key] = fmt.Sprint(value)
	}
	content, err := godotenv.Marshal(lines)
	if err != nil {
		return errors.Wrap(err, "error encoding lookups")
	}
	_, err = io.WriteString(w, content+"\n")
	return err
}
