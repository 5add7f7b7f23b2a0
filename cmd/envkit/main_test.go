package main

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/animalet/envkit/pkg/env"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var _ = Describe("envkit", func() {
	var (
		stdout, stderr bytes.Buffer
		tempDir        string
		dotenv         string
	)

	BeforeEach(func() {
		stdout.Reset()
		stderr.Reset()
		tempDir = GinkgoT().TempDir()
		dotenv = filepath.Join(tempDir, ".env")
		Expect(os.WriteFile(dotenv, []byte("PORT=8080\nDEBUG='TRUE'\nRATIO=0.75x\nNAME=app\n"), 0o600)).To(Succeed())
	})

	AfterEach(func() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	decode := func() map[string]any {
		out := map[string]any{}
		Expect(yaml.Unmarshal(stdout.Bytes(), &out)).To(Succeed())
		return out
	}

	Describe("parseFlags", func() {
		It("should collect repeated source flags and lookups", func() {
			opts, err := parseFlags([]string{"-f", "a.env", "-f", "b.env", "-override", "PORT:int"}, &stderr)
			Expect(err).NotTo(HaveOccurred())
			Expect([]string(opts.paths)).To(Equal([]string{"a.env", "b.env"}))
			Expect(opts.override).To(BeTrue())
			Expect(opts.lookups).To(Equal([]string{"PORT:int"}))
		})

		It("should return error for invalid flag", func() {
			_, err := parseFlags([]string{"--invalid-flag"}, &stderr)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("parseLookup", func() {
		It("should default to string lookups", func() {
			l, err := parseLookup("NAME")
			Expect(err).NotTo(HaveOccurred())
			Expect(l).To(Equal(lookup{key: "NAME", kind: typeString}))
		})

		It("should read type and default", func() {
			l, err := parseLookup("PORT:int=8080")
			Expect(err).NotTo(HaveOccurred())
			Expect(l).To(Equal(lookup{key: "PORT", kind: typeInt, def: "8080", hasDefault: true}))
		})

		It("should accept empty defaults", func() {
			l, err := parseLookup("NAME=")
			Expect(err).NotTo(HaveOccurred())
			Expect(l.hasDefault).To(BeTrue())
			Expect(l.def).To(BeEmpty())
		})

		It("should reject unknown types", func() {
			_, err := parseLookup("PORT:duration")
			Expect(err).To(MatchError(ContainSubstring(`unknown type "duration"`)))
		})

		It("should reject empty keys", func() {
			_, err := parseLookup(":int")
			Expect(err).To(MatchError(ContainSubstring("missing key")))
		})
	})

	Describe("run", func() {
		It("should print typed lookups", func() {
			target := env.Map{}
			code := run([]string{"-f", dotenv, "PORT:int", "DEBUG:bool", "RATIO:float", "NAME", "MISSING:int=3"}, &stdout, &stderr, target)
			Expect(code).To(Equal(0))

			out := decode()
			Expect(out).To(HaveKeyWithValue("PORT", 8080))
			Expect(out).To(HaveKeyWithValue("DEBUG", true))
			Expect(out).To(HaveKeyWithValue("RATIO", 0.75))
			Expect(out).To(HaveKeyWithValue("NAME", "app"))
			Expect(out).To(HaveKeyWithValue("MISSING", 3))
			Expect(target).To(HaveKeyWithValue("PORT", "8080"))
		})

		It("should keep platform values without override", func() {
			target := env.Map{"PORT": "9000"}
			Expect(run([]string{"-f", dotenv, "PORT:int"}, &stdout, &stderr, target)).To(Equal(0))
			Expect(decode()).To(HaveKeyWithValue("PORT", 9000))
		})

		It("should tolerate a missing source", func() {
			target := env.Map{"NAME": "platform"}
			code := run([]string{"-f", filepath.Join(tempDir, "missing.env"), "NAME"}, &stdout, &stderr, target)
			Expect(code).To(Equal(0))
			Expect(decode()).To(HaveKeyWithValue("NAME", "platform"))
			Expect(stderr.String()).To(ContainSubstring("Unable to load every source"))
		})

		It("should fail on a missing required field", func() {
			code := run([]string{"-f", dotenv, "SESSION_SECRET"}, &stdout, &stderr, env.Map{})
			Expect(code).To(Equal(1))
			Expect(stderr.String()).To(ContainSubstring("Missing environment field 'SESSION_SECRET'!"))
			Expect(stdout.String()).To(BeEmpty())
		})

		It("should reject invalid defaults", func() {
			code := run([]string{"-f", dotenv, "TIMEOUT:int=soon"}, &stdout, &stderr, env.Map{})
			Expect(code).To(Equal(1))
			Expect(stderr.String()).To(ContainSubstring("invalid int default"))
		})

		It("should print the version", func() {
			Expect(run([]string{"-version"}, &stdout, &stderr, env.Map{})).To(Equal(0))
			Expect(stdout.String()).To(Equal("envkit dev\n"))
		})

		It("should exit with usage errors on bad flags", func() {
			Expect(run([]string{"-nope"}, &stdout, &stderr, env.Map{})).To(Equal(2))
		})

		It("should print usage and succeed on -h", func() {
			Expect(run([]string{"-h"}, &stdout, &stderr, env.Map{})).To(Equal(0))
			Expect(stderr.String()).To(ContainSubstring("Usage of envkit"))
			Expect(stderr.String()).To(ContainSubstring("-override"))
			Expect(stdout.String()).To(BeEmpty())
		})

		It("should print dotenv lines", func() {
			code := run([]string{"-f", dotenv, "-output", "dotenv", "PORT:int", "NAME"}, &stdout, &stderr, env.Map{})
			Expect(code).To(Equal(0))
			Expect(stdout.String()).To(Equal("NAME=\"app\"\nPORT=8080\n"))
		})

		It("should reject unknown output formats", func() {
			Expect(run([]string{"-output", "json", "NAME"}, &stdout, &stderr, env.Map{})).To(Equal(2))
			Expect(stderr.String()).To(ContainSubstring(`unknown output format "json"`))
		})
	})
})
