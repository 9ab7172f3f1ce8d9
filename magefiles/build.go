// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

// Build targets for the docket binary.
//
// Usage:
//
//	mage build [--version v1.2.0]   Compile docket to bin/
//	mage test:all                   Run every test
//	mage test:unit [--run X]        Run tests, optionally filtered
//	mage test:cover                 Run tests with a coverage profile
//	mage lint                       Run golangci-lint
//	mage clean                      Remove build artifacts
//	mage install                    Install docket to GOPATH/bin
//	mage stats                      Print Go LOC and documentation word counts
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "docket"
	binaryDir  = "bin"
	cmdDir     = "./cmd/docket"
	versionVar = "github.com/mesh-intelligence/docket/internal/cli.Version"
)

// Build compiles the docket binary to bin/. The version stamped into the
// binary comes from --version, then $DOCKET_VERSION, then "dev".
func Build() error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	version := fs.String("version", os.Getenv("DOCKET_VERSION"), "version stamped into the binary")
	parseTargetFlags(fs)

	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if *version != "" {
		args = append(args, "-ldflags", "-X "+versionVar+"="+*version)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	if err := os.RemoveAll(coverProfile); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
