// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

package main

import (
	"flag"

	"github.com/magefile/mage/sh"
)

const binLint = "golangci-lint"

// Lint runs go vet and golangci-lint. --fix lets golangci-lint rewrite
// the files it can fix.
func Lint() error {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	fix := fs.Bool("fix", false, "apply golangci-lint fixes")
	parseTargetFlags(fs)

	if err := sh.RunV(binGo, "vet", "./..."); err != nil {
		return err
	}
	args := []string{"run"}
	if *fix {
		args = append(args, "--fix")
	}
	return sh.RunV(binLint, append(args, "./...")...)
}
