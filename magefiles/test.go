// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const coverProfile = "coverage.out"

// Test groups test targets (all, unit, cover).
type Test mg.Namespace

// All runs every test in the module.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Unit runs the tests of the library and internal packages. --run filters
// test names and --pkg narrows the package pattern.
func (Test) Unit() error {
	fs := flag.NewFlagSet("test:unit", flag.ContinueOnError)
	run := fs.String("run", "", "regexp selecting tests to run")
	pattern := fs.String("pkg", "./...", "package pattern")
	parseTargetFlags(fs)

	pkgs, err := sh.Output(binGo, "list", *pattern)
	if err != nil {
		return err
	}
	var unitPkgs []string
	for pkg := range strings.SplitSeq(pkgs, "\n") {
		if pkg != "" && !strings.HasSuffix(pkg, "/magefiles") {
			unitPkgs = append(unitPkgs, pkg)
		}
	}
	if len(unitPkgs) == 0 {
		fmt.Println("No unit test packages found.")
		return nil
	}
	args := []string{"test", "-v"}
	if *run != "" {
		args = append(args, "-run", *run)
	}
	return sh.RunV(binGo, append(args, unitPkgs...)...)
}

// Cover runs every test with the race detector and writes coverage.out,
// then prints the per-function summary.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-race", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverProfile)
}
