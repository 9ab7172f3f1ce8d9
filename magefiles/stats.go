// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// pkgStats counts the Go lines of one package directory.
type pkgStats struct {
	Prod int `json:"prod"`
	Test int `json:"test"`
}

// Stats prints Go lines of code per package and in total, and the word
// count of the top-level markdown documents, as one JSON record.
func Stats() error {
	pkgs := map[string]*pkgStats{}
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != "." && skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return nil
		}
		dir := filepath.ToSlash(filepath.Dir(path))
		s, ok := pkgs[dir]
		if !ok {
			s = &pkgStats{}
			pkgs[dir] = s
		}
		if strings.HasSuffix(path, "_test.go") {
			s.Test += n
		} else {
			s.Prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	var total pkgStats
	dirs := make([]string, 0, len(pkgs))
	for dir, s := range pkgs {
		dirs = append(dirs, dir)
		total.Prod += s.Prod
		total.Test += s.Test
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		s := pkgs[dir]
		fmt.Printf("%-24s %6d prod %6d test\n", dir, s.Prod, s.Test)
	}

	docWords, err := countWordsInGlob("*.md")
	if err != nil {
		return err
	}
	line, err := json.Marshal(map[string]int{
		"go_loc_prod": total.Prod,
		"go_loc_test": total.Test,
		"go_loc":      total.Prod + total.Test,
		"packages":    len(pkgs),
		"doc_wc":      docWords,
	})
	if err != nil {
		return err
	}
	fmt.Println(string(line))
	return nil
}

// skipDir reports directories that hold no project code: VCS metadata,
// build output, build tooling and underscore-prefixed reference trees.
func skipDir(path string) bool {
	base := filepath.Base(path)
	return base == ".git" || base == "vendor" || base == binaryDir ||
		base == "magefiles" || strings.HasPrefix(base, "_") || strings.HasPrefix(base, ".")
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}

func countWordsInGlob(pattern string) (int, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		total += len(strings.FieldsFunc(string(data), unicode.IsSpace))
	}
	return total, nil
}
