//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the sakuraflow project using Mage.
//
// Usage:
//
//	mage build        Compile sakuraflow binary to bin/
//	mage test:all     Run all tests
//	mage test:unit    Run tests without the race detector or cache busting
//	mage test:race    Run all tests with the race detector
//	mage test:cover   Run tests and write coverage.out
//	mage lint         Run golangci-lint
//	mage clean        Remove build artifacts
//	mage install      Install sakuraflow to GOPATH/bin
//	mage image:build  Build the container image
//	mage stats        Print Go LOC per package
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "sakuraflow"
	binaryDir  = "bin"
	cmdDir     = "./cmd/sakuraflow"
	versionVar = "github.com/mesh-intelligence/sakuraflow/pkg/sakuraflow.Version"
	envVersion = "SAKURAFLOW_VERSION"
)

// ldflags stamps the version from $SAKURAFLOW_VERSION or the nearest git tag.
func ldflags() string {
	version := os.Getenv(envVersion)
	if version == "" {
		out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
		if err != nil {
			return ""
		}
		version = strings.TrimPrefix(out, "v")
	}
	return "-X " + versionVar + "=" + version
}

// Build compiles the sakuraflow binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if flags := ldflags(); flags != "" {
		args = append(args, "-ldflags", flags)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Clean removes build artifacts.
func Clean() error {
	for _, p := range []string{binaryDir, coverProfile} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
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
