// Package main is the entry point for the crontab CLI.
//
// crontab creates CronTab resources (stable.example.com/v1) from a form or
// a YAML document, and installs or removes the console plugin's helm chart
// around end-to-end runs.
//
// Commands: create, template, testenv, version, completion.
//
// For detailed usage information, run:
//
//	crontab --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/crontab-plugin/cmd/crontab/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
