// daetool converts Ragnarok Online models and worlds to COLLADA documents.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "export", "x":
		err = cmdExport(args)
	case "info":
		err = cmdInfo(args)
	case "watch":
		err = cmdWatch(args)
	case "models", "ls":
		err = cmdModels(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`daetool - Ragnarok Online to COLLADA exporter

Usage:
  daetool <command> [options]

Commands:
  export [options] <file.rsm|file.rsw>   Write a .dae document
  info [options] <file.rsm|file.rsw>     Print the export tree
  watch [options] <file.rsm|file.rsw>    Re-export whenever the file changes
  models <file.grf> [pattern]            List models and worlds in an archive
  config [path]                          Write the default config

Options (export, info, watch):
  -o <file>          Output path (default: input with .dae extension, - for stdout)
  -config <file>     Config file (.yaml or .toml)
  -grf <file>        GRF archive to resolve world models from (repeatable)
  -data <dir>        Directory containing data/model/ (repeatable)
  -profile <name>    Profile name of <extra> techniques
  -up <axis>         X_UP, Y_UP or Z_UP
  -no-lights         Skip lights
  -no-cameras        Skip cameras
  -unknown           Keep sounds, effects and other unclassified nodes
  -camera            Add a default camera to worlds
  -compact           No indentation
  -debug             Debug logging
  -log <file>        Also log to a rotating file

Examples:
  daetool export data/model/prontera/house.rsm
  daetool export -grf data.grf -o prontera.dae data/prontera.rsw
  daetool info -unknown data/prontera.rsw
  daetool models data.grf "prontera"`)
}
