// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/erigontech/yulrun/turbo/logging"
	"github.com/erigontech/yulrun/yul/isotest"
)

var testCommand = cli.Command{
	Action:    testAction,
	Name:      "test",
	Usage:     "Run expectation files",
	ArgsUsage: "<file or directory>...",
	Flags: append([]cli.Flag{
		&UpdateFlag,
		&ParallelFlag,
	}, logging.Flags...),
	Description: "Runs every .yul file given, or found below a given directory, and compares its dump with the expectation that follows the // ---- line.",
}

func testAction(ctx *cli.Context) error {
	logger := logging.SetupLoggerCtx("yulrun", ctx)
	if !ctx.Args().Present() {
		return fmt.Errorf("no expectation files given")
	}
	files, err := collectFiles(ctx.Args().Slice())
	if err != nil {
		return err
	}

	results, err := isotest.RunFiles(ctx.Context, files, isotest.Config{
		Update:      ctx.Bool(UpdateFlag.Name),
		Parallelism: ctx.Int(ParallelFlag.Name),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	w := ctx.App.Writer
	var failed, updated int
	for _, r := range results {
		switch {
		case r.Passed:
			fmt.Fprintf(w, "PASS    %s\n", r.Path)
		case r.Updated:
			updated++
			fmt.Fprintf(w, "UPDATED %s\n", r.Path)
		default:
			failed++
			fmt.Fprintf(w, "FAIL    %s\n%s\n", r.Path, r.Diff)
		}
	}
	fmt.Fprintf(w, "%d passed, %d failed, %d updated\n", len(results)-failed-updated, failed, updated)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// collectFiles expands directories to the .yul files below them.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".yul" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
