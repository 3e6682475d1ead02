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

// Command yulrun runs a Yul program and prints a trace of all its side
// effects followed by a dump of the final state.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/erigontech/yulrun/turbo/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdin, os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "yulrun"
	app.Usage = "the Yul interpreter"
	app.UsageText = app.Name + " [flags] [files...]"
	app.Description = "Reads the given files, concatenated, or stdin when there are none, runs the program and prints a trace of all side effects."
	app.Reader, app.Writer, app.ErrWriter = stdin, stdout, stderr
	app.HideVersion = true

	app.Flags = append(append([]cli.Flag{}, runFlags...), logging.Flags...)
	app.Action = runAction
	app.Commands = []*cli.Command{
		&testCommand,
	}
	return app
}
