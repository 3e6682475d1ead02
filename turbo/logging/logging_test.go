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

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ledgerwatch/log/v3"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestTryGetLogLevel(t *testing.T) {
	type scenario struct {
		input    string
		expected log.Lvl
		fails    bool
	}

	scenarios := map[string]scenario{
		"name":    {input: "debug", expected: log.LvlDebug},
		"short":   {input: "warn", expected: log.LvlWarn},
		"number":  {input: "5", expected: log.LvlTrace},
		"garbage": {input: "loud", fails: true},
		"empty":   {input: "", fails: true},
	}

	for name, s := range scenarios {
		s := s
		t.Run(name, func(t *testing.T) {
			lvl, err := tryGetLogLevel(s.input)
			if s.fails {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, s.expected, lvl)
		})
	}
}

func TestSetupLoggerCtxWritesLogDir(t *testing.T) {
	orig := log.Root().GetHandler()
	defer log.Root().SetHandler(orig)

	dir := filepath.Join(t.TempDir(), "logs")
	app := &cli.App{
		Flags: Flags,
		Action: func(ctx *cli.Context) error {
			logger := SetupLoggerCtx("yulrun", ctx)
			logger.Info("hello from the test")
			return nil
		},
	}
	require.NoError(t, app.Run([]string{"yulrun", "--" + LogDirPathFlag.Name, dir, "--" + LogDirJsonFlag.Name}))

	data, err := os.ReadFile(filepath.Join(dir, "yulrun.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "hello from the test")
	require.Contains(t, string(data), "logging to file system")
}
