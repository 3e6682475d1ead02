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

package isotest

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ledgerwatch/log/v3"
	"golang.org/x/sync/errgroup"

	"github.com/erigontech/yulrun/common/debug"
)

type Config struct {
	// Update rewrites failing files with the actual dump.
	Update      bool
	Parallelism int // defaults to GOMAXPROCS
	Logger      log.Logger
}

// Result is the verdict on one file.
type Result struct {
	Path    string
	Passed  bool
	Updated bool
	// Diff is the difference between expected and actual dump, as reported
	// by cmp.Diff with expected lines marked - and actual lines +.
	Diff string
}

// RunFiles runs every file and reports the results in the order of paths.
// Files run concurrently, each against its own state. An error means a file
// could not be read, parsed as a case or written back; mismatches are
// results, not errors.
func RunFiles(ctx context.Context, paths []string, cfg Config) ([]Result, error) {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = runtime.GOMAXPROCS(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Root()
	}

	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)
	start := time.Now()
	for i, path := range paths {
		i, path := i, path
		g.Go(func() (err error) {
			defer debug.LogPanic(cfg.Logger, &err)
			res, err := runFile(ctx, path, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var failed int
	for _, r := range results {
		if !r.Passed && !r.Updated {
			failed++
		}
	}
	cfg.Logger.Debug("[isotest] done", "files", len(paths), "failed", failed, "took", time.Since(start))
	return results, nil
}

func runFile(ctx context.Context, path string, cfg Config) (Result, error) {
	res := Result{Path: path}
	content, err := os.ReadFile(path)
	if err != nil {
		return res, err
	}
	c, err := ParseCase(string(content))
	if err != nil {
		return res, err
	}
	actual, err := c.Run(ctx, cfg.Logger.New("file", path))
	if err != nil {
		return res, err
	}

	if actual == c.Expected {
		res.Passed = true
		return res, nil
	}
	res.Diff = cmp.Diff(strings.Split(c.Expected, "\n"), strings.Split(actual, "\n"))
	if !cfg.Update {
		cfg.Logger.Debug("[isotest] mismatch", "file", path)
		return res, nil
	}
	if err := os.WriteFile(path, []byte(c.Format(actual)), 0o644); err != nil {
		return res, err
	}
	res.Updated = true
	cfg.Logger.Info("[isotest] updated expectation", "file", path)
	return res, nil
}
