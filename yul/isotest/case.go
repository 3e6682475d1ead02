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

// Package isotest runs Yul expectation files: a program followed by the
// trace and state dump it is expected to produce, as comments.
//
//	{
//	    sstore(0, 1)
//	}
//	// ====
//	// externalCalls: true
//	// ----
//	// Trace:
//	// ...
//
// The optional settings block between "// ====" and "// ----" configures the
// run. Statement entries are left out of the dump unless "statements: true"
// is set.
package isotest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/ledgerwatch/log/v3"

	"github.com/erigontech/yulrun/common/hex"
	"github.com/erigontech/yulrun/yul/interpreter"
	"github.com/erigontech/yulrun/yul/parser"
	"github.com/erigontech/yulrun/yul/runtime"
	"github.com/erigontech/yulrun/yul/tracer"
)

const (
	settingsSeparator    = "// ===="
	expectationSeparator = "// ----"
)

var ErrMalformedCase = errors.New("malformed expectation file")

// Settings configure the run of a case.
type Settings struct {
	ExternalCalls bool
	Calldata      []byte
	CallValue     uint256.Int
	MaxTrace      int
	Statements    bool
}

// Case is one parsed expectation file.
type Case struct {
	// Header is the file up to the expectation separator, settings included.
	Header   string
	Source   string
	Settings Settings
	// Expected is the expected dump; empty when the file has none yet.
	Expected string
}

// ParseCase splits content into program, settings and expectation.
func ParseCase(content string) (*Case, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	header, expected := lines, []string(nil)
	for i, l := range lines {
		if strings.TrimSpace(l) == expectationSeparator {
			header, expected = lines[:i], lines[i+1:]
			break
		}
	}

	c := &Case{Header: strings.TrimRight(strings.Join(header, "\n"), "\n")}
	source := header
	for i, l := range header {
		if strings.TrimSpace(l) != settingsSeparator {
			continue
		}
		source = header[:i]
		for _, s := range header[i+1:] {
			if err := c.Settings.set(s); err != nil {
				return nil, err
			}
		}
		break
	}
	c.Source = strings.Join(source, "\n")

	for i, l := range expected {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if !strings.HasPrefix(l, "//") {
			return nil, fmt.Errorf("%w: expectation line %d is not a comment", ErrMalformedCase, i+1)
		}
	}
	c.Expected = uncomment(expected)
	return c, nil
}

func (s *Settings) set(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	body, ok := strings.CutPrefix(line, "//")
	if !ok {
		return fmt.Errorf("%w: setting %q is not a comment", ErrMalformedCase, line)
	}
	key, value, ok := strings.Cut(body, ":")
	if !ok {
		return fmt.Errorf("%w: setting %q has no value", ErrMalformedCase, line)
	}
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)

	var err error
	switch key {
	case "externalCalls":
		s.ExternalCalls, err = strconv.ParseBool(value)
	case "statements":
		s.Statements, err = strconv.ParseBool(value)
	case "maxTrace":
		s.MaxTrace, err = strconv.Atoi(value)
	case "calldata":
		s.Calldata, err = hex.DecodeString(value)
	case "callvalue":
		var v *uint256.Int
		if strings.HasPrefix(value, "0x") {
			v, err = uint256.FromHex(value)
		} else {
			v, err = uint256.FromDecimal(value)
		}
		if err == nil {
			s.CallValue = *v
		}
	default:
		return fmt.Errorf("%w: unknown setting %q", ErrMalformedCase, key)
	}
	if err != nil {
		return fmt.Errorf("%w: setting %s: %w", ErrMalformedCase, key, err)
	}
	return nil
}

func uncomment(lines []string) string {
	var out []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		l = strings.TrimPrefix(l, "//")
		out = append(out, strings.TrimPrefix(l, " "))
	}
	return strings.Join(out, "\n")
}

func comment(text string) string {
	var sb strings.Builder
	for _, l := range strings.Split(text, "\n") {
		if l == "" {
			sb.WriteString("//\n")
			continue
		}
		sb.WriteString("// " + l + "\n")
	}
	return sb.String()
}

// Run interprets the case and returns its dump. Invalid source yields the
// diagnostics instead of a dump.
func (c *Case) Run(ctx context.Context, logger log.Logger) (string, error) {
	cfg := &runtime.Config{
		Calldata:      c.Settings.Calldata,
		CallValue:     c.Settings.CallValue,
		ExternalCalls: c.Settings.ExternalCalls,
		Interpreter: interpreter.Config{
			MaxTraceSize:          c.Settings.MaxTrace,
			DisableStatementTrace: !c.Settings.Statements,
		},
		Logger: logger,
	}
	res, err := runtime.Execute(ctx, c.Source, cfg)
	var diags parser.Diagnostics
	if err != nil && !errors.Is(err, interpreter.ErrInternal) && errors.As(err, &diags) {
		lines := []string{"Error parsing source."}
		for _, d := range diags {
			lines = append(lines, d.String())
		}
		return strings.Join(lines, "\n"), nil
	}
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tracer.WriteText(&buf, res.State.View(), res.Outcome); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Format returns the file content with actual as its expectation.
func (c *Case) Format(actual string) string {
	return c.Header + "\n" + expectationSeparator + "\n" + comment(actual)
}
