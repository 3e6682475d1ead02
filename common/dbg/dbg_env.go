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

// Package dbg reads YULRUN_ environment overrides of run defaults.
package dbg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/ledgerwatch/log/v3"
)

const envPrefix = "YULRUN_"

var (
	MaxTraceSize    = EnvInt("MAX_TRACE", 0)
	MaxSteps        = EnvUint("MAX_STEPS", 0)
	MaxMemoryAccess = EnvDataSize("MAX_MEMORY_ACCESS", 0)
	Timeout         = EnvDuration("TIMEOUT", 0)
)

func envLookup(envVarName string) (string, bool) {
	if v, ok := os.LookupEnv(envPrefix + envVarName); ok {
		log.Debug("[env]", envPrefix+envVarName, v)
		return v, true
	}
	return "", false
}

func EnvInt(envVarName string, defaultVal int) int {
	v, _ := envLookup(envVarName)
	if v != "" {
		return int(MustParseInt(v))
	}
	return defaultVal
}

func EnvUint(envVarName string, defaultVal uint64) uint64 {
	v, _ := envLookup(envVarName)
	if v != "" {
		return MustParseUint(v)
	}
	return defaultVal
}

func EnvDataSize(envVarName string, defaultVal datasize.ByteSize) datasize.ByteSize {
	v, _ := envLookup(envVarName)
	if v != "" {
		val, err := datasize.ParseString(v)
		if err != nil {
			panic(fmt.Errorf("%s%s: %w", envPrefix, envVarName, err))
		}
		return val
	}
	return defaultVal
}

func EnvDuration(envVarName string, defaultVal time.Duration) time.Duration {
	v, _ := envLookup(envVarName)
	if v != "" {
		val, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%s%s: %w", envPrefix, envVarName, err))
		}
		return val
	}
	return defaultVal
}

// MustParseInt parses a decimal number that may use _ as digit separator.
func MustParseInt(strNum string) int64 {
	cleanNum := strings.ReplaceAll(strNum, "_", "")
	parsed, err := strconv.ParseInt(cleanNum, 10, 64)
	if err != nil {
		panic(fmt.Errorf("%w, str: %s", err, strNum))
	}
	return parsed
}

func MustParseUint(strNum string) uint64 {
	cleanNum := strings.ReplaceAll(strNum, "_", "")
	parsed, err := strconv.ParseUint(cleanNum, 10, 64)
	if err != nil {
		panic(fmt.Errorf("%w, str: %s", err, strNum))
	}
	return parsed
}
