// Package config resolves the handful of knobs the cmd/ binaries need
// (memory size, vector register width) from environment variables,
// keeping rvcore itself free of ambient configuration: Build always
// takes its parameters explicitly.
package config

import (
	"fmt"

	"github.com/xyproto/env/v2"

	"github.com/rv64v/sim/pkg/rvcore"
)

// Config carries the resolved knobs for one cmd/ invocation.
type Config struct {
	MemorySize int
	Vlen       rvcore.Vlen
}

// FromEnv reads RV64V_MEM_SIZE and RV64V_VLEN, falling back to
// rvcore's own defaults when unset.
func FromEnv() (Config, error) {
	memSize := env.Int("RV64V_MEM_SIZE", rvcore.DefaultMemorySize)
	if memSize <= 0 {
		return Config{}, fmt.Errorf("config: RV64V_MEM_SIZE must be positive, got %d", memSize)
	}
	vlenBits := env.Int("RV64V_VLEN", int(rvcore.Vlen256))
	vlen, err := vlenFromBits(vlenBits)
	if err != nil {
		return Config{}, err
	}
	return Config{MemorySize: memSize, Vlen: vlen}, nil
}

func vlenFromBits(bits int) (rvcore.Vlen, error) {
	switch bits {
	case 64:
		return rvcore.Vlen64, nil
	case 128:
		return rvcore.Vlen128, nil
	case 256:
		return rvcore.Vlen256, nil
	case 512:
		return rvcore.Vlen512, nil
	}
	return 0, fmt.Errorf("config: RV64V_VLEN=%d is not one of 64, 128, 256, 512", bits)
}
