package rvcore

import "math"

func bitsToF64(bits uint64) float64 { return math.Float64frombits(bits) }
func bitsToF32(bits uint32) float32 { return math.Float32frombits(bits) }
func f64ToBits(v float64) uint64    { return math.Float64bits(v) }
func f32ToBits(v float32) uint32    { return math.Float32bits(v) }
