package qadom

import "github.com/klauspost/cpuid/v2"

// SupportedCPU reports whether the host has the instruction support this
// package's widened scan loops assume (AVX2 and carry-less multiply). On an
// unsupported CPU the scanner still works, just one byte at a time.
func SupportedCPU() bool {
	return cpuid.CPU.Supports(cpuid.AVX2, cpuid.CLMUL)
}

var wideScanEnabled = SupportedCPU()
