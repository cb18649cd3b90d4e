package compute

import (
	"runtime"

	"github.com/san-kum/slitsim/internal/dynamo"
)

// minChunk keeps goroutine overhead below the per-particle work.
const minChunk = 256

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return c.workers > 1 }
func (c *CPUBackend) Cleanup()        {}
func (c *CPUBackend) Workers() int    { return c.workers }

func (c *CPUBackend) ForEach(n int, fn func(start, end int)) {
	dynamo.ParallelFor(n, minChunk, c.workers, fn)
}
