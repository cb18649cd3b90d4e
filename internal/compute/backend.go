package compute

// Backend runs a data-parallel loop over a particle arena.
type Backend interface {
	Name() string
	Available() bool
	ForEach(n int, fn func(start, end int))
	Cleanup()
}

// AutoSelectBackend prefers the multi-core backend when more than one CPU is
// available.
func AutoSelectBackend() Backend {
	cpu := NewCPUBackend()
	if cpu.Available() {
		return cpu
	}
	return NewSerialBackend()
}

// ByName resolves a backend from a CLI or config value.
func ByName(name string) Backend {
	switch name {
	case "cpu", "parallel":
		return NewCPUBackend()
	case "serial":
		return NewSerialBackend()
	default:
		return AutoSelectBackend()
	}
}
