package compute

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (SerialBackend) Name() string    { return "serial" }
func (SerialBackend) Available() bool { return true }
func (SerialBackend) Cleanup()        {}

func (SerialBackend) ForEach(n int, fn func(start, end int)) {
	if n > 0 {
		fn(0, n)
	}
}
