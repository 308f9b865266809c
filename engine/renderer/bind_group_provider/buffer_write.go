package bind_group_provider

// BufferWrite describes a single queued GPU buffer write targeting a binding on a provider.
// The renderer collects these while walking the scene and flushes them before encoding the pass.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
