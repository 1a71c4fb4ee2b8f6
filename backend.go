package kvs

import "sync"

// Backend is the persistence contract the KVS instance (C5) relies on.
// A Backend owns the on-disk representation entirely; the instance never
// touches a file directly. The only built-in implementation is
// jsonBackend, but the interface keeps the engine testable against a
// mock and keeps C1/C3's JSON-specific concerns out of instance.go.
type Backend interface {
	// LoadKvs reads the KVS map at the given snapshot generation.
	LoadKvs(instanceId InstanceId, snapshotId SnapshotId) (map[string]Value, error)

	// LoadDefaults reads the immutable defaults overlay document.
	LoadDefaults(instanceId InstanceId) (map[string]Value, error)

	// Flush rotates existing generations and writes data as the new
	// generation 0.
	Flush(instanceId InstanceId, data map[string]Value) error

	// SnapshotCount reports how many valid (payload, hash) generations
	// currently exist, 0..SnapshotMaxCount().
	SnapshotCount(instanceId InstanceId) (int, error)

	// SnapshotMaxCount reports the configured retention depth.
	SnapshotMaxCount() SnapshotMaxCount

	// SnapshotRestore reads an older generation without mutating any
	// on-disk file.
	SnapshotRestore(instanceId InstanceId, snapshotId SnapshotId) (map[string]Value, error)
}

// BackendFactory builds a Backend rooted at dir with the given retention
// depth. Registered factories are looked up by the name set with
// Builder.BackendName.
type BackendFactory func(dir string, maxCount SnapshotMaxCount) (Backend, error)

var (
	backendRegistryMu sync.Mutex
	backendRegistry   = map[string]BackendFactory{}
)

// RegisterBackend makes a named backend factory available to Builder. It
// is typically called from an init() function. Re-registering the same
// name is a ConfigError.
func RegisterBackend(name string, factory BackendFactory) error {
	backendRegistryMu.Lock()
	defer backendRegistryMu.Unlock()
	if _, exists := backendRegistry[name]; exists {
		return ConfigError
	}
	backendRegistry[name] = factory
	return nil
}

func lookupBackend(name string) (BackendFactory, bool) {
	backendRegistryMu.Lock()
	defer backendRegistryMu.Unlock()
	factory, ok := backendRegistry[name]
	return factory, ok
}

func init() {
	// The only backend this package ships; registered the same way the
	// original registers its default_backends() set, minus the
	// trait-object DynEq plumbing Go doesn't need for a simple map.
	if err := RegisterBackend("json", newJSONBackend); err != nil {
		panic(err)
	}
}
