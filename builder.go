package kvs

import "go.uber.org/zap"

// LoadMode controls how the builder treats a missing defaults document or
// KVS snapshot at open time.
type LoadMode int

const (
	// ModeIgnored skips the corresponding file entirely.
	ModeIgnored LoadMode = iota
	// ModeOptional loads and validates if present. For defaults it starts
	// empty on any failure (absent file, torn pair, or hash mismatch); for
	// the KVS it tries older generations in turn and starts empty only
	// when none of them verifies.
	ModeOptional
	// ModeRequired loads and validates; any failure is terminal for Build.
	ModeRequired
)

// Builder constructs a KVS Instance. It is the only configuration surface
// the engine exposes -- no environment variables, no config files.
type Builder struct {
	instanceId       InstanceId
	dir              string
	defaultsMode     LoadMode
	kvsLoadMode      LoadMode
	snapshotMaxCount SnapshotMaxCount
	backendName      string
	backend          Backend
	logger           *zap.Logger
}

// NewBuilder starts a Builder for instanceId with the package defaults:
// current directory, both defaults and kvs-load set to optional, a
// retention depth of DefaultSnapshotMaxCount, and the "json" backend.
func NewBuilder(instanceId InstanceId) *Builder {
	return &Builder{
		instanceId:       instanceId,
		dir:              ".",
		defaultsMode:     ModeOptional,
		kvsLoadMode:      ModeOptional,
		snapshotMaxCount: DefaultSnapshotMaxCount,
		backendName:      "json",
	}
}

func (b *Builder) Dir(dir string) *Builder {
	b.dir = dir
	return b
}

func (b *Builder) Defaults(mode LoadMode) *Builder {
	b.defaultsMode = mode
	return b
}

func (b *Builder) KvsLoad(mode LoadMode) *Builder {
	b.kvsLoadMode = mode
	return b
}

func (b *Builder) SnapshotMaxCount(n SnapshotMaxCount) *Builder {
	b.snapshotMaxCount = n
	return b
}

// BackendName selects a registered backend factory by name. Default "json".
func (b *Builder) BackendName(name string) *Builder {
	b.backendName = name
	return b
}

// Backend injects an already-constructed Backend (a test double, most
// commonly), bypassing the named registry entirely.
func (b *Builder) Backend(backend Backend) *Builder {
	b.backend = backend
	return b
}

func (b *Builder) Logger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates options, opens or creates the backend, loads the
// defaults overlay and the newest valid KVS snapshot per the load-mode
// table, and returns a ready-to-use Instance. A failure here is terminal:
// Build never returns a half-constructed instance.
func (b *Builder) Build() (Instance, error) {
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	backend := b.backend
	if backend == nil {
		factory, ok := lookupBackend(b.backendName)
		if !ok {
			return nil, ConfigError
		}
		built, err := factory(b.dir, b.snapshotMaxCount)
		if err != nil {
			return nil, err
		}
		backend = built
	}

	defaults, err := b.loadDefaults(backend)
	if err != nil {
		logger.Error("failed to load defaults", zap.Uint32("instance", uint32(b.instanceId)), zap.Error(err))
		return nil, err
	}

	data, err := b.loadKvs(backend)
	if err != nil {
		logger.Error("failed to load kvs", zap.Uint32("instance", uint32(b.instanceId)), zap.Error(err))
		return nil, err
	}

	logger.Info("kvs instance opened",
		zap.Uint32("instance", uint32(b.instanceId)),
		zap.String("dir", b.dir),
		zap.Int("written_keys", len(data)),
		zap.Int("default_keys", len(defaults)),
	)

	return &instance{
		instanceId: b.instanceId,
		backend:    backend,
		defaults:   defaults,
		data:       data,
		log:        logger,
	}, nil
}

func (b *Builder) loadDefaults(backend Backend) (map[string]Value, error) {
	switch b.defaultsMode {
	case ModeIgnored:
		return map[string]Value{}, nil
	case ModeRequired:
		data, err := backend.LoadDefaults(b.instanceId)
		if err != nil {
			return nil, err
		}
		return data, nil
	case ModeOptional:
		data, err := backend.LoadDefaults(b.instanceId)
		if err != nil {
			return map[string]Value{}, nil
		}
		return data, nil
	default:
		return nil, ConfigError
	}
}

// loadKvs implements the newest-valid-snapshot scan. Required checks only
// generation 0 -- the newest -- and surfaces that failure immediately,
// rather than masking it by falling through to older generations.
// Optional walks 0..snapshotMaxCount-1 looking for the first generation
// that verifies, falling back to an empty map if none does.
func (b *Builder) loadKvs(backend Backend) (map[string]Value, error) {
	switch b.kvsLoadMode {
	case ModeIgnored:
		return map[string]Value{}, nil
	case ModeRequired:
		data, err := backend.LoadKvs(b.instanceId, SnapshotId(0))
		if err != nil {
			return nil, err
		}
		return data, nil
	case ModeOptional:
		for i := 0; i < int(b.snapshotMaxCount); i++ {
			data, err := backend.LoadKvs(b.instanceId, SnapshotId(i))
			if err == nil {
				return data, nil
			}
		}
		return map[string]Value{}, nil
	default:
		return nil, ConfigError
	}
}
