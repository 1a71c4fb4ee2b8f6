package kvs

import (
	"sort"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Instance is the public contract of an open KVS handle (C5 of the
// engine). All operations are in-memory except Flush, SnapshotRestore
// and SnapshotCount, which go through the backend to disk.
type Instance interface {
	SetValue(key string, value Value)
	GetValue(key string) (Value, error)
	KeyExists(key string) bool
	RemoveKey(key string)
	GetAllKeys() []string
	HasDefaultValue(key string) (bool, error)
	GetDefaultValue(key string) (Value, error)
	Reset()
	ResetKey(key string) error
	Flush() error
	SnapshotCount() (int, error)
	SnapshotMaxCount() SnapshotMaxCount
	SnapshotRestore(id SnapshotId) error

	// Dirty reports whether the in-memory map has changed since the last
	// flush. It is informational only: callers MUST NOT rely on a flush
	// being elided when Dirty() is false.
	Dirty() bool
}

type instance struct {
	instanceId InstanceId
	backend    Backend
	defaults   map[string]Value
	data       map[string]Value
	dirty      atomic.Bool
	log        *zap.Logger
}

func (k *instance) SetValue(key string, value Value) {
	k.data[key] = value.Clone()
	k.dirty.Store(true)
	k.log.Debug("set value", zap.Uint32("instance", uint32(k.instanceId)), zap.String("key", key))
}

func (k *instance) GetValue(key string) (Value, error) {
	if v, ok := k.data[key]; ok {
		return v.Clone(), nil
	}
	if v, ok := k.defaults[key]; ok {
		return v.Clone(), nil
	}
	return Value{}, KeyNotFound
}

// GetValueAs fetches key and converts it to T in one call. It reuses
// TypeMismatch (not a second "conversion failed" kind) when the stored
// tag isn't T, since that's already the right failure for a type
// disagreement between caller and store.
func GetValueAs[T int32 | uint32 | int64 | uint64 | float64 | bool | string](inst Instance, key string) (T, error) {
	var zero T
	v, err := inst.GetValue(key)
	if err != nil {
		return zero, err
	}
	switch any(zero).(type) {
	case int32:
		n, err := v.AsInt32()
		if err != nil {
			return zero, err
		}
		return any(n).(T), nil
	case uint32:
		n, err := v.AsUInt32()
		if err != nil {
			return zero, err
		}
		return any(n).(T), nil
	case int64:
		n, err := v.AsInt64()
		if err != nil {
			return zero, err
		}
		return any(n).(T), nil
	case uint64:
		n, err := v.AsUInt64()
		if err != nil {
			return zero, err
		}
		return any(n).(T), nil
	case float64:
		n, err := v.AsFloat64()
		if err != nil {
			return zero, err
		}
		return any(n).(T), nil
	case bool:
		n, err := v.AsBool()
		if err != nil {
			return zero, err
		}
		return any(n).(T), nil
	case string:
		n, err := v.AsString()
		if err != nil {
			return zero, err
		}
		return any(n).(T), nil
	default:
		return zero, TypeMismatch
	}
}

func (k *instance) KeyExists(key string) bool {
	_, ok := k.data[key]
	return ok
}

func (k *instance) RemoveKey(key string) {
	delete(k.data, key)
	k.dirty.Store(true)
}

func (k *instance) GetAllKeys() []string {
	keys := make([]string, 0, len(k.data))
	for key := range k.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// HasDefaultValue reports whether key currently resolves to its default:
// false if the key has been written (regardless of what the written
// value is), true if it is unwritten but a default exists, KeyNotFound if
// neither a written value nor a default exists.
func (k *instance) HasDefaultValue(key string) (bool, error) {
	if _, ok := k.data[key]; ok {
		return false, nil
	}
	if _, ok := k.defaults[key]; ok {
		return true, nil
	}
	return false, KeyNotFound
}

func (k *instance) GetDefaultValue(key string) (Value, error) {
	if v, ok := k.defaults[key]; ok {
		return v.Clone(), nil
	}
	return Value{}, KeyNotFound
}

func (k *instance) Reset() {
	k.data = make(map[string]Value)
	k.dirty.Store(true)
	k.log.Info("reset", zap.Uint32("instance", uint32(k.instanceId)))
}

func (k *instance) ResetKey(key string) error {
	if _, ok := k.defaults[key]; !ok {
		return KeyDefaultNotFound
	}
	delete(k.data, key)
	k.dirty.Store(true)
	return nil
}

func (k *instance) Flush() error {
	if err := k.backend.Flush(k.instanceId, k.data); err != nil {
		k.log.Error("flush failed", zap.Uint32("instance", uint32(k.instanceId)), zap.Error(err))
		return err
	}
	k.dirty.Store(false)
	k.log.Info("flushed", zap.Uint32("instance", uint32(k.instanceId)))
	return nil
}

func (k *instance) SnapshotCount() (int, error) {
	return k.backend.SnapshotCount(k.instanceId)
}

func (k *instance) SnapshotMaxCount() SnapshotMaxCount {
	return k.backend.SnapshotMaxCount()
}

func (k *instance) SnapshotRestore(id SnapshotId) error {
	data, err := k.backend.SnapshotRestore(k.instanceId, id)
	if err != nil {
		k.log.Warn("snapshot restore failed", zap.Uint32("instance", uint32(k.instanceId)), zap.Error(err))
		return err
	}
	k.data = data
	k.dirty.Store(true)
	k.log.Info("snapshot restored", zap.Uint32("instance", uint32(k.instanceId)), zap.Uint32("snapshot", uint32(id)))
	return nil
}

func (k *instance) Dirty() bool {
	return k.dirty.Load()
}
