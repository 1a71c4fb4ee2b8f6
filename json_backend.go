package kvs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// jsonBackend implements Backend by storing each generation as a JSON
// object file plus an Adler-32 .hash sibling.
type jsonBackend struct {
	dir      string
	maxCount SnapshotMaxCount
	log      *zap.Logger
}

func newJSONBackend(dir string, maxCount SnapshotMaxCount) (Backend, error) {
	if maxCount == 0 {
		return nil, ConfigError
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &jsonBackend{dir: dir, maxCount: maxCount, log: zap.NewNop()}, nil
}

func (b *jsonBackend) SnapshotMaxCount() SnapshotMaxCount { return b.maxCount }

func (b *jsonBackend) kvsFileName(instanceId InstanceId, snapshotId SnapshotId) string {
	return "kvs_" + instanceId.String() + "_" + snapshotId.String() + ".json"
}

func (b *jsonBackend) hashFileName(instanceId InstanceId, snapshotId SnapshotId) string {
	return "kvs_" + instanceId.String() + "_" + snapshotId.String() + ".hash"
}

func (b *jsonBackend) kvsPath(instanceId InstanceId, snapshotId SnapshotId) string {
	return filepath.Join(b.dir, b.kvsFileName(instanceId, snapshotId))
}

func (b *jsonBackend) hashPath(instanceId InstanceId, snapshotId SnapshotId) string {
	return filepath.Join(b.dir, b.hashFileName(instanceId, snapshotId))
}

func (b *jsonBackend) defaultsFileName(instanceId InstanceId) string {
	return "kvs_" + instanceId.String() + "_default.json"
}

func (b *jsonBackend) defaultsHashFileName(instanceId InstanceId) string {
	return "kvs_" + instanceId.String() + "_default.hash"
}

func (b *jsonBackend) defaultsPath(instanceId InstanceId) string {
	return filepath.Join(b.dir, b.defaultsFileName(instanceId))
}

func (b *jsonBackend) defaultsHashPath(instanceId InstanceId) string {
	return filepath.Join(b.dir, b.defaultsHashFileName(instanceId))
}

// load reads a payload+hash pair, verifies it, and decodes it into a map.
// It distinguishes file-read failures, hash-read failures, a torn pair
// (one file present, the other missing, not a mismatch), and a hash
// mismatch of a complete pair.
func (b *jsonBackend) load(kvsPath, hashPath string) (map[string]Value, error) {
	payloadExists := fileExists(kvsPath)
	hashExists := fileExists(hashPath)

	if !payloadExists && !hashExists {
		return nil, KvsFileReadError
	}
	if payloadExists != hashExists {
		return nil, IntegrityCorrupted
	}

	payload, err := os.ReadFile(kvsPath)
	if err != nil {
		return nil, KvsFileReadError
	}
	hashBytes, err := os.ReadFile(hashPath)
	if err != nil {
		return nil, KvsHashFileReadError
	}
	if !verifyHash(payload, hashBytes) {
		return nil, ValidationFailed
	}

	var fields map[string]Value
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, JsonParserError
	}
	return fields, nil
}

// save serializes data and writes payload then hash, each via an atomic
// temp-file-then-rename. Payload is renamed into place before the hash so
// a reader never observes a hash without its payload; a reader that comes
// between the two renames sees a payload with no hash, which load reports
// as IntegrityCorrupted.
func (b *jsonBackend) save(data map[string]Value, kvsPath, hashPath string) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return JsonParserError
	}
	if err := atomicWriteFile(b.dir, kvsPath, payload); err != nil {
		return KvsFileWriteError
	}
	hashBytes := []byte(hashHex(payload))
	if err := atomicWriteFile(b.dir, hashPath, hashBytes); err != nil {
		return KvsHashFileWriteError
	}
	return nil
}

func (b *jsonBackend) LoadKvs(instanceId InstanceId, snapshotId SnapshotId) (map[string]Value, error) {
	return b.load(b.kvsPath(instanceId, snapshotId), b.hashPath(instanceId, snapshotId))
}

func (b *jsonBackend) LoadDefaults(instanceId InstanceId) (map[string]Value, error) {
	return b.load(b.defaultsPath(instanceId), b.defaultsHashPath(instanceId))
}

// snapshotRotate shifts existing generations 0..maxCount-2 up by one id,
// discarding anything already at or beyond maxCount-1, to make room for a
// new generation 0. Rotation renames hash before payload for each shifted
// pair -- the reverse of the new-write order, since both halves of an
// already-valid pair are being relocated together, not published fresh.
func (b *jsonBackend) snapshotRotate(instanceId InstanceId) error {
	n := int(b.maxCount)

	for discard := n; ; discard++ {
		snap := b.kvsPath(instanceId, SnapshotId(discard))
		hash := b.hashPath(instanceId, SnapshotId(discard))
		if !fileExists(snap) && !fileExists(hash) {
			break
		}
		os.Remove(snap)
		os.Remove(hash)
	}

	for idx := n - 1; idx >= 1; idx-- {
		oldId := SnapshotId(idx - 1)
		newId := SnapshotId(idx)

		snapOld := b.kvsPath(instanceId, oldId)
		hashOld := b.hashPath(instanceId, oldId)
		snapOldExists := fileExists(snapOld)
		hashOldExists := fileExists(hashOld)

		if !snapOldExists && !hashOldExists {
			continue
		}
		if snapOldExists != hashOldExists {
			return IntegrityCorrupted
		}

		snapNew := b.kvsPath(instanceId, newId)
		hashNew := b.hashPath(instanceId, newId)

		if err := os.Rename(hashOld, hashNew); err != nil {
			return KvsHashFileWriteError
		}
		if err := os.Rename(snapOld, snapNew); err != nil {
			return KvsFileWriteError
		}
	}
	return nil
}

func (b *jsonBackend) Flush(instanceId InstanceId, data map[string]Value) error {
	if err := b.snapshotRotate(instanceId); err != nil {
		return err
	}
	return b.save(data, b.kvsPath(instanceId, SnapshotId(0)), b.hashPath(instanceId, SnapshotId(0)))
}

// SnapshotCount counts existing, *valid* (payload, hash both present)
// generations starting at id 0, stopping at the first id whose payload or
// hash is missing. A pair with only one half present does not count and
// ends the count; complete pairs at higher ids after such a gap are not
// counted.
func (b *jsonBackend) SnapshotCount(instanceId InstanceId) (int, error) {
	count := 0
	for i := 0; i < int(b.maxCount); i++ {
		snap := b.kvsPath(instanceId, SnapshotId(i))
		hash := b.hashPath(instanceId, SnapshotId(i))
		if fileExists(snap) && fileExists(hash) {
			count++
			continue
		}
		break
	}
	return count, nil
}

func (b *jsonBackend) SnapshotRestore(instanceId InstanceId, snapshotId SnapshotId) (map[string]Value, error) {
	if snapshotId == 0 {
		return nil, InvalidSnapshotId
	}
	count, err := b.SnapshotCount(instanceId)
	if err != nil {
		return nil, err
	}
	if int(snapshotId) >= count {
		return nil, InvalidSnapshotId
	}
	return b.LoadKvs(instanceId, snapshotId)
}
