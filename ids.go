package kvs

import "fmt"

// InstanceId identifies one logical store within a directory.
type InstanceId uint32

func (id InstanceId) String() string {
	return fmt.Sprintf("%d", uint32(id))
}

// SnapshotId identifies one on-disk generation of a KVS instance.
// Id 0 is always the newest generation; higher ids are older.
type SnapshotId uint32

func (id SnapshotId) String() string {
	return fmt.Sprintf("%d", uint32(id))
}

// SnapshotMaxCount bounds how many generations an instance retains.
type SnapshotMaxCount uint32

// DefaultSnapshotMaxCount is the fallback used when a Builder does not
// set SnapshotMaxCount explicitly.
const DefaultSnapshotMaxCount SnapshotMaxCount = 3
