package kvs

// ErrorCode is the closed set of failure kinds every public operation can
// return. It implements the error interface directly so callers can use
// plain equality or errors.Is against the exported constants.
type ErrorCode int

const (
	// KeyNotFound: the key has no written value and no default.
	KeyNotFound ErrorCode = iota + 1

	// KeyDefaultNotFound: ResetKey found no default entry for the key.
	KeyDefaultNotFound

	// TypeMismatch: the caller asked for a Value as a tag it isn't.
	TypeMismatch

	// InvalidSnapshotId: the requested snapshot id does not exist, or is
	// the reserved "restore current generation" id 0.
	InvalidSnapshotId

	// KvsFileReadError: the payload file could not be read.
	KvsFileReadError

	// KvsFileWriteError: the payload file could not be written.
	KvsFileWriteError

	// KvsHashFileReadError: the .hash sibling could not be read.
	KvsHashFileReadError

	// KvsHashFileWriteError: the .hash sibling could not be written.
	KvsHashFileWriteError

	// IntegrityCorrupted: a load or a rotation found one half of a
	// payload/hash pair missing where both were expected.
	IntegrityCorrupted

	// JsonParserError: the payload bytes are not valid JSON, or do not
	// decode to a top-level object.
	JsonParserError

	// ValidationFailed: the recomputed hash does not match the stored
	// hash (the payload is present but has been tampered with or is
	// truncated).
	ValidationFailed

	// ConfigError: contradictory builder options, or a non-positive
	// SnapshotMaxCount.
	ConfigError
)

var errorCodeNames = map[ErrorCode]string{
	KeyNotFound:           "key not found",
	KeyDefaultNotFound:    "key has no default value",
	TypeMismatch:          "value type mismatch",
	InvalidSnapshotId:     "invalid snapshot id",
	KvsFileReadError:      "kvs file read error",
	KvsFileWriteError:     "kvs file write error",
	KvsHashFileReadError:  "kvs hash file read error",
	KvsHashFileWriteError: "kvs hash file write error",
	IntegrityCorrupted:    "integrity corrupted",
	JsonParserError:       "json parser error",
	ValidationFailed:      "validation failed",
	ConfigError:           "config error",
}

func (e ErrorCode) Error() string {
	if name, ok := errorCodeNames[e]; ok {
		return name
	}
	return "unmapped error"
}
