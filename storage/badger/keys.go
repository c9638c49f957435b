package badger

import "encoding/binary"

// Key prefix for run checkpoint entries.
const runBatchPrefix = "runbat"

// makeRunPrefix generates the shared key prefix of every batch stored under
// a run ID. Format: prefix:runID:
func makeRunPrefix(runID string) []byte {
	return []byte(runBatchPrefix + ":" + runID + ":")
}

// makeRunBatchKey generates the key of one batch checkpoint.
// The batch index is written BigEndian so iteration order matches batch order.
func makeRunBatchKey(runID string, batchIndex int) []byte {
	prefix := makeRunPrefix(runID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(batchIndex))
	return buf
}
