package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is bumped whenever the plan or artifact encoding changes so old
// entries stop matching.
const keyVersion = "v1"

// hashKey returns "<kind>:<sha256>" over the key version, the artwork hash
// and the JSON encoding of opts.
func hashKey(kind, sourceHash string, opts any) string {
	h := sha256.New()
	h.Write([]byte(keyVersion))
	h.Write([]byte{0})
	h.Write([]byte(sourceHash))
	h.Write([]byte{0})
	_ = json.NewEncoder(h).Encode(opts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of an artwork or encoded plan.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
