package spec

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the deterministic content hash of a spec, used as the cache
// key for generated packages alongside the generator's template version.
//
// encoding/json sorts map keys, so marshaling the same spec value always
// yields the same bytes regardless of how the maps were populated.
func Hash(s *WidgetSpec) string {
	data, err := json.Marshal(s)
	if err != nil {
		// Only unsupported value types can fail here; a parsed spec never
		// contains them. Hash the error text so the key is still stable.
		data = []byte("unhashable:" + err.Error())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
