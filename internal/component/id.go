// File path: internal/component/id.go
package component

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// DeriveID computes the stable identifier for a component from its name, file
// path and type. The same physical component always hashes to the same ID so
// re-discovery never creates duplicates; paths are slash-normalized so the ID
// does not vary across operating systems.
func DeriveID(name, path string, typ Type) string {
	hasher := sha256.New()
	for _, part := range []string{
		strings.TrimSpace(name),
		filepath.ToSlash(strings.TrimSpace(path)),
		string(typ.Normalize()),
	} {
		_, _ = hasher.Write([]byte(part))
		_, _ = hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}
