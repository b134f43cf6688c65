package audio

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Fingerprint returns a short hex BLAKE3 digest of the clip contents,
// used to correlate one clip across log lines and API responses.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
