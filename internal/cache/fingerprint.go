package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Fingerprint identifies one logical query: the normalized text, the resolved
// intent, and the location. Identical fingerprints must hit the cache before
// re-querying a provider.
type Fingerprint string

func NewFingerprint(query, intent, location string) Fingerprint {
	keyData := struct {
		Query    string
		Intent   string
		Location string
	}{
		Query:    normalize(query),
		Intent:   normalize(intent),
		Location: normalize(location),
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return Fingerprint("query:" + hex.EncodeToString(hash[:]))
}

// normalize lowercases and collapses whitespace so cosmetic differences in
// the utterance do not defeat the cache.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
