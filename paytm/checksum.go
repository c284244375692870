// Package paytm implements the gateway's parameter-signing scheme.
// Checksum generation and verification happen only on the backend; the
// merchant key never leaves the process.
package paytm

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"sort"
	"strings"
)

const checksumField = "CHECKSUMHASH"

// checksumBase joins all non-empty parameter values, sorted by key and
// each followed by a pipe. CHECKSUMHASH itself is excluded.
func checksumBase(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == checksumField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if v := params[k]; v != "" {
			b.WriteString(v)
			b.WriteString("|")
		}
	}
	return b.String()
}

// Checksum signs params with the merchant key:
// Base64(HMAC-SHA256(key, sorted non-empty values joined with "|")).
func Checksum(merchantKey string, params map[string]string) string {
	mac := hmac.New(sha256.New, []byte(merchantKey))
	mac.Write([]byte(checksumBase(params)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyChecksum recomputes the checksum over params and compares it to
// the received value in constant time. A mismatch means the payload must
// not be trusted.
func VerifyChecksum(merchantKey string, params map[string]string, checksum string) bool {
	if checksum == "" {
		return false
	}
	expected := Checksum(merchantKey, params)
	return hmac.Equal([]byte(expected), []byte(checksum))
}
