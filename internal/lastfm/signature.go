package lastfm

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign generates the api_sig value for a signed Last.fm API request.
//
// Parameter names are sorted lexicographically by byte value, each name is
// concatenated immediately with its value (no separators), the shared
// secret is appended, and the MD5 digest of the result is returned as
// lowercase hex. The input map must not contain the secret or the
// api_sig field itself.
//
// The concatenation order must be bit-compatible with what Last.fm
// computes server-side or every authenticated call fails with error 13.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(params[k])
	}
	b.WriteString(secret)

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
