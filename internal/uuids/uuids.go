// Package uuids converts asset identifiers between their canonical hyphenated
// form and the compact form engines embed in serialized prefabs.
//
// The canonical form is 32 hex digits grouped 8-4-4-4-12 (36 characters).
// The compact form keeps a short hex prefix verbatim and packs the remaining
// digits three at a time into two symbols of a 64-symbol alphabet:
//   - 23 characters: 5-digit hex prefix + 18 packed symbols (current format)
//   - 22 characters: 2-digit hex prefix + 20 packed symbols (legacy format)
//
// Both directions are pass-through for inputs of any other length, so the
// helpers can be applied to configuration tables without first classifying
// every entry.
package uuids

import (
	"fmt"
	"strconv"
	"strings"
)

// alphabet is the unpadded base64 symbol set. '=' is reserved as the
// decode-miss sentinel and never appears in encoded output.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// missSentinel is the decode value for characters outside the alphabet.
const missSentinel = 64

var decodeTable = buildDecodeTable()

func buildDecodeTable() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = missSentinel
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = byte(i)
	}
	return t
}

// IsLong reports whether s looks like a canonical hyphenated identifier.
func IsLong(s string) bool {
	return len(s) == 36 && strings.Contains(s, "-")
}

// IsShort reports whether s looks like a legacy compact identifier.
func IsShort(s string) bool {
	return len(s) == 22
}

// Shorten converts a canonical identifier to its 23-character compact form.
// Inputs that are not in canonical form are returned unchanged.
func Shorten(id string) string {
	if !IsLong(id) {
		return id
	}
	hex := strings.ReplaceAll(id, "-", "")
	if len(hex) != 32 {
		return id
	}
	packed, err := pack(hex[5:])
	if err != nil {
		return id
	}
	return hex[:5] + packed
}

// Lengthen converts a compact identifier back to canonical form. The
// 23-character form carries a 5-digit hex prefix, the 22-character legacy
// form a 2-digit prefix. Inputs of any other length are returned unchanged.
func Lengthen(id string) string {
	var prefix, packed string
	switch len(id) {
	case 23:
		prefix, packed = id[:5], id[5:]
	case 22:
		prefix, packed = id[:2], id[2:]
	default:
		return id
	}
	hex := prefix + unpack(packed)
	if len(hex) != 32 {
		return id
	}
	return hex[:8] + "-" + hex[8:12] + "-" + hex[12:16] + "-" + hex[16:20] + "-" + hex[20:]
}

// NormalizeShort returns the compact form of id, a no-op when id is already
// compact (or unrecognized).
func NormalizeShort(id string) string {
	if IsLong(id) {
		return Shorten(id)
	}
	return id
}

// NormalizeLong returns the canonical form of id, a no-op when id is already
// canonical (or unrecognized).
func NormalizeLong(id string) string {
	if IsLong(id) {
		return id
	}
	return Lengthen(id)
}

// pack encodes hex digits, three at a time, into two alphabet symbols each.
// The digit count must be a multiple of three.
func pack(hex string) (string, error) {
	if len(hex)%3 != 0 {
		return "", fmt.Errorf("hex length %d not a multiple of 3", len(hex))
	}
	var b strings.Builder
	b.Grow(len(hex) / 3 * 2)
	for i := 0; i < len(hex); i += 3 {
		v, err := strconv.ParseUint(hex[i:i+3], 16, 16)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[v>>6])
		b.WriteByte(alphabet[v&0x3f])
	}
	return b.String(), nil
}

// unpack reverses pack: every two symbols yield one 12-bit value, written
// back out as three hex digits. Characters outside the alphabet decode to
// the sentinel value and surface as garbage hex rather than a panic.
func unpack(packed string) string {
	var b strings.Builder
	b.Grow(len(packed) / 2 * 3)
	for i := 0; i+1 < len(packed); i += 2 {
		v := uint(decodeTable[packed[i]])<<6 | uint(decodeTable[packed[i+1]])
		b.WriteString(fmt.Sprintf("%03x", v&0xfff))
	}
	return b.String()
}
