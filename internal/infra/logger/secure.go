package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// digestLength is the number of hex characters kept from the SHA-256 sum.
// Eight characters give operators enough entropy to correlate events within
// a process lifetime without making the raw identifier recoverable.
const digestLength = 8

// Digest returns a stable, non-reversible fingerprint for a sensitive value.
// The same input always yields the same output, so related log lines can be
// grouped; the truncated one-way hash cannot be inverted from log access.
func Digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])[:digestLength]
}

// DigestID fingerprints a numeric platform identifier.
func DigestID(id int64) string {
	return Digest(strconv.FormatInt(id, 10))
}

// Subject builds a zap field carrying the digested subject identifier.
func Subject(id int64) zap.Field {
	return zap.String("subject", DigestID(id))
}

// Group builds a zap field carrying the digested group identifier.
func Group(id int64) zap.Field {
	return zap.String("group", DigestID(id))
}

// MaskIP performs partial IP masking, showing first 2 octets for IPv4
// Example: 192.168.1.100 -> 192.168.*.*
// For IPv6, shows first 4 groups
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if strings.Contains(ip, ".") {
		parts := strings.Split(ip, ".")
		if len(parts) == 4 {
			return parts[0] + "." + parts[1] + ".*.*"
		}
	}

	if strings.Contains(ip, ":") {
		parts := strings.Split(ip, ":")
		if len(parts) >= 4 {
			return strings.Join(parts[:4], ":") + ":*:*:*:*"
		}
	}

	return "***"
}

// MaskString generic masking for arbitrary sensitive strings
// Shows first and last 2 characters with *** in between
// Example: "secret123" -> "se***23"
func MaskString(s string) string {
	if s == "" {
		return ""
	}

	length := len(s)
	if length <= 4 {
		return "***"
	}

	return s[:2] + "***" + s[length-2:]
}
