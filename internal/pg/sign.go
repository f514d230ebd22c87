package pg

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// The gateway's signature contract. Field order is byte-for-byte fixed;
// reordering breaks every payment:
//
//	request:   sha256("mid=<mid>&oid=<oid>&price=<price>&timestamp=<ts>&signKey=<key>")
//	approval:  sha256("authToken=<token>&timestamp=<ts>")
//	response:  sha256("tid=<tid>&price=<price>&signKey=<key>")
//	mKey:      sha256(<key>)
//
// All digests are lowercase hex.

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// RequestSignature signs the widget invocation fields.
func RequestSignature(mid, oid, price, timestamp, signKey string) string {
	return sha256Hex("mid=" + mid + "&oid=" + oid + "&price=" + price + "&timestamp=" + timestamp + "&signKey=" + signKey)
}

// AuthSignature signs the server-to-server approval and net-cancel calls.
func AuthSignature(authToken, timestamp string) string {
	return sha256Hex("authToken=" + authToken + "&timestamp=" + timestamp)
}

// MKey is the hashed merchant key the widget requires alongside the signature.
func MKey(signKey string) string {
	return sha256Hex(signKey)
}

// VerifyResponseSignature checks the signature the gateway attaches to its
// approval responses. Not every response path carries one, so the caller
// treats a missing field as unverified rather than failed.
func VerifyResponseSignature(tid, price, gotSignature, signKey string) bool {
	if gotSignature == "" {
		return false
	}
	expected := sha256Hex("tid=" + tid + "&price=" + price + "&signKey=" + signKey)
	return strings.EqualFold(gotSignature, expected)
}
