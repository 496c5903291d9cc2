package auth

import (
	"crypto/rand"
	"math/big"
)

// Token and credential alphabets. Tokens are plain alphanumerics; client
// credentials additionally allow a small set of punctuation characters.
const (
	tokenCharset        = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	clientIDCharset     = "_-.;=?!@0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	clientSecretCharset = "_-.:;=?!@0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

const (
	// AccessTokenLength is the length of generated access and refresh tokens.
	AccessTokenLength = 30
	// ClientIDLength is the length of generated client ids.
	ClientIDLength = 40
	// ClientSecretLength is the length of generated client secrets. The
	// storage column allows up to 128 characters; generation is kept at 40.
	ClientSecretLength = 40
)

// randomString draws length characters uniformly from charset using a
// cryptographically secure source. It panics only if the system's secure
// random source is unavailable, which is not a recoverable condition.
func randomString(charset string, length int) string {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("auth: secure random source unavailable: " + err.Error())
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}

// GenerateToken produces an opaque bearer token string. Access and
// refresh tokens must come from separate calls; one is never derived
// from the other. Global uniqueness is backstopped by the store's
// unique indexes, not by this function.
func GenerateToken() string {
	return randomString(tokenCharset, AccessTokenLength)
}

// GenerateClientID produces a client id. Generated once at client
// creation and never regenerated in place.
func GenerateClientID() string {
	return randomString(clientIDCharset, ClientIDLength)
}

// GenerateClientSecret produces a client secret.
func GenerateClientSecret() string {
	return randomString(clientSecretCharset, ClientSecretLength)
}
