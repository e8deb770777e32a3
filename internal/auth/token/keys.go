package token

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// DecodePrivateKey decodes a Base64-encoded PEM RSA private key.
// Both PKCS#1 and PKCS#8 encodings are accepted.
func DecodePrivateKey(encoded string) (*rsa.PrivateKey, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64 private key: %v", ErrKeyMaterial, err)
	}
	key, err := gojwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %v", ErrKeyMaterial, err)
	}
	return key, nil
}

// DecodePublicKey decodes a Base64-encoded PEM RSA public key.
func DecodePublicKey(encoded string) (*rsa.PublicKey, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64 public key: %v", ErrKeyMaterial, err)
	}
	key, err := gojwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: parse public key: %v", ErrKeyMaterial, err)
	}
	return key, nil
}
