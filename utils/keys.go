package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
)

const deviceKeyBits = 2048

// GenerateDeviceKeyPair creates the RSA pair issued to a kiosk at approval.
func GenerateDeviceKeyPair() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, deviceKeyBits)
}

// MarshalPublicKey encodes the stored half of a device key as PKIX DER.
func MarshalPublicKey(pub *rsa.PublicKey) ([]byte, error) {
	return x509.MarshalPKIXPublicKey(pub)
}

func ParsePublicKey(der []byte) (*rsa.PublicKey, error) {
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}
	return pub, nil
}

// EncodePrivateKey serializes a device private key for the one-time handoff:
// PKCS#8 DER wrapped in standard base64, the same form the device presents
// back in X-DEVICE-KEY.
func EncodePrivateKey(priv *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

func DecodePrivateKey(encoded string) (*rsa.PrivateKey, error) {
	der, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode device key: %w", err)
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse device key: %w", err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}
	return priv, nil
}

// DeviceChallenge is the fixed 16-byte big-endian encoding of a device id
// that the device signs to prove key possession.
func DeviceChallenge(deviceID uint) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[8:], uint64(deviceID))
	return buf
}
