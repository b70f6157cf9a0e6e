package cert

import (
	"crypto/tls"
	"fmt"
	"time"
)

// LoadKeyPair parses a PEM certificate and key into a tls.Certificate,
// checking that they match and that the certificate is currently valid.
func LoadKeyPair(certPEM, keyPEM []byte) (tls.Certificate, error) {
	return loadKeyPair(certPEM, keyPEM, time.Now())
}

func loadKeyPair(certPEM, keyPEM []byte, now time.Time) (tls.Certificate, error) {
	if len(certPEM) == 0 || len(keyPEM) == 0 {
		return tls.Certificate{}, ErrEmpty
	}
	leaf, err := DecodeCertPEM(certPEM)
	if err != nil {
		return tls.Certificate{}, err
	}
	if _, err := DecodeKeyPEM(keyPEM); err != nil {
		return tls.Certificate{}, err
	}
	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: %w", ErrKeyMismatch, err)
	}
	if err := CheckValidity(leaf.NotBefore, leaf.NotAfter, now); err != nil {
		return tls.Certificate{}, err
	}
	pair.Leaf = leaf
	return pair, nil
}

// CheckValidity checks now against a certificate validity window.
func CheckValidity(notBefore, notAfter, now time.Time) error {
	if now.Before(notBefore) {
		return ErrCertNotYetValid
	}
	if now.After(notAfter) {
		return ErrCertExpired
	}
	return nil
}
