// Package cert provides the TLS identity of the secure server: PEM
// encoding, self-signed certificate generation and key pair validation.
package cert

import (
	"crypto/ecdsa"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"time"
)

// DefaultValidity is the validity period of generated certificates.
const DefaultValidity = 2 * 365 * 24 * time.Hour

// Errors.
var (
	ErrInvalidPEM      = errors.New("invalid PEM data")
	ErrInvalidKey      = errors.New("invalid private key")
	ErrInvalidCert     = errors.New("invalid certificate")
	ErrKeyMismatch     = errors.New("private key does not match certificate")
	ErrCertExpired     = errors.New("certificate has expired")
	ErrCertNotYetValid = errors.New("certificate is not yet valid")
	ErrEmpty           = errors.New("empty certificate or key")
)

// KeyPair holds an ECDSA P-256 key pair.
type KeyPair struct {
	PrivateKey *ecdsa.PrivateKey
	PublicKey  *ecdsa.PublicKey
}

// Identity is a certificate with its private key.
type Identity struct {
	Certificate *x509.Certificate
	PrivateKey  *ecdsa.PrivateKey
}

// PEM returns the PEM encoded certificate and key.
func (id *Identity) PEM() (certPEM, keyPEM []byte, err error) {
	if id == nil || id.Certificate == nil || id.PrivateKey == nil {
		return nil, nil, ErrEmpty
	}
	keyPEM, err = EncodeKeyPEM(id.PrivateKey)
	if err != nil {
		return nil, nil, err
	}
	return EncodeCertPEM(id.Certificate), keyPEM, nil
}

// TLSCertificate returns the identity as a tls.Certificate.
func (id *Identity) TLSCertificate() (tls.Certificate, error) {
	certPEM, keyPEM, err := id.PEM()
	if err != nil {
		return tls.Certificate{}, err
	}
	return LoadKeyPair(certPEM, keyPEM)
}

// Options control self-signed certificate generation.
type Options struct {
	// CommonName defaults to "accessory".
	CommonName string

	// Hosts are DNS names or IP addresses added as subject alternative names.
	Hosts []string

	// Validity defaults to DefaultValidity.
	Validity time.Duration

	// Now overrides the issue time. Used by tests.
	Now func() time.Time
}
