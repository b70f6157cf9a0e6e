package cert

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // SKI per RFC 5280 section 4.2.1.2
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"net"
	"time"
)

// GenerateKeyPair generates a new ECDSA P-256 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &KeyPair{PrivateKey: priv, PublicKey: &priv.PublicKey}, nil
}

// ComputeSKI computes the subject key identifier of a public key.
func ComputeSKI(pub *ecdsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, err
	}
	sum := sha1.Sum(der) //nolint:gosec
	return sum[:], nil
}

// GenerateSelfSigned creates a self-signed server certificate.
func GenerateSelfSigned(opts Options) (*Identity, error) {
	if opts.CommonName == "" {
		opts.CommonName = "accessory"
	}
	if opts.Validity <= 0 {
		opts.Validity = DefaultValidity
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	kp, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	ski, err := ComputeSKI(kp.PublicKey)
	if err != nil {
		return nil, err
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 127))
	if err != nil {
		return nil, err
	}

	issued := now().Add(-time.Minute)
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: opts.CommonName},
		NotBefore:             issued,
		NotAfter:              issued.Add(opts.Validity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		SubjectKeyId:          ski,
	}
	for _, h := range opts.Hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else if h != "" {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, kp.PublicKey, kp.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, err
	}
	return &Identity{Certificate: cert, PrivateKey: kp.PrivateKey}, nil
}

// LoadOrCreate reads the identity from certPath and keyPath. When neither
// file exists a self-signed identity is generated and written there.
func LoadOrCreate(certPath, keyPath string, opts Options) (certPEM, keyPEM []byte, created bool, err error) {
	certPEM, keyPEM, err = ReadFiles(certPath, keyPath)
	if err == nil {
		return certPEM, keyPEM, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, false, err
	}

	id, err := GenerateSelfSigned(opts)
	if err != nil {
		return nil, nil, false, err
	}
	if err := WriteFiles(id, certPath, keyPath); err != nil {
		return nil, nil, false, err
	}
	certPEM, keyPEM, err = id.PEM()
	return certPEM, keyPEM, true, err
}
