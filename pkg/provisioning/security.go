package provisioning

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

// Session handshake messages, JSON encoded. Byte fields are base64.

// SessionRequest is posted to /prov-session.
type SessionRequest struct {
	SecVer SecurityTier `json:"sec_ver"`
	Cmd0   *SessionCmd0 `json:"sc0,omitempty"`
	Cmd1   *SessionCmd1 `json:"sc1,omitempty"`
}

// SessionCmd0 carries the client public key.
type SessionCmd0 struct {
	ClientPubkey []byte `json:"client_pubkey"`
}

// SessionCmd1 carries the client verification token.
type SessionCmd1 struct {
	ClientVerifyData []byte `json:"client_verify_data"`
}

// SessionResponse is returned from /prov-session.
type SessionResponse struct {
	SecVer SecurityTier  `json:"sec_ver"`
	Status string        `json:"status"`
	Resp0  *SessionResp0 `json:"sr0,omitempty"`
	Resp1  *SessionResp1 `json:"sr1,omitempty"`
}

// SessionResp0 carries the device public key and the stream IV.
type SessionResp0 struct {
	SessionID    string `json:"session_id"`
	DevicePubkey []byte `json:"device_pubkey"`
	DeviceRandom []byte `json:"device_random"`
}

// SessionResp1 carries the device verification token.
type SessionResp1 struct {
	DeviceVerifyData []byte `json:"device_verify_data"`
}

// Response status values.
const (
	StatusSuccess      = "success"
	StatusFail         = "fail"
	StatusInvalidState = "invalid_state"
	StatusInvalidArg   = "invalid_argument"
)

const (
	keySize    = 32
	randomSize = 16
)

// sessionCipher encrypts and decrypts session payloads.
type sessionCipher interface {
	established() bool
	crypt(data []byte) []byte
}

// deviceSession is the device side of one provisioning session.
type deviceSession interface {
	sessionCipher
	handle(req SessionRequest) (SessionResponse, error)
}

// openSession is the SecurityOpen session: no handshake, no encryption.
type openSession struct{}

func (openSession) established() bool       { return true }
func (openSession) crypt(data []byte) []byte { return data }

func (openSession) handle(req SessionRequest) (SessionResponse, error) {
	if req.SecVer != SecurityOpen {
		return SessionResponse{}, fmt.Errorf("%w: client requested %s", ErrSession, req.SecVer)
	}
	return SessionResponse{SecVer: SecurityOpen, Status: StatusSuccess}, nil
}

type handshakeStep uint8

const (
	stepAwaitCmd0 handshakeStep = iota
	stepAwaitCmd1
	stepEstablished
)

// encryptedSession is the SecurityAuthenticatedEncrypted session.
type encryptedSession struct {
	id        string
	pop       string
	step      handshakeStep
	devPriv   []byte
	devPub    []byte
	clientPub []byte
	stream    cipher.Stream
}

func newEncryptedSession(id, pop string) *encryptedSession {
	return &encryptedSession{id: id, pop: pop}
}

func (s *encryptedSession) established() bool {
	return s.step == stepEstablished
}

func (s *encryptedSession) crypt(data []byte) []byte {
	out := make([]byte, len(data))
	s.stream.XORKeyStream(out, data)
	return out
}

func (s *encryptedSession) handle(req SessionRequest) (SessionResponse, error) {
	if req.SecVer != SecurityAuthenticatedEncrypted {
		return SessionResponse{}, fmt.Errorf("%w: client requested %s", ErrSession, req.SecVer)
	}
	switch {
	case req.Cmd0 != nil && s.step == stepAwaitCmd0:
		return s.handleCmd0(req.Cmd0)
	case req.Cmd1 != nil && s.step == stepAwaitCmd1:
		return s.handleCmd1(req.Cmd1)
	default:
		return SessionResponse{}, fmt.Errorf("%w: unexpected handshake message", ErrSession)
	}
}

func (s *encryptedSession) handleCmd0(cmd *SessionCmd0) (SessionResponse, error) {
	if len(cmd.ClientPubkey) != keySize {
		return SessionResponse{}, fmt.Errorf("%w: bad client key length %d", ErrSession, len(cmd.ClientPubkey))
	}
	priv, pub, err := generateKeyPair()
	if err != nil {
		return SessionResponse{}, err
	}
	iv := make([]byte, randomSize)
	if _, err := rand.Read(iv); err != nil {
		return SessionResponse{}, err
	}
	stream, err := newSessionStream(priv, cmd.ClientPubkey, s.pop, iv)
	if err != nil {
		return SessionResponse{}, err
	}

	s.devPriv = priv
	s.devPub = pub
	s.clientPub = bytes.Clone(cmd.ClientPubkey)
	s.stream = stream
	s.step = stepAwaitCmd1

	return SessionResponse{
		SecVer: SecurityAuthenticatedEncrypted,
		Status: StatusSuccess,
		Resp0: &SessionResp0{
			SessionID:    s.id,
			DevicePubkey: pub,
			DeviceRandom: iv,
		},
	}, nil
}

func (s *encryptedSession) handleCmd1(cmd *SessionCmd1) (SessionResponse, error) {
	check := s.crypt(cmd.ClientVerifyData)
	if !bytes.Equal(check, s.devPub) {
		return SessionResponse{}, ErrProofOfPossession
	}
	s.step = stepEstablished
	return SessionResponse{
		SecVer: SecurityAuthenticatedEncrypted,
		Status: StatusSuccess,
		Resp1:  &SessionResp1{DeviceVerifyData: s.crypt(s.clientPub)},
	}, nil
}

func generateKeyPair() (priv, pub []byte, err error) {
	priv = make([]byte, curve25519.ScalarSize)
	if _, err := rand.Read(priv); err != nil {
		return nil, nil, err
	}
	pub, err = curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

// newSessionStream derives the AES-256-CTR stream from the X25519 shared
// secret, XORed with SHA-256 of the proof-of-possession when one is set.
func newSessionStream(priv, peerPub []byte, pop string, iv []byte) (cipher.Stream, error) {
	shared, err := curve25519.X25519(priv, peerPub)
	if err != nil {
		return nil, fmt.Errorf("%w: key exchange: %w", ErrSession, err)
	}
	if pop != "" {
		digest := sha256.Sum256([]byte(pop))
		for i := range shared {
			shared[i] ^= digest[i]
		}
	}
	block, err := aes.NewCipher(shared)
	if err != nil {
		return nil, err
	}
	return cipher.NewCTR(block, iv), nil
}
