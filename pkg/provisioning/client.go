package provisioning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ClientSession is the peer side of a provisioning session. It is used by
// host tools and tests to hand credentials to a device.
type ClientSession struct {
	baseURL  string
	http     *http.Client
	security SecurityTier
	pop      string

	sessionID string
	cipher    sessionCipher
}

// NewClientSession creates a client for the device at baseURL
// (e.g. "http://192.168.4.1:80"). A nil client uses a 10s timeout client.
func NewClientSession(baseURL string, security SecurityTier, pop string, client *http.Client) *ClientSession {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ClientSession{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		http:     client,
		security: security,
		pop:      pop,
	}
}

// ProtoVersion queries the device protocol version.
func (c *ClientSession) ProtoVersion(ctx context.Context) (VersionInfo, error) {
	var info VersionInfo
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PathProtoVersion, nil)
	if err != nil {
		return info, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return info, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return info, fmt.Errorf("%w: proto-ver status %d", ErrSession, resp.StatusCode)
	}
	err = json.NewDecoder(resp.Body).Decode(&info)
	return info, err
}

// Establish performs the session handshake.
func (c *ClientSession) Establish(ctx context.Context) error {
	c.cipher = nil
	c.sessionID = ""

	if c.security == SecurityOpen {
		resp, _, err := c.session(ctx, SessionRequest{SecVer: SecurityOpen})
		if err != nil {
			return err
		}
		if resp.Status != StatusSuccess {
			return fmt.Errorf("%w: status %s", ErrSession, resp.Status)
		}
		c.cipher = openSession{}
		return nil
	}

	priv, pub, err := generateKeyPair()
	if err != nil {
		return err
	}
	resp0, sid, err := c.session(ctx, SessionRequest{
		SecVer: SecurityAuthenticatedEncrypted,
		Cmd0:   &SessionCmd0{ClientPubkey: pub},
	})
	if err != nil {
		return err
	}
	if resp0.Resp0 == nil || len(resp0.Resp0.DevicePubkey) != keySize || len(resp0.Resp0.DeviceRandom) != randomSize {
		return fmt.Errorf("%w: malformed handshake response", ErrSession)
	}
	stream, err := newSessionStream(priv, resp0.Resp0.DevicePubkey, c.pop, resp0.Resp0.DeviceRandom)
	if err != nil {
		return err
	}
	cs := &encryptedSession{id: sid, stream: stream, devPub: resp0.Resp0.DevicePubkey, clientPub: pub, step: stepAwaitCmd1}
	c.sessionID = sid

	resp1, _, err := c.session(ctx, SessionRequest{
		SecVer: SecurityAuthenticatedEncrypted,
		Cmd1:   &SessionCmd1{ClientVerifyData: cs.crypt(resp0.Resp0.DevicePubkey)},
	})
	if err != nil {
		c.sessionID = ""
		return err
	}
	if resp1.Resp1 == nil || !bytes.Equal(cs.crypt(resp1.Resp1.DeviceVerifyData), pub) {
		c.sessionID = ""
		return fmt.Errorf("%w: device verification failed", ErrSession)
	}
	cs.step = stepEstablished
	c.cipher = cs
	return nil
}

// SetConfig sends station credentials.
func (c *ClientSession) SetConfig(ctx context.Context, ssid, passphrase string) error {
	return c.expectSuccess(c.Command(ctx, ConfigRequest{Cmd: CmdSetConfig, SSID: ssid, Passphrase: passphrase}))
}

// ApplyConfig asks the device to connect with the sent credentials.
func (c *ClientSession) ApplyConfig(ctx context.Context) error {
	return c.expectSuccess(c.Command(ctx, ConfigRequest{Cmd: CmdApplyConfig}))
}

// Status queries the station connection state.
func (c *ClientSession) Status(ctx context.Context) (ConfigResponse, error) {
	return c.Command(ctx, ConfigRequest{Cmd: CmdGetStatus})
}

// Command sends one encrypted /prov-config request.
func (c *ClientSession) Command(ctx context.Context, cmd ConfigRequest) (ConfigResponse, error) {
	var out ConfigResponse
	if c.cipher == nil {
		return out, fmt.Errorf("%w: session not established", ErrSession)
	}
	plain, err := json.Marshal(cmd)
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathConfig, bytes.NewReader(c.cipher.crypt(plain)))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if c.sessionID != "" {
		req.Header.Set(SessionHeader, c.sessionID)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return out, err
	}
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("%w: prov-config status %d: %s", ErrSession, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(c.cipher.crypt(body), &out); err != nil {
		return out, fmt.Errorf("%w: decode response: %w", ErrSession, err)
	}
	return out, nil
}

func (c *ClientSession) expectSuccess(resp ConfigResponse, err error) error {
	if err != nil {
		return err
	}
	if resp.Status != StatusSuccess {
		return fmt.Errorf("%w: status %s", ErrSession, resp.Status)
	}
	return nil
}

func (c *ClientSession) session(ctx context.Context, msg SessionRequest) (SessionResponse, string, error) {
	var out SessionResponse
	body, err := json.Marshal(msg)
	if err != nil {
		return out, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathSession, bytes.NewReader(body))
	if err != nil {
		return out, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.sessionID != "" {
		req.Header.Set(SessionHeader, c.sessionID)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return out, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return out, "", ErrProofOfPossession
	}
	if resp.StatusCode != http.StatusOK {
		return out, "", fmt.Errorf("%w: prov-session status %d", ErrSession, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, "", err
	}
	return out, resp.Header.Get(SessionHeader), nil
}
