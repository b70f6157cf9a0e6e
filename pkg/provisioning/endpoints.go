package provisioning

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dbahrdt/accessory-bringup/pkg/netif"
)

// Endpoint paths.
const (
	PathProtoVersion = "/proto-ver"
	PathSession      = "/prov-session"
	PathConfig       = "/prov-config"
)

// SessionHeader carries the session ID of an encrypted session.
const SessionHeader = "X-Prov-Session"

// ProtocolVersion is the provisioning protocol version.
const ProtocolVersion = "v1.1"

const maxBodySize = 4096

// Config commands.
const (
	CmdGetStatus   = "get_status"
	CmdSetConfig   = "set_config"
	CmdApplyConfig = "apply_config"
)

// VersionInfo is returned from /proto-ver.
type VersionInfo struct {
	Prov struct {
		Version string       `json:"ver"`
		SecVer  SecurityTier `json:"sec_ver"`
		Cap     []string     `json:"cap"`
	} `json:"prov"`
}

// ConfigRequest is posted (encrypted) to /prov-config.
type ConfigRequest struct {
	Cmd        string `json:"cmd"`
	SSID       string `json:"ssid,omitempty"`
	Passphrase string `json:"passphrase,omitempty"`
}

// ConfigResponse is returned (encrypted) from /prov-config.
type ConfigResponse struct {
	Status     string `json:"status"`
	StaState   string `json:"sta_state,omitempty"`
	FailReason string `json:"fail_reason,omitempty"`
}

func (m *SoftAPManager) routes() chi.Router {
	r := chi.NewRouter()
	r.Get(PathProtoVersion, m.handleProtoVersion)
	r.Post(PathProtoVersion, m.handleProtoVersion)
	r.Post(PathSession, m.handleSession)
	r.Post(PathConfig, m.handleConfig)
	return r
}

func (m *SoftAPManager) handleProtoVersion(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	sec, pop := m.security, m.pop
	m.mu.Unlock()

	var info VersionInfo
	info.Prov.Version = ProtocolVersion
	info.Prov.SecVer = sec
	info.Prov.Cap = []string{}
	if sec == SecurityAuthenticatedEncrypted && pop == "" {
		info.Prov.Cap = append(info.Prov.Cap, "no_pop")
	}
	writeJSON(w, http.StatusOK, info)
}

func (m *SoftAPManager) handleSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SessionResponse{Status: StatusInvalidArg})
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		writeJSON(w, http.StatusServiceUnavailable, SessionResponse{Status: StatusInvalidState})
		return
	}

	// A new handshake replaces any previous session.
	if req.Cmd0 != nil || (m.security == SecurityOpen && req.Cmd1 == nil) {
		m.sessionID = uuid.NewString()
		if m.security == SecurityOpen {
			m.session = openSession{}
		} else {
			m.session = newEncryptedSession(m.sessionID, m.pop)
		}
	} else if m.session == nil || r.Header.Get(SessionHeader) != m.sessionID {
		writeJSON(w, http.StatusForbidden, SessionResponse{SecVer: m.security, Status: StatusInvalidState})
		return
	}

	resp, err := m.session.handle(req)
	if err != nil {
		m.logger.Warn("session handshake failed", "error", err)
		m.session = nil
		m.sessionID = ""
		status := http.StatusBadRequest
		if errors.Is(err, ErrProofOfPossession) {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, SessionResponse{SecVer: m.security, Status: StatusFail})
		return
	}
	if m.session.established() {
		m.logger.Info("provisioning session established", "security", m.security)
	}
	w.Header().Set(SessionHeader, m.sessionID)
	writeJSON(w, http.StatusOK, resp)
}

func (m *SoftAPManager) handleConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		http.Error(w, "provisioning not running", http.StatusServiceUnavailable)
		return
	}
	if m.session == nil || !m.session.established() ||
		(m.security != SecurityOpen && r.Header.Get(SessionHeader) != m.sessionID) {
		m.mu.Unlock()
		http.Error(w, "no session", http.StatusForbidden)
		return
	}

	var (
		req      ConfigRequest
		resp     ConfigResponse
		received *CredentialsReceived
	)
	if err := json.Unmarshal(m.session.crypt(body), &req); err != nil {
		resp = ConfigResponse{Status: StatusInvalidArg}
	} else {
		resp, received = m.handleCommandLocked(req)
	}
	sealed, err := m.sealLocked(resp)
	m.mu.Unlock()

	// Posted before replying, from this goroutine, so the event precedes
	// anything the client triggers next.
	if received != nil {
		m.post(EventCredentialsReceived, *received)
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(sealed)
}

// handleCommandLocked runs with m.mu held. It returns the credentials to
// announce once the lock is released.
func (m *SoftAPManager) handleCommandLocked(req ConfigRequest) (ConfigResponse, *CredentialsReceived) {
	switch req.Cmd {
	case CmdGetStatus:
		resp := ConfigResponse{Status: StatusSuccess, StaState: m.staState}
		if m.failReason != nil {
			resp.FailReason = m.failReason.String()
		}
		return resp, nil

	case CmdSetConfig:
		if req.SSID == "" || len(req.SSID) > 32 || len(req.Passphrase) > 64 {
			return ConfigResponse{Status: StatusInvalidArg}, nil
		}
		m.pending = &netif.Credentials{SSID: req.SSID, Passphrase: req.Passphrase}
		return ConfigResponse{Status: StatusSuccess}, &CredentialsReceived{SSID: req.SSID, Passphrase: req.Passphrase}

	case CmdApplyConfig:
		if m.pending == nil {
			return ConfigResponse{Status: StatusInvalidState}, nil
		}
		if err := m.cfg.Driver.SetStationConfig(*m.pending); err != nil {
			m.logger.Warn("failed to store station config", "error", err)
			return ConfigResponse{Status: StatusFail}, nil
		}
		m.applying = true
		m.succeeded = false
		m.failReason = nil
		m.staState = StationStateConnecting
		if err := m.cfg.Driver.Connect(); err != nil {
			m.logger.Warn("connect after apply failed", "error", err)
		}
		return ConfigResponse{Status: StatusSuccess}, nil

	default:
		return ConfigResponse{Status: StatusInvalidArg}, nil
	}
}

// sealLocked encodes resp for the session; m.mu must be held.
func (m *SoftAPManager) sealLocked(resp ConfigResponse) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return m.session.crypt(data), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
