package provisioning

import (
	"errors"
	"fmt"
	"time"

	"github.com/dbahrdt/accessory-bringup/pkg/event"
	"github.com/dbahrdt/accessory-bringup/pkg/netif"
)

// SecurityTier selects the provisioning session security.
type SecurityTier uint8

const (
	// SecurityOpen exchanges credentials in plaintext.
	SecurityOpen SecurityTier = 0
	// SecurityAuthenticatedEncrypted uses an X25519 key exchange bound to
	// the proof-of-possession and encrypts the session.
	SecurityAuthenticatedEncrypted SecurityTier = 1
)

// String returns the tier name.
func (s SecurityTier) String() string {
	switch s {
	case SecurityOpen:
		return "OPEN"
	case SecurityAuthenticatedEncrypted:
		return "AUTHENTICATED_ENCRYPTED"
	default:
		return fmt.Sprintf("SECURITY(%d)", uint8(s))
	}
}

// Scheme is the provisioning transport.
type Scheme string

// SchemeSoftAP provisions over a temporary access point.
const SchemeSoftAP Scheme = "softap"

// ServiceIdentity describes the provisioning service offered to clients.
type ServiceIdentity struct {
	// Name is the service (and soft access point) name.
	Name string

	// Security is the session security tier.
	Security SecurityTier

	// ProofOfPossession is required from clients at SecurityAuthenticatedEncrypted.
	ProofOfPossession string

	// ServiceKey protects the soft access point. Nil means an open AP.
	ServiceKey *string
}

// Validate checks the identity.
func (id ServiceIdentity) Validate() error {
	if id.Name == "" {
		return fmt.Errorf("%w: empty service name", ErrInvalidIdentity)
	}
	if len(id.Name) > 32 {
		return fmt.Errorf("%w: service name longer than 32 bytes", ErrInvalidIdentity)
	}
	if id.Security > SecurityAuthenticatedEncrypted {
		return fmt.Errorf("%w: %s", ErrInvalidIdentity, id.Security)
	}
	if id.ServiceKey != nil && len(*id.ServiceKey) < 8 {
		return fmt.Errorf("%w: service key shorter than 8 bytes", ErrInvalidIdentity)
	}
	return nil
}

// State is the provisioning controller state.
type State uint8

const (
	StateUnprovisioned State = iota
	StateProvisioning
	StateProvisioningFailed
	StateProvisioned
	StateStationConnecting
	StateStationConnected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnprovisioned:
		return "UNPROVISIONED"
	case StateProvisioning:
		return "PROVISIONING"
	case StateProvisioningFailed:
		return "PROVISIONING_FAILED"
	case StateProvisioned:
		return "PROVISIONED"
	case StateStationConnecting:
		return "STATION_CONNECTING"
	case StateStationConnected:
		return "STATION_CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// Authority selects which provisioned-status source decides.
type Authority uint8

const (
	// AuthorityAccessory trusts the accessory runtime.
	AuthorityAccessory Authority = iota
	// AuthorityManager trusts the provisioning manager.
	AuthorityManager
)

// String returns the authority name.
func (a Authority) String() string {
	if a == AuthorityManager {
		return "manager"
	}
	return "accessory"
}

// ParseAuthority parses "accessory" or "manager".
func ParseAuthority(s string) (Authority, error) {
	switch s {
	case "", "accessory":
		return AuthorityAccessory, nil
	case "manager":
		return AuthorityManager, nil
	}
	return 0, fmt.Errorf("unknown provisioning authority %q", s)
}

// WIFI_PROV_EVENT identifiers.
const (
	EventInit                event.ID = 0
	EventStarted             event.ID = 1
	EventCredentialsReceived event.ID = 2
	EventCredentialsFailed   event.ID = 3
	EventCredentialsSuccess  event.ID = 4
	EventEnded               event.ID = 5
	EventDeinit              event.ID = 6
)

// EventNames returns readable names for the WIFI_PROV_EVENT ids.
func EventNames() map[event.Source]map[event.ID]string {
	return map[event.Source]map[event.ID]string{
		event.SourceProvisioning: {
			EventInit:                "INIT",
			EventStarted:             "START",
			EventCredentialsReceived: "CRED_RECV",
			EventCredentialsFailed:   "CRED_FAIL",
			EventCredentialsSuccess:  "CRED_SUCCESS",
			EventEnded:               "END",
			EventDeinit:              "DEINIT",
		},
	}
}

// FailReason classifies a credentials failure.
type FailReason uint8

const (
	FailAuthError FailReason = iota
	FailAccessPointNotFound
)

// String returns the reason name.
func (r FailReason) String() string {
	if r == FailAccessPointNotFound {
		return "AP_NOT_FOUND"
	}
	return "AUTH_ERROR"
}

// FailReasonFor maps a driver disconnect reason to a FailReason.
func FailReasonFor(r netif.DisconnectReason) FailReason {
	if r.IsAuthFailure() {
		return FailAuthError
	}
	return FailAccessPointNotFound
}

// CredentialsReceived is the payload of EventCredentialsReceived.
type CredentialsReceived struct {
	SSID       string
	Passphrase string
}

// CredentialsFailed is the payload of EventCredentialsFailed.
type CredentialsFailed struct {
	Reason FailReason
}

// Manager is the provisioning transport collaborator.
type Manager interface {
	// Init prepares the manager for the given scheme.
	Init(scheme Scheme) error

	// IsProvisioned reports whether station credentials are stored.
	IsProvisioned() (bool, error)

	// StartProvisioning starts the provisioning service and returns
	// immediately. Progress is reported as WIFI_PROV_EVENT notifications.
	StartProvisioning(security SecurityTier, pop string, serviceName string, serviceKey *string) error

	// Deinit releases the manager. Safe to call when not initialized.
	Deinit()
}

// StatusSource reports provisioned status from the accessory runtime.
type StatusSource interface {
	IsWiFiProvisioned() bool
}

// ServerStarter schedules the secure server start.
type ServerStarter interface {
	StartAfter(delay time.Duration)
}

// Dispatcher is the part of the event router the controller uses.
type Dispatcher interface {
	Start() error
	Register(source event.Source, id event.ID, handler event.Handler) (event.HandlerID, error)
}

// Errors.
var (
	ErrNetworkInit        = errors.New("network initialization failed")
	ErrNotInitialized     = errors.New("provisioning not initialized")
	ErrAlreadyInitialized = errors.New("provisioning already initialized")
	ErrInvalidIdentity    = errors.New("invalid service identity")
	ErrUnsupportedScheme  = errors.New("unsupported provisioning scheme")
	ErrInvalidState       = errors.New("invalid provisioning manager state")
	ErrSession            = errors.New("provisioning session error")
	ErrProofOfPossession  = errors.New("proof of possession mismatch")
)
