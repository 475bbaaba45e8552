package model

import "time"

// IntegrationTypeYoutube is the only integration type this service monitors.
const IntegrationTypeYoutube = "Youtube"

// Integration is a persisted OAuth credential record for a project.
// At most one integration per (project, type) is current; older duplicates
// are reclaimed by the credential monitor before every evaluation.
type Integration struct {
	ID              int64     `json:"id"`
	ProjectID       int64     `json:"projectId"`
	IntegrationType string    `json:"integrationType"`
	AccessToken     string    `json:"-"`
	RefreshToken    string    `json:"-"`
	Active          bool      `json:"active"`
	LastUpdated     time.Time `json:"lastUpdated"`
	StatusNote      string    `json:"statusNote,omitempty"`
	State           CredentialState `json:"state"`
}

// CredentialState is the persisted verdict of the credential health state
// machine. Transitions per evaluation:
//
//	NoCredential                          (no row, or no refresh token)
//	  -> terminal invalid
//	DirectValid                           (introspection 200 with owned channel)
//	  -> terminal valid
//	DirectInvalid                         (introspection rejected the token)
//	  -> RefreshUnchanged    refresh left the stored token byte-identical
//	  -> RefreshedAndValid   token rotated and the new token passes
//	  -> RefreshedButInvalid token rotated but still rejected (manual reauth)
//	  -> RefreshError        refresh call itself failed
type CredentialState string

const (
	StateNoCredential        CredentialState = "no_credential"
	StateDirectValid         CredentialState = "direct_valid"
	StateDirectInvalid       CredentialState = "direct_invalid"
	StateRefreshedAndValid   CredentialState = "refreshed_and_valid"
	StateRefreshedButInvalid CredentialState = "refreshed_but_invalid"
	StateRefreshUnchanged    CredentialState = "refresh_unchanged"
	StateRefreshError        CredentialState = "refresh_error"
)

// Valid reports whether the state represents a usable credential.
func (s CredentialState) Valid() bool {
	return s == StateDirectValid || s == StateRefreshedAndValid
}
