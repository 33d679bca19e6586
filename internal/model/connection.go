package model

import "time"

type ConnectionStatus string

const (
	ConnectionStatusActive   ConnectionStatus = "active"
	ConnectionStatusDisabled ConnectionStatus = "disabled"
	ConnectionStatusError    ConnectionStatus = "error"
)

func (s ConnectionStatus) Valid() bool {
	switch s {
	case ConnectionStatusActive, ConnectionStatusDisabled, ConnectionStatusError:
		return true
	}
	return false
}

type Connection struct {
	ID                   int64            `json:"id"`
	OrganizationID       int64            `json:"organization_id"`
	AppKey               string           `json:"app_key"`
	Name                 string           `json:"name"`
	Status               ConnectionStatus `json:"status"`
	Config               map[string]any   `json:"config"`
	EncryptedCredentials []byte           `json:"-"` // never expose credentials in API
	LastUsedAt           *time.Time       `json:"last_used_at,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// Credentials is the decrypted secret material of a connection.
type Credentials struct {
	WebhookSecret string            `json:"webhook_secret,omitempty"`
	Secret        string            `json:"secret,omitempty"`
	Token         string            `json:"token,omitempty"`
	APIKey        string            `json:"api_key,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// SigningSecret is the secret used for outbound webhook signatures.
func (c Credentials) SigningSecret() string {
	if c.Secret != "" {
		return c.Secret
	}
	return c.Token
}
