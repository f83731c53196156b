package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Credential is a Google service account key, with the same field names as the downloaded JSON key file.
type Credential struct {
	Type                    string `json:"type" toml:"type"`
	ProjectID               string `json:"project_id" toml:"project_id"`
	PrivateKeyID            string `json:"private_key_id" toml:"private_key_id"`
	PrivateKey              string `json:"private_key" toml:"private_key"`
	ClientEmail             string `json:"client_email" toml:"client_email"`
	ClientID                string `json:"client_id" toml:"client_id"`
	AuthURI                 string `json:"auth_uri,omitempty" toml:"auth_uri"`
	TokenURI                string `json:"token_uri,omitempty" toml:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url,omitempty" toml:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url,omitempty" toml:"client_x509_cert_url"`
}

type secrets struct {
	ServiceAccount     *Credential `toml:"gcp_service_account"`
	ServiceAccountJSON string      `toml:"gcp_service_account_json"`
}

// LoadSecrets reads the service account credential from either a TOML secrets file or a JSON key file.
//
// A TOML secrets file holds either a [gcp_service_account] table or the whole JSON key as a
// gcp_service_account_json string.
func LoadSecrets(path string) (*Credential, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parseJSON(b)
	}

	var s secrets
	if err := toml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("invalid secrets file %v (%w)", path, err)
	}

	switch {
	case s.ServiceAccount != nil:
		if err := s.ServiceAccount.validate(); err != nil {
			return nil, err
		}
		return s.ServiceAccount, nil

	case strings.TrimSpace(s.ServiceAccountJSON) != "":
		return parseJSON([]byte(s.ServiceAccountJSON))

	default:
		return nil, fmt.Errorf("missing Google credentials in %v - add either a [gcp_service_account] table or gcp_service_account_json = '''{ ... }'''", path)
	}
}

// JSON returns the credential in the service account key file format expected by the oauth2 library.
func (c *Credential) JSON() ([]byte, error) {
	return json.Marshal(c)
}

func parseJSON(b []byte) (*Credential, error) {
	var c Credential
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("invalid service account JSON (%w)", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Credential) validate() error {
	if c.Type != "service_account" {
		return fmt.Errorf("invalid credential type '%v' - expected 'service_account'", c.Type)
	}

	if strings.TrimSpace(c.ClientEmail) == "" {
		return fmt.Errorf("credential is missing 'client_email'")
	}

	if strings.TrimSpace(c.PrivateKey) == "" {
		return fmt.Errorf("credential is missing 'private_key'")
	}

	return nil
}
