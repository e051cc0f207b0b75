package app

import (
	"errors"
	"log/slog"

	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/zalando/go-keyring"
)

// SecretStore resolves the password of the remote contact source.
type SecretStore interface {
	Password(user string) (string, error)
}

// KeyringSecrets reads passwords from the OS keyring under Service.
type KeyringSecrets struct {
	Service string
}

// NewKeyringSecrets uses config.KeyringService.
func NewKeyringSecrets() KeyringSecrets {
	return KeyringSecrets{Service: config.KeyringService}
}

// Password returns the stored password for user.
// A missing entry is not an error: the source may not need one.
func (k KeyringSecrets) Password(user string) (string, error) {
	if user == "" {
		return "", nil
	}
	pass, err := keyring.Get(k.Service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyUser, user,
			config.LogKeyError, err)
		return "", nil
	}
	return pass, err
}

// Store saves pass for user.
func (k KeyringSecrets) Store(user, pass string) error {
	return keyring.Set(k.Service, user, pass)
}
