package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"jobsift-engine/internal/config"
)

// KeyringService groups the app's secrets in the OS keychain.
const KeyringService = "jobsift"

func GetIMAPPassword(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) != "" {
		pw, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	return "", errors.New("IMAP password not found in keychain")
}

func SetIMAPPassword(keyringAccount string, password string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, password)
}

func DeleteIMAPPassword(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

func IMAPKeyringAccount(cfg config.Config) string {
	return fmt.Sprintf("jobsift:imap:%s@%s", cfg.Email.Username, cfg.Email.IMAPHost)
}

// ResolveIMAPAccount returns the keyring account name for the configured
// mailbox: the explicit override when set, otherwise one derived from the
// username and host. Both the store and lookup paths must use this so a
// password saved under the derived name is found again on the next scan.
func ResolveIMAPAccount(cfg config.Config) string {
	if acct := strings.TrimSpace(cfg.Email.KeyringAccount); acct != "" {
		return acct
	}
	return IMAPKeyringAccount(cfg)
}
