// Package session holds the board session cookie in the OS keychain. The
// engine never authenticates: somebody logs in once, stores the cookie
// here, and the automation session is built from it elsewhere.
package session

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups this app's secrets in the OS keychain.
	KeyringService = "autoapply"

	cookieAccount = "autoapply:session-cookie"
)

func GetCookie() (string, error) {
	c, err := keyring.Get(KeyringService, cookieAccount)
	if err != nil {
		return "", errors.New("session cookie not found (run with -set-cookie first)")
	}
	if strings.TrimSpace(c) == "" {
		return "", errors.New("session cookie in keychain is empty")
	}
	return c, nil
}

func SetCookie(cookie string) error {
	if strings.TrimSpace(cookie) == "" {
		return errors.New("cookie is empty")
	}
	return keyring.Set(KeyringService, cookieAccount, cookie)
}

func DeleteCookie() error {
	return keyring.Delete(KeyringService, cookieAccount)
}

// IMAPAccount names the keychain entry for the confirmation mailbox
// password.
func IMAPAccount(username, host string) string {
	return "autoapply:imap:" + username + "@" + host
}

func GetIMAPPassword(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	pw, err := keyring.Get(KeyringService, account)
	if err != nil || strings.TrimSpace(pw) == "" {
		return "", errors.New("IMAP password not found in keychain")
	}
	return pw, nil
}

func SetIMAPPassword(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}
