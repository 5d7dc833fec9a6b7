package ice

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Credentials is a time-limited TURN username/password pair following the
// coturn REST API convention: the username carries the expiry timestamp and
// the password is the base64 HMAC-SHA1 of the username under the shared
// secret.
type Credentials struct {
	Username string
	Password string
}

func makeCredentials(secret, user string, expiresAt time.Time) Credentials {
	username := strconv.FormatInt(expiresAt.Unix(), 10)
	if user != "" {
		username = username + ":" + user
	}
	return Credentials{
		Username: username,
		Password: sign(secret, username),
	}
}

func sign(secret, username string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(username))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// verify recomputes the password for username and checks that the embedded
// expiry is still in the future. Returns the expected password.
func verify(secret, username string, now time.Time) (string, error) {
	tsPart, _, _ := strings.Cut(username, ":")
	ts, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil {
		return "", fmt.Errorf("parse credential expiry: %w", err)
	}
	if now.After(time.Unix(ts, 0)) {
		return "", fmt.Errorf("credential expired at %d", ts)
	}
	return sign(secret, username), nil
}
