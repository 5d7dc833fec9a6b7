package ice

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCredentialsRoundtrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	creds := makeCredentials("secret", "alice", now.Add(time.Hour))

	if creds.Username != "1700003600:alice" {
		t.Fatalf("unexpected username: %s", creds.Username)
	}

	password, err := verify("secret", creds.Username, now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if password != creds.Password {
		t.Fatalf("password mismatch: %s vs %s", password, creds.Password)
	}
}

func TestCredentialsExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	creds := makeCredentials("secret", "alice", now.Add(-time.Minute))

	if _, err := verify("secret", creds.Username, now); err == nil {
		t.Fatal("expected expired credential to be rejected")
	}
}

func TestCredentialsMalformedUsername(t *testing.T) {
	if _, err := verify("secret", "not-a-timestamp:alice", time.Now()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCredentialsAnonymousUser(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	creds := makeCredentials("secret", "", now.Add(time.Hour))

	if creds.Username != "1700003600" {
		t.Fatalf("unexpected username: %s", creds.Username)
	}
	if _, err := verify("secret", creds.Username, now); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestServersListWithTURNEnabled(t *testing.T) {
	logger := zerolog.Nop()
	svc := NewService(Config{
		Enabled:       true,
		UDPPort:       3478,
		PublicIP:      "203.0.113.7",
		Realm:         "test",
		Secret:        "secret",
		CredentialTTL: time.Hour,
		STUNURLs:      []string{"stun:stun.example.test:3478"},
	}, &logger)

	servers := svc.Servers("alice", time.Unix(1_700_000_000, 0))
	if len(servers) != 2 {
		t.Fatalf("expected stun + turn entries, got %+v", servers)
	}
	if servers[0].URLs[0] != "stun:stun.example.test:3478" || servers[0].Username != "" {
		t.Fatalf("unexpected stun entry: %+v", servers[0])
	}

	turnEntry := servers[1]
	if turnEntry.URLs[0] != "turn:203.0.113.7:3478?transport=udp" {
		t.Fatalf("unexpected turn url: %s", turnEntry.URLs[0])
	}
	if turnEntry.Username == "" || turnEntry.Credential == "" {
		t.Fatalf("turn entry missing credentials: %+v", turnEntry)
	}
	if _, err := verify("secret", turnEntry.Username, time.Unix(1_700_000_000, 0)); err != nil {
		t.Fatalf("minted credential does not verify: %v", err)
	}
}

func TestServersListDisabled(t *testing.T) {
	logger := zerolog.Nop()
	svc := NewService(Config{
		Secret:   "secret",
		STUNURLs: []string{"stun:stun.example.test:3478"},
	}, &logger)

	servers := svc.Servers("", time.Now())
	if len(servers) != 1 {
		t.Fatalf("expected stun only, got %+v", servers)
	}
}
