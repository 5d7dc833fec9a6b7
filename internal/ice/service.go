// Package ice is the peer-discovery/NAT-assist helper that ships alongside
// the signaling relay. It can run an embedded TURN/STUN listener and mints
// the time-limited credentials handed out on /ice-servers. Clients use it
// opportunistically; the signaling core does not depend on it.
package ice

import (
	"fmt"
	"net"
	"time"

	"github.com/pion/turn/v4"
	"github.com/rs/zerolog"
)

// Config controls the helper. With Enabled false only the STUN URL list is
// served and no listener is started.
type Config struct {
	Enabled       bool
	UDPPort       int
	PublicIP      string
	Realm         string
	Secret        string
	CredentialTTL time.Duration
	STUNURLs      []string
}

// Server is one entry of an RTCIceServer list as consumed by browsers.
type Server struct {
	URLs       []string `json:"urls"`
	Username   string   `json:"username,omitempty"`
	Credential string   `json:"credential,omitempty"`
}

// Service owns the optional embedded TURN listener and credential minting.
type Service struct {
	cfg  Config
	log  *zerolog.Logger
	turn *turn.Server
}

// NewService builds the helper. Call Start to open the TURN listener.
func NewService(cfg Config, logger *zerolog.Logger) *Service {
	if cfg.CredentialTTL <= 0 {
		cfg.CredentialTTL = 24 * time.Hour
	}
	return &Service{cfg: cfg, log: logger}
}

// Start opens the UDP TURN listener when the helper is enabled. The relay
// address must be the address peers can actually reach.
func (s *Service) Start() error {
	if !s.cfg.Enabled {
		return nil
	}

	relayIP := net.ParseIP(s.cfg.PublicIP)
	if relayIP == nil {
		return fmt.Errorf("invalid turn public ip %q", s.cfg.PublicIP)
	}

	listener, err := net.ListenPacket("udp4", fmt.Sprintf("0.0.0.0:%d", s.cfg.UDPPort))
	if err != nil {
		return fmt.Errorf("listen turn udp: %w", err)
	}

	server, err := turn.NewServer(turn.ServerConfig{
		Realm:       s.cfg.Realm,
		AuthHandler: s.authHandler,
		PacketConnConfigs: []turn.PacketConnConfig{
			{
				PacketConn: listener,
				RelayAddressGenerator: &turn.RelayAddressGeneratorStatic{
					RelayAddress: relayIP,
					Address:      "0.0.0.0",
				},
			},
		},
	})
	if err != nil {
		listener.Close()
		return fmt.Errorf("start turn server: %w", err)
	}

	s.turn = server
	s.log.Info().Int("udp_port", s.cfg.UDPPort).Str("public_ip", s.cfg.PublicIP).
		Str("realm", s.cfg.Realm).Msg("turn listener started")
	return nil
}

// Close stops the TURN listener if one is running.
func (s *Service) Close() error {
	if s.turn == nil {
		return nil
	}
	return s.turn.Close()
}

func (s *Service) authHandler(username, realm string, srcAddr net.Addr) ([]byte, bool) {
	password, err := verify(s.cfg.Secret, username, time.Now())
	if err != nil {
		s.log.Debug().Err(err).Str("username", username).Stringer("src", srcAddr).Msg("turn auth rejected")
		return nil, false
	}
	return turn.GenerateAuthKey(username, realm, password), true
}

// Credentials mints a fresh time-limited credential pair for user.
func (s *Service) Credentials(user string, now time.Time) Credentials {
	return makeCredentials(s.cfg.Secret, user, now.Add(s.cfg.CredentialTTL))
}

// TTL returns the credential lifetime in seconds.
func (s *Service) TTL() int {
	return int(s.cfg.CredentialTTL / time.Second)
}

// Servers assembles the ICE server list for one client: the configured STUN
// URLs plus, when the TURN listener is enabled, its URL with fresh
// credentials.
func (s *Service) Servers(user string, now time.Time) []Server {
	servers := make([]Server, 0, 2)
	if len(s.cfg.STUNURLs) > 0 {
		servers = append(servers, Server{URLs: s.cfg.STUNURLs})
	}
	if s.cfg.Enabled {
		creds := s.Credentials(user, now)
		servers = append(servers, Server{
			URLs:       []string{fmt.Sprintf("turn:%s:%d?transport=udp", s.cfg.PublicIP, s.cfg.UDPPort)},
			Username:   creds.Username,
			Credential: creds.Password,
		})
	}
	return servers
}
