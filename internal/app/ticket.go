package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"github.com/JayBlankenship/WaterWorld5/internal/domain"
)

// TicketService issues and verifies the short-lived join tickets a leader
// hands out during discovery and checks again on join_host. With an empty
// secret the service is disabled and joins are accepted unticketed.
type TicketService struct {
	secret string
	ttl    time.Duration
}

const defaultTicketTTL = 2 * time.Minute

func NewTicketService(secret string) *TicketService {
	return &TicketService{secret: secret, ttl: defaultTicketTTL}
}

// Enabled reports whether tickets are enforced.
func (s *TicketService) Enabled() bool {
	return s != nil && s.secret != ""
}

// Issue signs a ticket admitting peer to host's lobby.
func (s *TicketService) Issue(peer, host domain.PeerID) (string, error) {
	if !s.Enabled() {
		return "", nil
	}
	if peer == "" {
		return "", fmt.Errorf("peer id is required")
	}

	claims := jwt.MapClaims{
		"sub": string(peer),
		"aud": string(host),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks that ticket admits peer to host's lobby.
func (s *TicketService) Verify(ticket string, peer, host domain.PeerID) error {
	if !s.Enabled() {
		return nil
	}
	if ticket == "" {
		return fmt.Errorf("join ticket is required")
	}

	token, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return fmt.Errorf("parse join ticket: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid join ticket")
	}
	if sub, _ := claims["sub"].(string); sub != string(peer) {
		return fmt.Errorf("ticket subject mismatch")
	}
	if aud, _ := claims["aud"].(string); aud != string(host) {
		return fmt.Errorf("ticket audience mismatch")
	}
	return nil
}
