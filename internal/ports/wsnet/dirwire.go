package wsnet

import (
	"encoding/json"
	"fmt"

	"github.com/JayBlankenship/WaterWorld5/internal/domain"
)

// The directory speaks its own tiny envelope protocol, separate from the
// peer protocol: one request per websocket, and a claim websocket stays
// open for as long as the slot is held.
type dirMsgType string

const (
	dirClaim         dirMsgType = "claim"
	dirClaimResult   dirMsgType = "claim_result"
	dirResolve       dirMsgType = "resolve"
	dirResolveResult dirMsgType = "resolve_result"
)

type dirEnvelope struct {
	Type    dirMsgType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func newDirEnvelope(t dirMsgType, payload any) (dirEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return dirEnvelope{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return dirEnvelope{Type: t, Payload: raw}, nil
}

func (e dirEnvelope) decode(dst any) error {
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

type claimRequest struct {
	Name   string        `json:"name"`
	Member domain.Member `json:"member"`
}

type claimResult struct {
	Won bool `json:"won"`
}

type resolveRequest struct {
	Name string `json:"name"`
}

type resolveResult struct {
	Held   bool          `json:"held"`
	Holder domain.Member `json:"holder,omitempty"`
}
