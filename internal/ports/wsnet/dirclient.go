package wsnet

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/JayBlankenship/WaterWorld5/internal/domain"
	"github.com/JayBlankenship/WaterWorld5/internal/logging"
	"github.com/JayBlankenship/WaterWorld5/internal/ports"
)

// DirectoryClient implements ports.Directory against a DirectoryServer.
// Each call opens its own websocket; a winning claim keeps its websocket
// open until released.
type DirectoryClient struct {
	url string
	log logging.Logger
}

// NewDirectoryClient takes the directory websocket URL, e.g.
// "ws://rendezvous.example:9190/directory".
func NewDirectoryClient(url string, log logging.Logger) *DirectoryClient {
	if log == nil {
		log = logging.Nop{}
	}
	return &DirectoryClient{url: url, log: log}
}

func (c *DirectoryClient) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	ws, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial directory %s: %w", c.url, err)
	}
	return ws, nil
}

// Claim contests name. Losing is reported as won=false with a nil error.
func (c *DirectoryClient) Claim(ctx context.Context, name string, self domain.Member) (ports.Claim, bool, error) {
	ws, err := c.dial(ctx)
	if err != nil {
		return nil, false, err
	}

	env, err := newDirEnvelope(dirClaim, claimRequest{Name: name, Member: self})
	if err == nil {
		err = ws.WriteJSON(env)
	}
	if err != nil {
		_ = ws.Close()
		return nil, false, fmt.Errorf("send claim: %w", err)
	}

	var reply dirEnvelope
	if err := ws.ReadJSON(&reply); err != nil {
		_ = ws.Close()
		return nil, false, fmt.Errorf("read claim_result: %w", err)
	}
	var res claimResult
	if reply.Type != dirClaimResult || reply.decode(&res) != nil {
		_ = ws.Close()
		return nil, false, fmt.Errorf("unexpected directory reply %q", reply.Type)
	}
	if !res.Won {
		_ = ws.Close()
		return nil, false, nil
	}

	claim := &wsClaim{ws: ws, lost: make(chan struct{})}
	go claim.watch()
	return claim, true, nil
}

// Resolve looks up the current holder of name.
func (c *DirectoryClient) Resolve(ctx context.Context, name string) (domain.Member, bool, error) {
	ws, err := c.dial(ctx)
	if err != nil {
		return domain.Member{}, false, err
	}
	defer ws.Close()

	env, err := newDirEnvelope(dirResolve, resolveRequest{Name: name})
	if err == nil {
		err = ws.WriteJSON(env)
	}
	if err != nil {
		return domain.Member{}, false, fmt.Errorf("send resolve: %w", err)
	}

	var reply dirEnvelope
	if err := ws.ReadJSON(&reply); err != nil {
		return domain.Member{}, false, fmt.Errorf("read resolve_result: %w", err)
	}
	var res resolveResult
	if reply.Type != dirResolveResult || reply.decode(&res) != nil {
		return domain.Member{}, false, fmt.Errorf("unexpected directory reply %q", reply.Type)
	}
	return res.Holder, res.Held, nil
}

// wsClaim is a held slot backed by an open claim websocket.
type wsClaim struct {
	ws   *websocket.Conn
	once sync.Once
	lost chan struct{}
}

// watch notices the directory dropping the connection.
func (c *wsClaim) watch() {
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			break
		}
	}
	c.once.Do(func() { close(c.lost) })
}

// Release closes the claim websocket; the directory frees the slot when the
// connection dies.
func (c *wsClaim) Release() error {
	err := c.ws.Close()
	c.once.Do(func() { close(c.lost) })
	return err
}

func (c *wsClaim) Lost() <-chan struct{} { return c.lost }
