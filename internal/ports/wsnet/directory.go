package wsnet

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JayBlankenship/WaterWorld5/internal/logging"
)

// DirectoryPath is where the directory server accepts websockets.
const DirectoryPath = "/directory"

// DirectoryServer enforces rendezvous mutual exclusion: at most one holder
// per name at a time, first claim wins. A claim lives exactly as long as its
// websocket, so a crashed holder frees the slot without any lease bookkeeping.
type DirectoryServer struct {
	upgrader websocket.Upgrader
	log      logging.Logger

	mu    sync.Mutex
	slots map[string]*dirSlot
}

type dirSlot struct {
	holder claimRequest
	conn   *websocket.Conn
}

func NewDirectoryServer(log logging.Logger) *DirectoryServer {
	if log == nil {
		log = logging.Nop{}
	}
	return &DirectoryServer{
		log:   log,
		slots: make(map[string]*dirSlot),
	}
}

// ServeHTTP upgrades the request and serves exactly one directory request.
func (s *DirectoryServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade directory connection from %s: %v", r.RemoteAddr, err)
		return
	}
	defer ws.Close()

	var env dirEnvelope
	if err := ws.ReadJSON(&env); err != nil {
		return
	}

	switch env.Type {
	case dirClaim:
		s.serveClaim(ws, env)
	case dirResolve:
		s.serveResolve(ws, env)
	default:
		s.log.Warn("unknown directory request %q from %s", env.Type, r.RemoteAddr)
	}
}

// serveClaim contests the slot and, on a win, parks on the websocket until
// it dies, then frees the slot.
func (s *DirectoryServer) serveClaim(ws *websocket.Conn, env dirEnvelope) {
	var req claimRequest
	if err := env.decode(&req); err != nil {
		s.log.Warn("malformed claim: %v", err)
		return
	}
	if req.Name == "" || req.Member.ID == "" {
		return
	}

	slot := &dirSlot{holder: req, conn: ws}
	s.mu.Lock()
	_, held := s.slots[req.Name]
	if !held {
		s.slots[req.Name] = slot
	}
	s.mu.Unlock()

	reply, err := newDirEnvelope(dirClaimResult, claimResult{Won: !held})
	if err == nil {
		err = ws.WriteJSON(reply)
	}
	if held || err != nil {
		if !held {
			s.release(req.Name, slot)
		}
		return
	}
	s.log.Info("peer %s claimed rendezvous %q", req.Member.ID, req.Name)

	// Hold the slot for the life of the websocket. Pings keep a deadline on
	// the holder, so a silently dead holder frees the slot within pongWait.
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case <-stop:
				return
			}
		}
	}()
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	}
	close(stop)
	s.release(req.Name, slot)
	s.log.Info("rendezvous %q released by %s", req.Name, req.Member.ID)
}

// release frees name only if slot still holds it.
func (s *DirectoryServer) release(name string, slot *dirSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots[name] == slot {
		delete(s.slots, name)
	}
}

func (s *DirectoryServer) serveResolve(ws *websocket.Conn, env dirEnvelope) {
	var req resolveRequest
	if err := env.decode(&req); err != nil {
		s.log.Warn("malformed resolve: %v", err)
		return
	}

	s.mu.Lock()
	slot, held := s.slots[req.Name]
	s.mu.Unlock()

	res := resolveResult{Held: held}
	if held {
		res.Holder = slot.holder.Member
	}
	reply, err := newDirEnvelope(dirResolveResult, res)
	if err != nil {
		s.log.Error("encode resolve_result: %v", err)
		return
	}
	_ = ws.WriteJSON(reply)
}
