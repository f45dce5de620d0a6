package app_test

import (
	"context"
	"errors"
	"sync"

	"github.com/JayBlankenship/WaterWorld5/internal/domain"
	"github.com/JayBlankenship/WaterWorld5/internal/ports"
)

// In-memory transport and directory fakes implementing the ports interfaces,
// so session behavior can be tested without sockets.

var errConnClosed = errors.New("connection closed")

type memNetwork struct {
	mu  sync.Mutex
	eps map[string]*memEndpoint
}

func newMemNetwork() *memNetwork {
	return &memNetwork{eps: make(map[string]*memEndpoint)}
}

func (n *memNetwork) endpoint(addr string) *memEndpoint {
	n.mu.Lock()
	defer n.mu.Unlock()
	ep := &memEndpoint{addr: addr, net: n, events: make(chan ports.ConnEvent, 256)}
	n.eps[addr] = ep
	return ep
}

func (n *memNetwork) lookup(addr string) *memEndpoint {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.eps[addr]
}

type memEndpoint struct {
	addr   string
	net    *memNetwork
	events chan ports.ConnEvent
}

func (e *memEndpoint) Addr() string { return e.addr }

func (e *memEndpoint) Events() <-chan ports.ConnEvent { return e.events }

func (e *memEndpoint) Close() error { return nil }

func (e *memEndpoint) Dial(addr string) (ports.Conn, error) {
	remote := e.net.lookup(addr)
	if remote == nil {
		return nil, errors.New("no endpoint at " + addr)
	}
	closed := make(chan struct{})
	once := new(sync.Once)
	local := &memConn{owner: e, closed: closed, once: once}
	far := &memConn{owner: remote, closed: closed, once: once}
	local.remote, far.remote = far, local
	return local, nil
}

func (e *memEndpoint) deliver(ev ports.ConnEvent) {
	select {
	case e.events <- ev:
	default:
	}
}

type memConn struct {
	owner  *memEndpoint
	remote *memConn
	closed chan struct{}
	once   *sync.Once
}

func (c *memConn) Send(env domain.Envelope) error {
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}
	e := env
	c.remote.owner.deliver(ports.ConnEvent{Conn: c.remote, Env: &e})
	return nil
}

func (c *memConn) Close() error {
	c.once.Do(func() {
		close(c.closed)
		c.owner.deliver(ports.ConnEvent{Conn: c})
		c.remote.owner.deliver(ports.ConnEvent{Conn: c.remote})
	})
	return nil
}

type fakeSlot struct {
	holder domain.Member
	lost   chan struct{}
}

type fakeDirectory struct {
	mu    sync.Mutex
	slots map[string]*fakeSlot
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{slots: make(map[string]*fakeSlot)}
}

func (d *fakeDirectory) Claim(_ context.Context, name string, self domain.Member) (ports.Claim, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, held := d.slots[name]; held {
		return nil, false, nil
	}
	slot := &fakeSlot{holder: self, lost: make(chan struct{})}
	d.slots[name] = slot
	return &fakeClaim{dir: d, name: name, slot: slot}, true, nil
}

func (d *fakeDirectory) Resolve(_ context.Context, name string) (domain.Member, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	slot, held := d.slots[name]
	if !held {
		return domain.Member{}, false, nil
	}
	return slot.holder, true, nil
}

type fakeClaim struct {
	dir  *fakeDirectory
	name string
	slot *fakeSlot
}

func (c *fakeClaim) Release() error {
	c.dir.mu.Lock()
	defer c.dir.mu.Unlock()
	if c.dir.slots[c.name] == c.slot {
		delete(c.dir.slots, c.name)
		close(c.slot.lost)
	}
	return nil
}

func (c *fakeClaim) Lost() <-chan struct{} { return c.slot.lost }

// emptyDirectory never grants a claim and never resolves a holder. Used to
// drive the retry ceiling.
type emptyDirectory struct{}

func (emptyDirectory) Claim(context.Context, string, domain.Member) (ports.Claim, bool, error) {
	return nil, false, nil
}

func (emptyDirectory) Resolve(context.Context, string) (domain.Member, bool, error) {
	return domain.Member{}, false, nil
}
