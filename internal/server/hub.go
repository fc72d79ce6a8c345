package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/scene"
)

type commandKind int

const (
	cmdBall commandKind = iota
	cmdReset
)

type command struct {
	kind  commandKind
	x, z  float64
	reply chan error
}

// Hub owns a scene and fans its frames out to websocket clients. Only the
// goroutine running Run touches the scene or the client set.
type Hub struct {
	reg *scene.Registry
	cfg *config.Config
	fps int

	scene   *scene.Scene
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	commands   chan command
	done       chan struct{}
	started    atomic.Bool

	mu      sync.RWMutex
	latest  []byte
	nClient atomic.Int32
}

// NewHub builds the configured scene. fps is the number of frames stepped
// and broadcast per second; each frame advances the scene by cfg.Dt.
func NewHub(reg *scene.Registry, cfg *config.Config, fps int) (*Hub, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("server: fps must be positive, got %d", fps)
	}
	sc, err := reg.Build(cfg)
	if err != nil {
		return nil, err
	}
	h := &Hub{
		reg:        reg,
		cfg:        cfg,
		fps:        fps,
		scene:      sc,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan command),
		done:       make(chan struct{}),
	}
	h.publish()
	return h, nil
}

func (h *Hub) SceneName() string { return h.cfg.Scene }
func (h *Hub) Clients() int      { return int(h.nClient.Load()) }

// Latest returns the most recent encoded frame.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Run steps the scene until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	if !h.started.CompareAndSwap(false, true) {
		return
	}
	ticker := time.NewTicker(time.Second / time.Duration(h.fps))
	defer func() {
		ticker.Stop()
		for c := range h.clients {
			h.drop(c)
		}
		close(h.done)
	}()

	log.Printf("[serve] hub running scene=%s fps=%d dt=%g", h.cfg.Scene, h.fps, h.cfg.Dt)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[serve] hub stopping: %v", ctx.Err())
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.nClient.Add(1)
			h.sendTo(c, h.Latest())
			log.Printf("[serve] client connected (%d total)", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				log.Printf("[serve] client disconnected (%d total)", len(h.clients))
			}
		case cmd := <-h.commands:
			cmd.reply <- h.apply(cmd)
		case <-ticker.C:
			h.scene.Step(h.cfg.Dt)
			h.broadcast(h.publish())
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	h.nClient.Add(-1)
	close(c.send)
}

func (h *Hub) apply(cmd command) error {
	switch cmd.kind {
	case cmdBall:
		return h.scene.SetBallPosition(cmd.x, cmd.z)
	case cmdReset:
		sc, err := h.reg.Build(h.cfg)
		if err != nil {
			return err
		}
		h.scene = sc
		h.broadcast(h.publish())
		return nil
	}
	return fmt.Errorf("server: unknown command %d", cmd.kind)
}

// publish encodes the current frame and stores it as the latest.
func (h *Hub) publish() []byte {
	data, err := json.Marshal(frameOf(h.scene))
	if err != nil {
		log.Printf("[serve] encode frame at t=%.3f: %v", h.scene.Time(), err)
		return nil
	}
	h.mu.Lock()
	h.latest = data
	h.mu.Unlock()
	return data
}

func (h *Hub) broadcast(data []byte) {
	if data == nil {
		return
	}
	for c := range h.clients {
		h.sendTo(c, data)
	}
}

func (h *Hub) sendTo(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		// slow client, drop this frame
	}
}

func (h *Hub) do(ctx context.Context, cmd command) error {
	cmd.reply = make(chan error, 1)
	select {
	case h.commands <- cmd:
	case <-h.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetBall moves the bridge load; see scene.Scene.SetBallPosition.
func (h *Hub) SetBall(ctx context.Context, x, z float64) error {
	return h.do(ctx, command{kind: cmdBall, x: x, z: z})
}

// Reset rebuilds the scene from its config.
func (h *Hub) Reset(ctx context.Context) error {
	return h.do(ctx, command{kind: cmdReset})
}

func (h *Hub) attach(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
