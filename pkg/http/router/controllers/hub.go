package controllers

import (
	"encoding/json"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"go.uber.org/zap"
)

type User struct {
	io   sync.Mutex
	conn net.Conn

	id  uint
	hub *Hub
}

// Listen consumes client frames until the connection goes away. clients only receive; text frames are ignored.
func (u *User) Listen() error {
	for {
		h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
		if err != nil {
			return err
		}
		if h.OpCode.IsControl() {
			u.io.Lock()
			err = wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
			u.io.Unlock()
			if err != nil {
				return err
			}
			continue
		}
		if _, err := io.Copy(io.Discard, r); err != nil {
			return err
		}
	}
}

// write sends one text frame. a client that does not drain its socket within timeout fails the write.
func (u *User) write(x any, timeout time.Duration) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if timeout > 0 {
		if err := u.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
		defer u.conn.SetWriteDeadline(time.Time{})
	}

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

// Hub fans every published snapshot out to the connected websocket clients.
// writeTimeout bounds how long one slow client can hold up a broadcast.
type Hub struct {
	log          *zap.Logger
	writeTimeout time.Duration
	mu           sync.RWMutex
	seq          uint
	ns           map[uint]*User
}

func NewHub(log *zap.Logger, writeTimeout time.Duration) *Hub {
	return &Hub{
		log:          log,
		writeTimeout: writeTimeout,
		ns:           make(map[uint]*User),
	}
}

func (h *Hub) Register(conn net.Conn) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.seq++
	h.mu.Unlock()

	return user
}

func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	_, ok := h.ns[user.id]
	delete(h.ns, user.id)
	h.mu.Unlock()

	if ok {
		user.conn.Close()
	}
}

func (h *Hub) RemoveAllUser() {
	h.mu.RLock()
	users := make([]*User, 0, len(h.ns))
	for _, u := range h.ns {
		users = append(users, u)
	}
	h.mu.RUnlock()

	for _, u := range users {
		h.Remove(u)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.ns)
}

// Broadcast is registered as a snapshot listener and runs on the control loop goroutine.
// users whose write fails or times out are dropped.
func (h *Hub) Broadcast(snapshot *da.CostSnapshot) {
	h.mu.RLock()
	users := make([]*User, 0, len(h.ns))
	for _, u := range h.ns {
		users = append(users, u)
	}
	h.mu.RUnlock()
	if len(users) == 0 {
		return
	}

	msg := envelope{"data": snapshotResponse{Tick: snapshot.GetTick(), Costs: snapshot.AsMap()}}
	for _, u := range users {
		if err := u.write(msg, h.writeTimeout); err != nil {
			h.log.Info("dropping websocket client", zap.Uint("user", u.id), zap.Error(err))
			h.Remove(u)
		}
	}
}
