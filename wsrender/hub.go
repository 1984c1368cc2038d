/*
 * hub.go, part of molsketch.
 *
 * Copyright 2024 Raul Mera  <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package wsrender serves a molecule to browsers over websockets. A Hub is
//a sketch.Renderer that broadcasts frames as chemjson messages, and
//collects the pointer input the clients send back.
package wsrender

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	sketch "github.com/rmera/molsketch"
	"github.com/rmera/molsketch/chemjson"
)

const (
	queueSize    = 256
	writeTimeout = 10 * time.Second
)

type outgoing struct {
	data  []byte
	frame bool            //frames are kept for clients that connect later
	to    *websocket.Conn //nil for a broadcast
}

//Hub fans frames out to every connected client. Only its own goroutine
//writes to the connections; Draw, Highlight and Detach just queue
//messages and never block.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	upgrader   websocket.Upgrader
	out        chan outgoing
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	events     chan *chemjson.Input
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
	log        sketch.Logger
	seq        uint64
	last       []byte
}

//NewHub creates a hub and starts its broadcaster goroutine.
func NewHub(log sketch.Logger) *Hub {
	if log == nil {
		log = sketch.NopLogger{}
	}
	h := &Hub{
		clients:    make(map[*websocket.Conn]bool),
		out:        make(chan outgoing, queueSize),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		events:     make(chan *chemjson.Input, 64),
		done:       make(chan struct{}),
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	h.wg.Add(1)
	go h.run()
	return h
}

//Events returns the input sent by the clients, in arrival order.
func (h *Hub) Events() <-chan *chemjson.Input {
	return h.events
}

//Done is closed when the hub shuts down.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

//Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

//ServeHTTP upgrades the request to a websocket and reads input from it
//until the client goes away or the hub is closed. Malformed input is
//answered with a chemjson error message and otherwise ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("websocket upgrade from %s: %v", r.RemoteAddr, err)
		return
	}
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}
	defer func() {
		select {
		case h.unregister <- conn:
		case <-h.done:
		}
	}()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Infof("client %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
		in, err := chemjson.DecodeInput(data)
		if err != nil {
			h.log.Debugf("client %s sent bad input: %v", conn.RemoteAddr(), err)
			var reply []byte
			if jerr, ok := err.(*chemjson.Error); ok {
				reply = jerr.Marshal()
			} else {
				reply = chemjson.NewError("decode", "ServeHTTP", err).Marshal()
			}
			h.queue(outgoing{data: reply, to: conn})
			continue
		}
		select {
		case h.events <- in:
		case <-h.done:
			return
		}
	}
}

func (h *Hub) queue(m outgoing) bool {
	select {
	case h.out <- m:
		return true
	case <-h.done:
		return false
	default:
		return false
	}
}

//Draw queues f for every client. It must only be called from the loop
//that owns the molecule.
func (h *Hub) Draw(f *sketch.Frame) error {
	h.seq++
	data, err := chemjson.EncodeFrame(f, h.seq)
	if err != nil {
		return err
	}
	if !h.queue(outgoing{data: data, frame: true}) {
		return fmt.Errorf("wsrender: frame %d dropped, queue full or hub closed", h.seq)
	}
	return nil
}

//Highlight queues a highlight change for every client.
func (h *Hub) Highlight(id int, on bool) {
	if !h.queue(outgoing{data: chemjson.EncodeHighlight(id, on)}) {
		h.log.Warnf("highlight of atom %d dropped", id)
	}
}

//Detach queues a detach message for every client.
func (h *Hub) Detach(ref sketch.EntityRef) {
	if !h.queue(outgoing{data: chemjson.EncodeDetach(ref)}) {
		h.log.Warnf("detach of %v %d dropped", ref.Kind, ref.ID)
	}
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
			h.log.Infof("client %s connected", conn.RemoteAddr())
			if h.last != nil {
				h.write(conn, h.last)
			}
		case conn := <-h.unregister:
			h.drop(conn)
		case m := <-h.out:
			if m.frame {
				h.last = m.data
			}
			if m.to != nil {
				h.write(m.to, m.data)
				continue
			}
			h.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.mu.RUnlock()
			for _, conn := range conns {
				h.write(conn, m.data)
			}
		}
	}
}

//write sends data to conn, dropping the client on failure.
func (h *Hub) write(conn *websocket.Conn, data []byte) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.log.Infof("dropping client %s: %v", conn.RemoteAddr(), err)
		h.drop(conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

//Close disconnects every client and stops the hub. It is safe to call
//more than once.
func (h *Hub) Close() error {
	h.closeOnce.Do(func() {
		close(h.done)
		h.wg.Wait()
		h.mu.Lock()
		for conn := range h.clients {
			conn.Close()
			delete(h.clients, conn)
		}
		h.mu.Unlock()
	})
	return nil
}
