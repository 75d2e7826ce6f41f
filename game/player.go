package game

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var errSendBufferFull = errors.New("send-buffer-full")

// RegistryClient is the player's view of the registry: the two operations a
// roomless connection may perform.
type RegistryClient interface {
	RequestCreateRoom(ctx context.Context, roomId string, p Player) chan error
	RequestJoinRoom(ctx context.Context, roomId string, p Player) chan error
}

// player is the per-connection actor. The read pump decodes inbound frames
// and routes them; the write pump serializes everything going out. A player
// belongs to at most one room at a time; createRoom/joinRoom while a member
// elsewhere is rejected here, on the connection's own goroutine, so the
// check is race-free.
type player struct {
	id       string
	username string

	registry    RegistryClient
	rateLimiter *rate.Limiter

	inbox    chan []byte
	pingChan chan struct{}

	mu   sync.Mutex
	room Room

	ctx       context.Context
	cancelCtx context.CancelFunc
}

func NewPlayer(id, username string, registry RegistryClient) *player {
	ctx, cancel := context.WithCancel(context.Background())
	return &player{
		id:          id,
		username:    username,
		registry:    registry,
		rateLimiter: rate.NewLimiter(1, 5),
		inbox:       make(chan []byte, 256),
		pingChan:    make(chan struct{}, 1),
		ctx:         ctx,
		cancelCtx:   cancel,
	}
}

func (p *player) Id() string       { return p.id }
func (p *player) Username() string { return p.username }

func (p *player) SetRoom(r Room) {
	p.mu.Lock()
	p.room = r
	p.mu.Unlock()
}

func (p *player) ClearRoom() {
	p.mu.Lock()
	p.room = nil
	p.mu.Unlock()
}

func (p *player) Room() Room {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.room
}

// Send queues data for the write pump. It never blocks the caller; a full
// buffer means the connection is too slow and the frame is dropped.
func (p *player) Send(data []byte) error {
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.inbox <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

func (p *player) Ping() error {
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.pingChan <- struct{}{}:
		return nil
	default:
		return nil
	}
}

// CancelAndRelease tears down the connection's context. Either pump calling
// it on exit is enough to stop the other.
func (p *player) CancelAndRelease() {
	p.cancelCtx()
}

// ReadPump consumes the socket until it dies, then performs disconnect
// cleanup for whatever room the connection belonged to.
func (p *player) ReadPump(socket NetworkSession) {
	defer func() {
		p.CancelAndRelease()
		socket.Close("")
		if room := p.Room(); room != nil {
			room.RemoveMe(context.Background(), p)
		}
	}()

	for {
		if p.ctx.Err() != nil {
			return
		}
		data, err := socket.Read()
		if err != nil {
			return
		}

		event, err := DecodeClientEvent(data)
		if err != nil {
			p.Send(MakeError(ErrInvalidEvent.Error()))
			continue
		}

		p.route(event)
	}
}

func (p *player) route(event ClientEvent) {
	room := p.Room()

	switch event.(type) {
	case CreateRoomEvent, JoinRoomEvent:
		if room != nil {
			p.Send(MakeError(ErrAlreadyInARoom.Error()))
			return
		}
		p.requestMembership(event)
		return
	case DrawingEvent:
		// stroke traffic is high frequency and exempt from the limiter
	default:
		if !p.rateLimiter.Allow() {
			log.Debug().Str("player", p.username).Msg("rate limited, dropping event")
			return
		}
	}

	if room == nil {
		p.Send(MakeError(ErrRoomNotFound.Error()))
		return
	}
	room.Send(p.ctx, clientEventEnvelope{event: event, from: p})
}

func (p *player) requestMembership(event ClientEvent) {
	var errChan chan error
	switch e := event.(type) {
	case CreateRoomEvent:
		errChan = p.registry.RequestCreateRoom(p.ctx, e.Room, p)
	case JoinRoomEvent:
		errChan = p.registry.RequestJoinRoom(p.ctx, e.Room, p)
	default:
		return
	}

	select {
	case err := <-errChan:
		if err != nil {
			p.Send(MakeError(err.Error()))
		}
	case <-p.ctx.Done():
	}
}

// WritePump owns every write to the socket. Closing the socket on the way
// out unblocks a reader stuck in Read.
func (p *player) WritePump(socket NetworkSession) {
	defer func() {
		p.CancelAndRelease()
		socket.Close("")
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		case data := <-p.inbox:
			if err := socket.Write(data); err != nil {
				return
			}
		case <-p.pingChan:
			if err := socket.Ping(); err != nil {
				return
			}
		}
	}
}
