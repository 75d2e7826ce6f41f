package game

import (
	"context"
	"time"

	"github.com/aryan2709-code/InkThink/domain"
)

// NetworkSession is the transport the engine writes to. The websocket
// wrapper implements it; tests substitute a mock.
type NetworkSession interface {
	Close(reason string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

// Player is a connected session as seen by a room.
type Player interface {
	Id() string
	Username() string
	Send(data []byte) error
	Ping() error
	SetRoom(r Room)
	ClearRoom()
}

// Room is the per-session actor the registry fans events into. Every method
// is safe to call from any goroutine; actual mutation happens on the room's
// own loop.
type Room interface {
	Id() string
	SetParentRegistry(reg Registry)
	RequestJoin(jreq roomJoinRequest)
	Send(ctx context.Context, e clientEventEnvelope)
	RemoveMe(ctx context.Context, p Player)
	Tick(now time.Time)
	PingPlayers()
	GameLoop()
	CloseAndRelease()
}

// Registry is the room actor's view of its parent directory.
type Registry interface {
	RemoveRoom(roomId string)
}

// WordPicker draws a secret word not in excluding.
type WordPicker interface {
	Pick(excluding map[string]struct{}) (string, error)
}

// Shuffler produces the drawer order permutation at game start.
type Shuffler interface {
	Perm(n int) []int
}

// PeriodicTickerChannelCreator exists so tests can drive the registry's
// tickers by hand.
type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}

// UserGetter resolves the authenticated user behind a connection.
type UserGetter interface {
	GetUserById(ctx context.Context, id string) (domain.User, error)
}
