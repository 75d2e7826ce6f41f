package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type roomCreateRequest struct {
	roomId  string
	player  Player
	errChan chan error
}

// roomRegistry is the process-wide directory of active rooms, owned by a
// single actor goroutine. Cross-room work (creation, lookup, eviction, tick
// fan-out) happens here; everything room-scoped is forwarded into the room's
// own actor.
type roomRegistry struct {
	rooms map[string]Room

	configs       RoomConfigs
	words         WordPicker
	shuffler      Shuffler
	tickerCreator PeriodicTickerChannelCreator

	createReqs     chan roomCreateRequest
	joinReqs       chan roomJoinRequest
	removeRoomChan chan string
}

func NewRegistry(configs RoomConfigs, words WordPicker, shuffler Shuffler, tickerCreator PeriodicTickerChannelCreator) *roomRegistry {
	return &roomRegistry{
		rooms:          make(map[string]Room),
		configs:        configs,
		words:          words,
		shuffler:       shuffler,
		tickerCreator:  tickerCreator,
		createReqs:     make(chan roomCreateRequest, 256),
		joinReqs:       make(chan roomJoinRequest, 256),
		removeRoomChan: make(chan string, 32),
	}
}

// RequestCreateRoom asks the registry actor to create a room with the given
// caller-supplied id, the requester as sole member. The returned channel
// yields nil or the rejection and is then closed.
func (reg *roomRegistry) RequestCreateRoom(ctx context.Context, roomId string, p Player) chan error {
	req := roomCreateRequest{roomId: roomId, player: p, errChan: make(chan error, 1)}
	select {
	case reg.createReqs <- req:
	case <-ctx.Done():
	}
	return req.errChan
}

// RequestJoinRoom forwards a join to the target room's actor.
func (reg *roomRegistry) RequestJoinRoom(ctx context.Context, roomId string, p Player) chan error {
	req := roomJoinRequest{roomId: roomId, player: p, errChan: make(chan error, 1)}
	select {
	case reg.joinReqs <- req:
	case <-ctx.Done():
	}
	return req.errChan
}

// RemoveRoom is called by a room actor the moment its membership hits zero.
func (reg *roomRegistry) RemoveRoom(roomId string) {
	reg.removeRoomChan <- roomId
}

// RegistryActor owns the room map and the shared tickers. The round tick and
// keepalive ping are fanned out from here so no room ever schedules its own
// timer goroutine.
func (reg *roomRegistry) RegistryActor(started chan struct{}) {
	ticker := reg.tickerCreator.Create(time.Second)
	pingTicker := reg.tickerCreator.Create(time.Second * 30)

	close(started)

	for {
		select {
		case now := <-ticker:
			for _, r := range reg.rooms {
				r.Tick(now)
			}
		case <-pingTicker:
			for _, r := range reg.rooms {
				r.PingPlayers()
			}
		case req := <-reg.createReqs:
			reg.handleCreateRoom(req)
		case req := <-reg.joinReqs:
			reg.handleJoinRoom(req)
		case roomId := <-reg.removeRoomChan:
			reg.handleRemoveRoom(roomId)
		}
	}
}

func (reg *roomRegistry) handleCreateRoom(req roomCreateRequest) {
	defer close(req.errChan)

	if _, exists := reg.rooms[req.roomId]; exists {
		req.errChan <- ErrRoomAlreadyExists
		return
	}

	room := NewRoom(req.roomId, req.player, reg.configs, reg.words, reg.shuffler)
	room.SetParentRegistry(reg)
	reg.rooms[req.roomId] = room
	go room.GameLoop()

	req.player.Send(MakeRoomCreated(req.roomId, req.player.Username()))
	log.Info().Str("room", req.roomId).Str("player", req.player.Username()).Msg("room created")
}

func (reg *roomRegistry) handleJoinRoom(req roomJoinRequest) {
	room, ok := reg.rooms[req.roomId]
	if !ok {
		req.errChan <- ErrRoomNotFound
		close(req.errChan)
		return
	}
	room.RequestJoin(req)
}

func (reg *roomRegistry) handleRemoveRoom(roomId string) {
	room, ok := reg.rooms[roomId]
	if !ok {
		return
	}
	delete(reg.rooms, roomId)
	room.CloseAndRelease()
	log.Info().Str("room", roomId).Msg("room removed")
}
