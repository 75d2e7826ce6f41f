package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRegistry_CreateJoinRemove(t *testing.T) {
	words := &MockWordPicker{}
	shuffler := &MockShuffler{}
	tickerCreator := &MockPeriodicTickerChannelCreator{}
	reg := NewRegistry(RoomConfigs{RoundDuration: time.Minute}, words, shuffler, tickerCreator)

	zoe := newScenarioPlayer("z-id", "zoe")
	zoe.On("SetRoom", mock.Anything).Return()
	zoe.On("Send", mock.Anything).Return(nil)

	yuri := newScenarioPlayer("y-id", "yuri")
	yuri.On("SetRoom", mock.Anything).Return()
	yuri.On("Send", mock.Anything).Return(nil)

	t.Run("create a room", func(t *testing.T) {
		errChan := make(chan error, 1)
		reg.handleCreateRoom(roomCreateRequest{roomId: "g1", player: zoe, errChan: errChan})
		assert.NoError(t, <-errChan)
		assert.Contains(t, reg.rooms, "g1")
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		errChan := make(chan error, 1)
		reg.handleCreateRoom(roomCreateRequest{roomId: "g1", player: yuri, errChan: errChan})
		assert.Equal(t, ErrRoomAlreadyExists, <-errChan)
	})

	t.Run("joining an unknown room", func(t *testing.T) {
		errChan := make(chan error, 1)
		reg.handleJoinRoom(roomJoinRequest{roomId: "nope", player: yuri, errChan: errChan})
		assert.Equal(t, ErrRoomNotFound, <-errChan)
	})

	t.Run("joins are forwarded to the room actor", func(t *testing.T) {
		errChan := make(chan error, 1)
		reg.handleJoinRoom(roomJoinRequest{roomId: "g1", player: yuri, errChan: errChan})
		assert.NoError(t, <-errChan)
	})

	t.Run("removing a room closes it", func(t *testing.T) {
		reg.handleRemoveRoom("g1")
		assert.Empty(t, reg.rooms)

		// removing again is harmless
		reg.handleRemoveRoom("g1")

		errChan := make(chan error, 1)
		reg.handleJoinRoom(roomJoinRequest{roomId: "g1", player: yuri, errChan: errChan})
		assert.Equal(t, ErrRoomNotFound, <-errChan)
	})
}

func TestRegistry_ActorFansOutSharedTickers(t *testing.T) {
	words := &MockWordPicker{}
	shuffler := &MockShuffler{}
	tickerCreator := &MockPeriodicTickerChannelCreator{}

	ticker := make(chan time.Time)
	pingTicker := make(chan time.Time)
	tickerCreator.On("Create", time.Second).Return(ticker)
	tickerCreator.On("Create", time.Second*30).Return(pingTicker)

	reg := NewRegistry(RoomConfigs{RoundDuration: time.Minute}, words, shuffler, tickerCreator)

	room1 := &MockRoom{}
	room2 := &MockRoom{}
	reg.rooms["m1"] = room1
	reg.rooms["m2"] = room2

	started := make(chan struct{})
	go reg.RegistryActor(started)
	<-started

	// the actor is single-threaded, so any answered request proves all
	// earlier channel deliveries were fully handled
	sync := func() {
		p := newScenarioPlayer("s-id", "sync")
		assert.Equal(t, ErrRoomNotFound, <-reg.RequestJoinRoom(context.Background(), "no-such-room", p))
	}

	tick := time.Unix(1700000000, 0)
	room1.On("Tick", tick).Return().Once()
	room2.On("Tick", tick).Return().Once()
	ticker <- tick
	sync()

	room1.On("PingPlayers").Return().Once()
	room2.On("PingPlayers").Return().Once()
	pingTicker <- time.Now()
	sync()

	room1.On("CloseAndRelease").Return().Once()
	reg.RemoveRoom("m1")
	sync()

	// m1 no longer sees ticks
	tick2 := tick.Add(time.Second)
	room2.On("Tick", tick2).Return().Once()
	ticker <- tick2
	sync()

	tickerCreator.AssertExpectations(t)
	room1.AssertExpectations(t)
	room2.AssertExpectations(t)
}
