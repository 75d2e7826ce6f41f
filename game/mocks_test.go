package game

import (
	"context"
	"time"

	"github.com/aryan2709-code/InkThink/domain"
	"github.com/stretchr/testify/mock"
)

// --- NetworkSession ---

type MockNetworkSession struct {
	mock.Mock
}

func (m *MockNetworkSession) Close(reason string) {
	m.Called(reason)
}

func (m *MockNetworkSession) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockNetworkSession) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockNetworkSession) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- WordPicker ---

type MockWordPicker struct {
	mock.Mock
}

func (m *MockWordPicker) Pick(excluding map[string]struct{}) (string, error) {
	args := m.Called(excluding)
	return args.String(0), args.Error(1)
}

// --- Shuffler ---

type MockShuffler struct {
	mock.Mock
}

func (m *MockShuffler) Perm(n int) []int {
	args := m.Called(n)
	return args.Get(0).([]int)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}

// --- UserGetter ---

type MockUserGetter struct {
	mock.Mock
}

func (m *MockUserGetter) GetUserById(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

// --- Player ---

type MockPlayer struct {
	mock.Mock
}

func (m *MockPlayer) Id() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlayer) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlayer) Send(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockPlayer) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockPlayer) SetRoom(r Room) {
	m.Called(r)
}

func (m *MockPlayer) ClearRoom() {
	m.Called()
}

// --- Room ---

type MockRoom struct {
	mock.Mock
}

func (m *MockRoom) Id() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockRoom) SetParentRegistry(reg Registry) {
	m.Called(reg)
}

func (m *MockRoom) RequestJoin(jreq roomJoinRequest) {
	m.Called(jreq)
}

func (m *MockRoom) Send(ctx context.Context, e clientEventEnvelope) {
	m.Called(ctx, e)
}

func (m *MockRoom) RemoveMe(ctx context.Context, p Player) {
	m.Called(ctx, p)
}

func (m *MockRoom) Tick(now time.Time) {
	m.Called(now)
}

func (m *MockRoom) PingPlayers() {
	m.Called()
}

func (m *MockRoom) GameLoop() {
	m.Called()
}

func (m *MockRoom) CloseAndRelease() {
	m.Called()
}

// --- Registry ---

type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) RemoveRoom(roomId string) {
	m.Called(roomId)
}

// --- RegistryClient ---

type MockRegistryClient struct {
	mock.Mock
}

func (m *MockRegistryClient) RequestCreateRoom(ctx context.Context, roomId string, p Player) chan error {
	args := m.Called(ctx, roomId, p)
	return args.Get(0).(chan error)
}

func (m *MockRegistryClient) RequestJoinRoom(ctx context.Context, roomId string, p Player) chan error {
	args := m.Called(ctx, roomId, p)
	return args.Get(0).(chan error)
}
