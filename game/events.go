package game

import (
	"encoding/json"
	"fmt"
)

// Inbound event names, matching what the client emits.
const (
	eventCreateRoom  = "createRoom"
	eventJoinRoom    = "joinRoom"
	eventLeaveRoom   = "leaveRoom"
	eventStartGame   = "startGame"
	eventDrawing     = "drawing"
	eventSubmitGuess = "submitGuess"
)

// ClientEvent is the closed set of inbound actions. Routing switches over
// the concrete types exhaustively instead of dispatching on name strings.
type ClientEvent interface {
	isClientEvent()
	RoomId() string
}

type CreateRoomEvent struct {
	Room string `json:"roomId"`
	// accepted for shape compatibility; the verified username wins
	Username string `json:"username,omitempty"`
}

type JoinRoomEvent struct {
	Room     string `json:"roomId"`
	Username string `json:"username,omitempty"`
}

type LeaveRoomEvent struct {
	Room string `json:"roomId"`
}

type StartGameEvent struct {
	Room string `json:"roomId"`
}

type DrawingEvent struct {
	Room string `json:"roomId"`
	// opaque stroke payload, fanned out verbatim
	Stroke json.RawMessage `json:"stroke"`
}

type SubmitGuessEvent struct {
	Room  string `json:"roomId"`
	Guess string `json:"guess"`
}

func (e CreateRoomEvent) isClientEvent()  {}
func (e JoinRoomEvent) isClientEvent()    {}
func (e LeaveRoomEvent) isClientEvent()   {}
func (e StartGameEvent) isClientEvent()   {}
func (e DrawingEvent) isClientEvent()     {}
func (e SubmitGuessEvent) isClientEvent() {}

func (e CreateRoomEvent) RoomId() string  { return e.Room }
func (e JoinRoomEvent) RoomId() string    { return e.Room }
func (e LeaveRoomEvent) RoomId() string   { return e.Room }
func (e StartGameEvent) RoomId() string   { return e.Room }
func (e DrawingEvent) RoomId() string     { return e.Room }
func (e SubmitGuessEvent) RoomId() string { return e.Room }

type wireEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// DecodeClientEvent parses one inbound frame into its tagged variant.
func DecodeClientEvent(raw []byte) (ClientEvent, error) {
	var env wireEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	var (
		ev  ClientEvent
		err error
	)
	switch env.Type {
	case eventCreateRoom:
		var e CreateRoomEvent
		err = json.Unmarshal(env.Data, &e)
		ev = e
	case eventJoinRoom:
		var e JoinRoomEvent
		err = json.Unmarshal(env.Data, &e)
		ev = e
	case eventLeaveRoom:
		var e LeaveRoomEvent
		err = json.Unmarshal(env.Data, &e)
		ev = e
	case eventStartGame:
		var e StartGameEvent
		err = json.Unmarshal(env.Data, &e)
		ev = e
	case eventDrawing:
		var e DrawingEvent
		err = json.Unmarshal(env.Data, &e)
		ev = e
	case eventSubmitGuess:
		var e SubmitGuessEvent
		err = json.Unmarshal(env.Data, &e)
		ev = e
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if ev.RoomId() == "" {
		return nil, fmt.Errorf("%w: missing roomId", ErrInvalidEvent)
	}
	return ev, nil
}

// clientEventEnvelope pairs a decoded event with its sender for the room
// inbox.
type clientEventEnvelope struct {
	event ClientEvent
	from  Player
}

// PlayerScore is one scoreboard entry. A list keyed by display name keeps
// duplicate names from colliding the way a map would.
type PlayerScore struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
}

func marshalServer(eventType string, data any) []byte {
	payload, err := json.Marshal(data)
	if err != nil {
		// all outbound payloads are plain structs, this cannot fail
		return nil
	}
	out, _ := json.Marshal(wireEnvelope{Type: eventType, Data: payload})
	return out
}

// --- Outbound notification constructors ---

func MakeRoomCreated(roomId, username string) []byte {
	return marshalServer("roomCreated", struct {
		RoomId   string `json:"roomId"`
		Username string `json:"username"`
	}{roomId, username})
}

func MakeRoomJoined(roomId, username string) []byte {
	return marshalServer("roomJoined", struct {
		RoomId   string `json:"roomId"`
		Username string `json:"username"`
	}{roomId, username})
}

func MakeMessage(text string) []byte {
	return marshalServer("message", struct {
		Text string `json:"text"`
	}{text})
}

func MakeError(message string) []byte {
	return marshalServer("error", struct {
		Message string `json:"message"`
	}{message})
}

func MakeGameStarted(players []string, totalRounds int) []byte {
	return marshalServer("gameStarted", struct {
		Players     []string `json:"players"`
		TotalRounds int      `json:"totalRounds"`
	}{players, totalRounds})
}

func MakeRoundStarted(drawer string, roundNumber int, remaining int) []byte {
	return marshalServer("roundStarted", struct {
		Drawer        string `json:"drawer"`
		RoundNumber   int    `json:"roundNumber"`
		RemainingTime int    `json:"remainingTime"`
	}{drawer, roundNumber, remaining})
}

func MakeYourTurn(word string, remaining int) []byte {
	return marshalServer("yourTurn", struct {
		Word          string `json:"word"`
		RemainingTime int    `json:"remainingTime"`
	}{word, remaining})
}

func MakeTimer(remaining int) []byte {
	return marshalServer("timer", struct {
		RemainingTime int `json:"remainingTime"`
	}{remaining})
}

func MakeCorrectGuess(player, guess string) []byte {
	return marshalServer("correctGuess", struct {
		Player string `json:"player"`
		Guess  string `json:"guess"`
	}{player, guess})
}

func MakeRoundEnded(winner, word string, scores []PlayerScore) []byte {
	return marshalServer("roundEnded", struct {
		Winner string        `json:"winner,omitempty"`
		Word   string        `json:"word"`
		Scores []PlayerScore `json:"scores"`
	}{winner, word, scores})
}

func MakeGameEnded(winner string, scores []PlayerScore) []byte {
	return marshalServer("gameEnded", struct {
		Winner string        `json:"winner"`
		Scores []PlayerScore `json:"scores"`
	}{winner, scores})
}

func MakePlayerLeft(player string) []byte {
	return marshalServer("playerLeft", struct {
		Player string `json:"player"`
	}{player})
}

func MakeDrawing(stroke json.RawMessage) []byte {
	return marshalServer("drawing", struct {
		Stroke json.RawMessage `json:"stroke"`
	}{stroke})
}
