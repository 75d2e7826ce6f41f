package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type roomPhase int

const (
	PHASE_LOBBY roomPhase = iota
	PHASE_DRAWING
	PHASE_ENDED
)

// RoomConfigs is the per-room tuning fixed at creation.
type RoomConfigs struct {
	RoundDuration         time.Duration
	FirstCorrectEndsRound bool
}

type roomJoinRequest struct {
	roomId  string
	player  Player
	errChan chan error
}

type dataSendTask struct {
	to   Player
	data []byte
}

// playerState is one member's in-room state. Identity is the connection id;
// display names may repeat across members.
type playerState struct {
	player           Player
	score            int
	guessedCorrectly bool
	// seq of this player's most recent score gain, for the
	// first-to-reach-the-max tie break
	lastScoreSeq int
}

// room is the aggregate for one play session plus the actor that owns it.
// All state is mutated only on the GameLoop goroutine; the exported methods
// just push into its channels.
type room struct {
	id             string
	parentRegistry Registry
	configs        RoomConfigs

	phase           roomPhase
	// set the moment membership hits zero; removal is then queued at the
	// registry but this loop keeps draining until CloseAndRelease
	closing         bool
	players         []*playerState
	roundIndex      int
	totalRounds     int
	drawerOrder     []string
	currentDrawerId string
	currentWord     string
	usedWords       map[string]struct{}
	roundDeadline   time.Time
	roundWinners    []string
	scoreSeq        int

	evaluator GuessEvaluator
	words     WordPicker
	shuffler  Shuffler

	inbox       chan clientEventEnvelope
	joinReqs    chan roomJoinRequest
	removeMe    chan Player
	ticks       chan time.Time
	pingPlayers chan struct{}
	done        chan struct{}
	closeOnce   sync.Once

	dataSendTasks []dataSendTask
}

func NewRoom(id string, creator Player, configs RoomConfigs, words WordPicker, shuffler Shuffler) *room {
	r := &room{
		id:          id,
		configs:     configs,
		phase:       PHASE_LOBBY,
		usedWords:   make(map[string]struct{}),
		words:       words,
		shuffler:    shuffler,
		inbox:       make(chan clientEventEnvelope, 1024),
		joinReqs:    make(chan roomJoinRequest, 64),
		removeMe:    make(chan Player, 64),
		ticks:       make(chan time.Time, 1),
		pingPlayers: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	r.players = append(r.players, &playerState{player: creator})
	creator.SetRoom(r)
	return r
}

func (r *room) Id() string                     { return r.id }
func (r *room) SetParentRegistry(reg Registry) { r.parentRegistry = reg }

func (r *room) RequestJoin(jreq roomJoinRequest) {
	select {
	case r.joinReqs <- jreq:
	case <-r.done:
		jreq.errChan <- ErrRoomNotFound
	}
}

func (r *room) Send(ctx context.Context, e clientEventEnvelope) {
	select {
	case r.inbox <- e:
	case <-r.done:
	case <-ctx.Done():
	}
}

func (r *room) RemoveMe(ctx context.Context, p Player) {
	select {
	case r.removeMe <- p:
	case <-r.done:
	case <-ctx.Done():
	}
}

func (r *room) Tick(now time.Time) {
	select {
	case r.ticks <- now:
	default:
	}
}

func (r *room) PingPlayers() {
	select {
	case r.pingPlayers <- struct{}{}:
	default:
	}
}

func (r *room) CloseAndRelease() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
}

// GameLoop serializes every mutation of the room. The per-round countdown is
// driven by the ticks channel, so a timeout and a guess can never race.
func (r *room) GameLoop() {
	for {
		select {
		case <-r.done:
			return
		case jreq := <-r.joinReqs:
			r.handleJoinRequest(jreq)
		case env := <-r.inbox:
			r.handleEvent(time.Now(), env)
		case p := <-r.removeMe:
			r.handleRemovePlayer(time.Now(), p)
		case now := <-r.ticks:
			r.handleTick(now)
		case <-r.pingPlayers:
			r.handlePingPlayers()
		}
		r.flush()
	}
}

func (r *room) flush() {
	for _, task := range r.dataSendTasks {
		if err := task.to.Send(task.data); err != nil {
			log.Debug().Str("room", r.id).Str("player", task.to.Username()).Err(err).Msg("dropping outbound frame")
		}
	}
	r.dataSendTasks = r.dataSendTasks[:0]
}

func (r *room) sendTo(p Player, data []byte) {
	r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: p, data: data})
}

func (r *room) broadcast(data []byte, except ...Player) {
loop:
	for _, ps := range r.players {
		for _, ex := range except {
			if ps.player == ex {
				continue loop
			}
		}
		r.sendTo(ps.player, data)
	}
}

func (r *room) sendError(p Player, err error) {
	r.sendTo(p, MakeError(err.Error()))
}

func (r *room) stateOf(p Player) *playerState {
	for _, ps := range r.players {
		if ps.player.Id() == p.Id() {
			return ps
		}
	}
	return nil
}

func (r *room) stateById(id string) *playerState {
	for _, ps := range r.players {
		if ps.player.Id() == id {
			return ps
		}
	}
	return nil
}

func (r *room) scoreboard() []PlayerScore {
	scores := make([]PlayerScore, 0, len(r.players))
	for _, ps := range r.players {
		scores = append(scores, PlayerScore{Player: ps.player.Username(), Score: ps.score})
	}
	return scores
}

// handleEvent validates fully before mutating; a panic inside a handler is
// confined to the offending event and answered with a generic error.
func (r *room) handleEvent(now time.Time, env clientEventEnvelope) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("room", r.id).Interface("panic", rec).Msg("room handler panicked")
			r.sendError(env.from, ErrInvalidEvent)
		}
	}()

	if env.event.RoomId() != r.id {
		r.sendError(env.from, ErrNotInThisRoom)
		return
	}
	if r.stateOf(env.from) == nil {
		// the sender was removed while this event sat in the inbox
		r.sendError(env.from, ErrNotInThisRoom)
		return
	}

	switch e := env.event.(type) {
	case LeaveRoomEvent:
		r.handleRemovePlayer(now, env.from)
	case StartGameEvent:
		r.handleStartGame(now, env.from)
	case DrawingEvent:
		r.handleDrawing(env.from, e)
	case SubmitGuessEvent:
		r.handleGuess(now, env.from, e.Guess)
	case CreateRoomEvent, JoinRoomEvent:
		// membership changes go through the registry, never the room inbox
		r.sendError(env.from, ErrInvalidEvent)
	}
}

func (r *room) handleJoinRequest(jreq roomJoinRequest) {
	defer close(jreq.errChan)

	if r.closing {
		// the registry forwarded this join before it processed our removal
		jreq.errChan <- ErrRoomNotFound
		return
	}

	if existing := r.stateOf(jreq.player); existing != nil {
		// idempotent re-join by the same connection
		r.sendTo(jreq.player, MakeRoomJoined(r.id, jreq.player.Username()))
		return
	}

	username := jreq.player.Username()
	r.broadcast(MakeMessage(fmt.Sprintf("%s joined room %s", username, r.id)))
	r.players = append(r.players, &playerState{player: jreq.player})
	jreq.player.SetRoom(r)
	r.sendTo(jreq.player, MakeRoomJoined(r.id, username))
	log.Info().Str("room", r.id).Str("player", username).Int("members", len(r.players)).Msg("player joined")
}

func (r *room) handleRemovePlayer(now time.Time, p Player) {
	idx := -1
	for i, ps := range r.players {
		if ps.player.Id() == p.Id() {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	username := r.players[idx].player.Username()
	r.players = append(r.players[:idx], r.players[idx+1:]...)
	p.ClearRoom()

	r.broadcast(MakePlayerLeft(username))
	r.broadcast(MakeMessage(fmt.Sprintf("%s left the room %s", username, r.id)))
	log.Info().Str("room", r.id).Str("player", username).Int("members", len(r.players)).Msg("player left")

	if len(r.players) == 0 {
		r.closing = true
		r.parentRegistry.RemoveRoom(r.id)
		return
	}

	if r.phase != PHASE_DRAWING {
		return
	}
	if p.Id() == r.currentDrawerId {
		// the round ends winnerless but the word is still revealed
		r.roundWinners = nil
		r.endRound(now, true)
		return
	}
	if r.allGuessersCorrect() {
		r.endRound(now, false)
	}
}

func (r *room) handleStartGame(now time.Time, from Player) {
	if r.phase == PHASE_DRAWING {
		r.sendError(from, ErrGameAlreadyActive)
		return
	}
	if len(r.players) < 2 {
		r.sendError(from, ErrNotEnoughPlayers)
		return
	}

	n := len(r.players)
	r.totalRounds = n
	r.roundIndex = 0
	r.scoreSeq = 0
	r.usedWords = make(map[string]struct{})
	r.drawerOrder = make([]string, 0, n)
	for _, i := range r.shuffler.Perm(n) {
		r.drawerOrder = append(r.drawerOrder, r.players[i].player.Id())
	}
	usernames := make([]string, 0, n)
	for _, ps := range r.players {
		ps.score = 0
		ps.lastScoreSeq = 0
		ps.guessedCorrectly = false
		usernames = append(usernames, ps.player.Username())
	}

	log.Info().Str("room", r.id).Int("totalRounds", n).Msg("game started")
	r.broadcast(MakeGameStarted(usernames, r.totalRounds))
	r.beginRound(now)
}

// beginRound assigns the next live drawer and secret word and opens the
// drawing phase. Drawer-order entries whose player has left are skipped,
// consuming their slot.
func (r *room) beginRound(now time.Time) {
	var drawer *playerState
	for r.roundIndex < r.totalRounds {
		if ps := r.stateById(r.drawerOrder[r.roundIndex]); ps != nil {
			drawer = ps
			break
		}
		r.roundIndex++
	}
	if drawer == nil {
		r.finishGame()
		return
	}

	word, err := r.words.Pick(r.usedWords)
	if err != nil {
		// no valid round can proceed, the whole game aborts
		log.Error().Str("room", r.id).Err(err).Msg("word bank exhausted, aborting game")
		r.broadcast(MakeError(ErrWordBankExhausted.Error()))
		r.phase = PHASE_ENDED
		r.currentWord = ""
		r.currentDrawerId = ""
		return
	}
	r.usedWords[word] = struct{}{}

	r.currentWord = word
	r.currentDrawerId = drawer.player.Id()
	r.roundWinners = nil
	for _, ps := range r.players {
		ps.guessedCorrectly = false
	}
	r.roundDeadline = now.Add(r.configs.RoundDuration)
	r.phase = PHASE_DRAWING

	remaining := int(r.configs.RoundDuration.Seconds())
	r.broadcast(MakeRoundStarted(drawer.player.Username(), r.roundIndex+1, remaining))
	r.sendTo(drawer.player, MakeYourTurn(word, remaining))
	log.Info().Str("room", r.id).Str("drawer", drawer.player.Username()).Int("round", r.roundIndex+1).Msg("round started")
}

func (r *room) handleTick(now time.Time) {
	if r.phase != PHASE_DRAWING {
		return
	}
	remaining := r.roundDeadline.Sub(now)
	if remaining <= 0 {
		r.endRound(now, true)
		return
	}
	r.broadcast(MakeTimer(int((remaining + time.Second - 1) / time.Second)))
}

func (r *room) handleGuess(now time.Time, from Player, guess string) {
	if r.phase != PHASE_DRAWING {
		r.sendError(from, ErrNoActiveRound)
		return
	}
	if from.Id() == r.currentDrawerId {
		r.sendError(from, ErrDrawerCannotGuess)
		return
	}
	guesser := r.stateOf(from)
	if guesser.guessedCorrectly {
		r.sendError(from, ErrAlreadyGuessedCorrectly)
		return
	}

	if !r.evaluator.Evaluate(guess, r.currentWord) {
		// a wrong answer never reveals the word; relay it as chat
		r.broadcast(MakeMessage(fmt.Sprintf("%s: %s", from.Username(), guess)), from)
		return
	}

	remaining := r.roundDeadline.Sub(now)
	r.scoreSeq++
	guesser.score += r.evaluator.GuesserDelta(remaining, r.configs.RoundDuration)
	guesser.lastScoreSeq = r.scoreSeq
	guesser.guessedCorrectly = true
	r.roundWinners = append(r.roundWinners, from.Id())

	if drawer := r.stateById(r.currentDrawerId); drawer != nil {
		r.scoreSeq++
		drawer.score += r.evaluator.DrawerDelta()
		drawer.lastScoreSeq = r.scoreSeq
	}

	r.broadcast(MakeCorrectGuess(from.Username(), guess))

	if r.configs.FirstCorrectEndsRound || r.allGuessersCorrect() {
		r.endRound(now, false)
	}
}

func (r *room) allGuessersCorrect() bool {
	for _, ps := range r.players {
		if ps.player.Id() == r.currentDrawerId {
			continue
		}
		if !ps.guessedCorrectly {
			return false
		}
	}
	return true
}

// endRound closes the active round exactly once. The phase guard makes a
// second trigger (timeout racing a correct guess, both queued on the inbox)
// a no-op.
func (r *room) endRound(now time.Time, timedOut bool) {
	if r.phase != PHASE_DRAWING {
		return
	}

	winner := ""
	if len(r.roundWinners) > 0 {
		if ps := r.stateById(r.roundWinners[0]); ps != nil {
			winner = ps.player.Username()
		}
	}

	r.broadcast(MakeRoundEnded(winner, r.currentWord, r.scoreboard()))
	log.Info().Str("room", r.id).Str("winner", winner).Bool("timedOut", timedOut).Int("round", r.roundIndex+1).Msg("round ended")

	r.currentWord = ""
	r.currentDrawerId = ""
	r.roundWinners = nil
	for _, ps := range r.players {
		ps.guessedCorrectly = false
	}
	r.roundIndex++

	if r.roundIndex >= r.totalRounds {
		r.finishGame()
		return
	}
	r.phase = PHASE_LOBBY
	r.beginRound(now)
}

// finishGame crowns the member with the highest score, ties broken by who
// reached their final score first.
func (r *room) finishGame() {
	r.phase = PHASE_ENDED

	var best *playerState
	for _, ps := range r.players {
		if best == nil || ps.score > best.score ||
			(ps.score == best.score && ps.lastScoreSeq < best.lastScoreSeq) {
			best = ps
		}
	}
	winner := ""
	if best != nil {
		winner = best.player.Username()
	}

	r.broadcast(MakeGameEnded(winner, r.scoreboard()))
	log.Info().Str("room", r.id).Str("winner", winner).Msg("game ended")
}

func (r *room) handleDrawing(from Player, e DrawingEvent) {
	if from.Id() != r.currentDrawerId || r.phase != PHASE_DRAWING {
		r.sendError(from, ErrNotCurrentDrawer)
		return
	}
	// opaque payload, re-broadcast verbatim
	r.broadcast(MakeDrawing(e.Stroke), from)
}

func (r *room) handlePingPlayers() {
	for _, ps := range r.players {
		if err := ps.player.Ping(); err != nil {
			log.Debug().Str("room", r.id).Str("player", ps.player.Username()).Err(err).Msg("ping failed")
		}
	}
}
