// Package app contains the room/game session state machine: the single
// logical thread of control that owns every transition driven by server
// events and locally scheduled timers.
package app

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"quiz-game-client/internal/domain"
	"quiz-game-client/internal/protocol"
)

// Conn is the session's exclusive handle on the socket. All outbound
// requests go through these named operations; nothing else writes to
// the wire.
type Conn interface {
	Events() <-chan protocol.Event
	Authenticate(token string) error
	JoinRoom(roomCode, playerName string) error
	StartGame(roomID, quizID string) error
	SubmitAnswer(roomID string, questionIndex, selected, responseTimeMs int) error
	TimeUp(roomID string) error
	NextQuestion(roomID string) error
	LeaveRoom(roomCode string) error
	Close() error
}

// ConnState is the transport state surfaced to the owner. Connecting is
// visibly distinct from connected-but-unauthenticated.
type ConnState string

const (
	ConnConnecting   ConnState = "connecting"
	ConnConnected    ConnState = "connected"
	ConnDisconnected ConnState = "disconnected"
)

// phase is the question cycle sub-state.
type phase string

const (
	phaseIdle         phase = "idle"
	phaseQuestionOpen phase = "questionOpen"
	phaseAnswerLocked phase = "answerLocked"
	phaseResultsShown phase = "resultsShown"
	phaseFinished     phase = "finished"
)

const tickPeriod = time.Second

type timerKind int

const (
	timerCountdown timerKind = iota
	timerStartGrace
	timerQuestionTick
	timerReveal
)

type timerFire struct {
	epoch uint64
	kind  timerKind
}

// Hooks is the UI contract. All hooks run on the session goroutine and must
// not block.
type Hooks struct {
	OnStateChange func(Snapshot)
	OnCountdown   func(n int)
	OnQuestion    func(q domain.Question)
	OnTick        func(remaining int)
	OnReveal      func(correctOption int, gained int)
	OnLeaderboard func(entries []domain.LeaderboardEntry)
	OnLog         func(entry domain.LogEntry)
	OnFinished    func(final []domain.LeaderboardEntry, score int)
	OnBackToLobby func()
}

// Params configures a session. Conn, Identity and RoomCode are required;
// everything else has a sensible default.
type Params struct {
	Conn     Conn
	Identity domain.Identity
	RoomCode string
	QuizID   string

	Clock          clockwork.Clock
	Logger         zerolog.Logger
	Hooks          Hooks
	CountdownFrom  int
	StartGrace     time.Duration
	RevealDuration time.Duration
	LogCapacity    int
}

// Session drives one room membership from mount to teardown. All state is
// owned by the event loop; external calls post commands into the loop.
type Session struct {
	conn   Conn
	clock  clockwork.Clock
	logger zerolog.Logger
	hooks  Hooks

	identity      domain.Identity
	roomCode      string
	quizID        string
	countdownFrom int
	startGrace    time.Duration
	reveal        time.Duration

	timerCh chan timerFire
	cmds    chan func()
	done    chan struct{}
	stopped chan struct{}

	// Everything below is loop-owned.
	connState      ConnState
	authed         bool
	roomID         string
	isHost         bool
	gameState      domain.GameState
	roster         *roster
	score          *scoreboard
	glog           *gameLog
	countdown      int
	ph             phase
	question       *domain.Question
	answer         *domain.AnswerSubmission
	remaining      int
	correct        int
	totalQuestions int
	epoch          uint64
	leaving        bool
}

// New builds a session around an established connection. Call Run to start
// processing events.
func New(p Params) *Session {
	if p.Clock == nil {
		p.Clock = clockwork.NewRealClock()
	}
	if p.CountdownFrom <= 0 {
		p.CountdownFrom = 3
	}
	if p.StartGrace <= 0 {
		p.StartGrace = 2 * time.Second
	}
	if p.RevealDuration <= 0 {
		p.RevealDuration = 5 * time.Second
	}
	if p.LogCapacity <= 0 {
		p.LogCapacity = 100
	}

	s := &Session{
		conn:          p.Conn,
		clock:         p.Clock,
		logger:        p.Logger.With().Str("room_code", p.RoomCode).Logger(),
		hooks:         p.Hooks,
		identity:      p.Identity,
		roomCode:      p.RoomCode,
		quizID:        p.QuizID,
		countdownFrom: p.CountdownFrom,
		startGrace:    p.StartGrace,
		reveal:        p.RevealDuration,
		timerCh:       make(chan timerFire, 16),
		cmds:          make(chan func(), 16),
		done:          make(chan struct{}),
		stopped:       make(chan struct{}),
		connState:     ConnConnecting,
		gameState:     domain.GameWaiting,
		roster:        newRoster(),
		score:         newScoreboard(p.Identity.UserID),
		countdown:     -1,
		ph:            phaseIdle,
		correct:       -1,
	}
	s.glog = newGameLog(p.LogCapacity, s.clock, func(e domain.LogEntry) {
		s.logger.Debug().Str("level", string(e.Level)).Msg(e.Message)
		if s.hooks.OnLog != nil {
			s.hooks.OnLog(e)
		}
	})
	return s
}

// Run starts the event loop.
func (s *Session) Run() {
	go s.loop()
}

func (s *Session) loop() {
	defer close(s.stopped)
	events := s.conn.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.handleEvent(ev)
		case tf := <-s.timerCh:
			// Stale fires from a superseded question or countdown carry an
			// old epoch and are dropped here.
			if tf.epoch == s.epoch {
				s.handleTimer(tf.kind)
			}
		case fn := <-s.cmds:
			fn()
		case <-s.done:
			return
		}
	}
}

// schedule arms a one-shot timer bound to the current epoch. Bumping the
// epoch invalidates it without touching the timer itself.
func (s *Session) schedule(d time.Duration, kind timerKind) {
	epoch := s.epoch
	t := s.clock.NewTimer(d)
	go func() {
		defer t.Stop()
		select {
		case <-t.Chan():
			select {
			case s.timerCh <- timerFire{epoch: epoch, kind: kind}:
			case <-s.done:
			}
		case <-s.done:
		}
	}()
}

func (s *Session) handleEvent(ev protocol.Event) {
	switch ev.Type {
	case protocol.EventConnected:
		s.handleConnected()
	case protocol.EventDisconnected:
		s.handleDisconnected()
	case protocol.EventAuthenticated:
		s.handleAuthenticated()
	case protocol.EventRoomJoined:
		s.handleRoomJoined(ev)
	case protocol.EventPlayerJoined, protocol.EventPlayerLeft:
		s.handleRosterUpdate(ev)
	case protocol.EventCountdownStarted:
		s.handleCountdownStarted()
	case protocol.EventGameStarted:
		s.handleGameStarted(ev)
	case protocol.EventNewQuestion:
		s.handleNewQuestion(ev)
	case protocol.EventQuestionResults:
		s.handleQuestionResults(ev)
	case protocol.EventGameFinished:
		s.handleGameFinished(ev)
	case protocol.EventError, protocol.EventAuthError:
		s.handleServerError(ev)
	default:
		s.logger.Debug().Str("event", ev.Type).Msg("ignoring unknown event")
	}
}

func (s *Session) handleTimer(kind timerKind) {
	switch kind {
	case timerCountdown:
		s.countdownTick()
	case timerStartGrace:
		s.startGraceElapsed()
	case timerQuestionTick:
		s.questionTick()
	case timerReveal:
		s.revealElapsed()
	}
}

func (s *Session) handleConnected() {
	s.connState = ConnConnected
	s.glog.appendf(domain.LogSuccess, "connected to server")
	if s.identity.Token == "" {
		// No stored token: stay blocked, no room join is attempted.
		s.glog.appendf(domain.LogError, "no credentials, authentication skipped")
		s.stateChanged()
		return
	}
	if err := s.conn.Authenticate(s.identity.Token); err != nil {
		s.glog.appendf(domain.LogError, "authenticate failed: %v", err)
	}
	s.stateChanged()
}

func (s *Session) handleDisconnected() {
	s.connState = ConnDisconnected
	s.authed = false
	s.epoch++ // stop all timers
	s.countdown = -1
	s.glog.appendf(domain.LogError, "lost connection to server")
	s.logger.Warn().Msg("transport lost, session inert until teardown")
	s.stateChanged()
}

func (s *Session) handleAuthenticated() {
	s.authed = true
	s.glog.appendf(domain.LogSuccess, "authenticated")
	if err := s.conn.JoinRoom(s.roomCode, s.identity.DisplayName); err != nil {
		s.glog.appendf(domain.LogError, "join request failed: %v", err)
	}
	s.stateChanged()
}

func (s *Session) handleRoomJoined(ev protocol.Event) {
	p, err := protocol.Decode[protocol.RoomJoinedPayload](ev)
	if err != nil {
		s.logger.Warn().Err(err).Msg("bad room_joined payload")
		return
	}
	s.roomID = p.RoomID
	s.isHost = p.IsHost
	if st := domain.GameState(p.Status); st != "" {
		// The room may already be mid-game; display that state.
		s.gameState = st
	}
	if len(p.Players) > 0 {
		s.roster.replace(p.Players)
	} else {
		s.roster.replace([]domain.Player{{
			ID:     s.identity.UserID,
			Name:   s.identity.DisplayName,
			IsHost: p.IsHost,
		}})
	}
	s.glog.appendf(domain.LogInfo, "joined room %s", s.roomCode)
	s.logger.Info().Str("room_id", s.roomID).Bool("is_host", s.isHost).Msg("room joined")
	s.stateChanged()
}

func (s *Session) handleRosterUpdate(ev protocol.Event) {
	p, err := protocol.Decode[protocol.RosterPayload](ev)
	if err != nil {
		s.logger.Warn().Err(err).Msg("bad roster payload")
		return
	}
	if p.Players != nil {
		s.roster.replace(*p.Players)
	}
	who := p.PlayerName
	if who == "" {
		who = "a player"
	}
	if ev.Type == protocol.EventPlayerJoined {
		s.glog.appendf(domain.LogInfo, "%s joined the room", who)
	} else {
		s.glog.appendf(domain.LogInfo, "%s left the room", who)
	}
	s.stateChanged()
}

func (s *Session) handleCountdownStarted() {
	// Non-hosts never run the countdown controller; they just display the
	// countdown state until game_started arrives.
	if s.gameState == domain.GameWaiting {
		s.gameState = domain.GameCountdown
		s.glog.appendf(domain.LogInfo, "game starting soon")
		s.stateChanged()
	}
}

func (s *Session) handleGameStarted(ev protocol.Event) {
	// Finished is terminal; only teardown leaves it.
	if s.gameState == domain.GameFinished {
		s.logger.Debug().Msg("game_started after game_finished, ignored")
		return
	}
	p, err := protocol.Decode[protocol.GameStartedPayload](ev)
	if err != nil {
		s.logger.Warn().Err(err).Msg("bad game_started payload")
		return
	}
	s.gameState = domain.GamePlaying
	s.countdown = -1
	s.totalQuestions = p.TotalQuestions
	s.glog.appendf(domain.LogSuccess, "game started, %d questions", p.TotalQuestions)
	s.stateChanged()
}

func (s *Session) handleServerError(ev protocol.Event) {
	p, _ := protocol.Decode[protocol.ErrorPayload](ev)
	// Logged only: the session stays in its current state and the failed
	// operation is not retried.
	if ev.Type == protocol.EventAuthError {
		s.glog.appendf(domain.LogError, "auth error: %s", p.Message)
	} else {
		s.glog.appendf(domain.LogError, "server error: %s", p.Message)
	}
	s.logger.Warn().Str("event", ev.Type).Str("message", p.Message).Msg("server reported error")
}

// SelectOption submits the player's answer for the open question. At most
// one submission per question; all further calls are no-ops.
func (s *Session) SelectOption(i int) {
	s.do(func() { s.selectOption(i) })
}

// StartCountdown begins the host-local pre-game countdown. Non-hosts and
// non-waiting states are no-ops; this is the single choke point for the
// start authority.
func (s *Session) StartCountdown() {
	s.do(func() { s.startCountdown() })
}

// Leave tears the session down: pending timers are invalidated before any
// asynchronous cleanup, the server is notified best-effort, and the
// back-to-lobby callback fires exactly once. Blocks until the loop exits.
func (s *Session) Leave() {
	s.do(func() { s.teardown() })
	<-s.stopped
}

// Done is closed when the session loop has fully stopped.
func (s *Session) Done() <-chan struct{} { return s.stopped }

func (s *Session) teardown() {
	if s.leaving {
		return
	}
	s.leaving = true
	s.epoch++ // clear all pending timers before any async cleanup
	s.countdown = -1
	_ = s.conn.LeaveRoom(s.roomCode)
	_ = s.conn.Close()
	s.roster.clear()
	s.roomID = ""
	s.gameState = domain.GameWaiting
	s.score.reset()
	s.logger.Info().Msg("session torn down")
	if s.hooks.OnBackToLobby != nil {
		s.hooks.OnBackToLobby()
	}
	close(s.done)
}

func (s *Session) do(fn func()) {
	select {
	case s.cmds <- fn:
	case <-s.stopped:
	}
}

func (s *Session) stateChanged() {
	if s.hooks.OnStateChange != nil {
		s.hooks.OnStateChange(s.currentSnapshot())
	}
}

// Snapshot describes the whole session state at one transition boundary.
type Snapshot struct {
	ConnState      ConnState
	Authed         bool
	RoomID         string
	RoomCode       string
	IsHost         bool
	GameState      domain.GameState
	Phase          string
	Countdown      int
	Remaining      int
	QuestionIndex  int
	TotalQuestions int
	CorrectOption  int
	HasAnswer      bool
	SelectedOption int
	Score          int
	Leaderboard    []domain.LeaderboardEntry
	Players        []domain.Player
}

// Snapshot returns a consistent copy of the session state, serialized
// through the event loop.
func (s *Session) Snapshot() Snapshot {
	out := make(chan Snapshot, 1)
	s.do(func() { out <- s.currentSnapshot() })
	select {
	case sn := <-out:
		return sn
	case <-s.stopped:
		return Snapshot{ConnState: ConnDisconnected}
	}
}

// Log returns a copy of the bounded session log, serialized through the loop.
func (s *Session) Log() []domain.LogEntry {
	out := make(chan []domain.LogEntry, 1)
	s.do(func() { out <- s.glog.snapshot() })
	select {
	case entries := <-out:
		return entries
	case <-s.stopped:
		return nil
	}
}

func (s *Session) currentSnapshot() Snapshot {
	sn := Snapshot{
		ConnState:      s.connState,
		Authed:         s.authed,
		RoomID:         s.roomID,
		RoomCode:       s.roomCode,
		IsHost:         s.isHost,
		GameState:      s.gameState,
		Phase:          string(s.ph),
		Countdown:      s.countdown,
		Remaining:      s.remaining,
		TotalQuestions: s.totalQuestions,
		CorrectOption:  s.correct,
		SelectedOption: -1,
		QuestionIndex:  -1,
		Score:          s.score.total,
		Leaderboard:    s.score.snapshot(),
		Players:        s.roster.list(),
	}
	if s.question != nil {
		sn.QuestionIndex = s.question.Index
	}
	if s.answer != nil {
		sn.HasAnswer = true
		sn.SelectedOption = s.answer.SelectedOption
	}
	return sn
}
