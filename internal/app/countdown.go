package app

import "quiz-game-client/internal/domain"

// The countdown controller is host-only and purely local: decrements are
// 1-second scheduled steps with no server round-trip. The single
// state-changing side effect is the start_game request fired after the
// grace delay at zero. Epoch invalidation guarantees the request is never
// sent after disconnect or teardown.

func (s *Session) startCountdown() {
	if !s.isHost || s.gameState != domain.GameWaiting || s.countdown >= 0 {
		return
	}
	s.countdown = s.countdownFrom
	s.gameState = domain.GameCountdown
	s.glog.appendf(domain.LogInfo, "countdown started")
	if s.hooks.OnCountdown != nil {
		s.hooks.OnCountdown(s.countdown)
	}
	s.schedule(tickPeriod, timerCountdown)
	s.stateChanged()
}

func (s *Session) countdownTick() {
	if s.countdown <= 0 || s.gameState != domain.GameCountdown {
		return
	}
	s.countdown--
	if s.hooks.OnCountdown != nil {
		s.hooks.OnCountdown(s.countdown)
	}
	if s.countdown > 0 {
		s.schedule(tickPeriod, timerCountdown)
		return
	}
	// Zero reached: hold the "Go!" indicator, then request the start.
	s.schedule(s.startGrace, timerStartGrace)
}

func (s *Session) startGraceElapsed() {
	if s.countdown != 0 || s.gameState != domain.GameCountdown {
		return
	}
	s.countdown = -1
	if err := s.conn.StartGame(s.roomID, s.quizID); err != nil {
		s.glog.appendf(domain.LogError, "start request failed: %v", err)
		return
	}
	s.glog.appendf(domain.LogInfo, "starting the game")
	s.logger.Info().Str("room_id", s.roomID).Str("quiz_id", s.quizID).Msg("start_game sent")
}
