package app

import (
	"quiz-game-client/internal/domain"
	"quiz-game-client/internal/protocol"
)

// Question cycle: idle -> questionOpen -> answerLocked -> resultsShown ->
// idle, with finished overriding everything. Each new question bumps the
// timer epoch, so ticks belonging to a superseded question are no-ops.

func (s *Session) handleNewQuestion(ev protocol.Event) {
	if s.gameState == domain.GameFinished {
		s.logger.Debug().Msg("question after game_finished, ignored")
		return
	}
	p, err := protocol.Decode[protocol.NewQuestionPayload](ev)
	if err != nil {
		s.logger.Warn().Err(err).Msg("bad new_question payload")
		return
	}

	s.epoch++
	q := p.ToQuestion()
	s.question = &q
	s.answer = nil
	s.correct = -1
	s.ph = phaseQuestionOpen
	s.gameState = domain.GamePlaying
	s.totalQuestions = p.TotalQuestions
	// The timer is seeded from the broadcast, never from a local default.
	s.remaining = p.TimeLimit
	s.schedule(tickPeriod, timerQuestionTick)

	s.glog.appendf(domain.LogInfo, "question %d/%d", q.Index+1, q.Total)
	if s.hooks.OnQuestion != nil {
		s.hooks.OnQuestion(q)
	}
	s.stateChanged()
}

func (s *Session) questionTick() {
	if s.ph != phaseQuestionOpen && s.ph != phaseAnswerLocked {
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.hooks.OnTick != nil {
		s.hooks.OnTick(s.remaining)
	}
	if s.remaining > 0 {
		s.schedule(tickPeriod, timerQuestionTick)
		return
	}
	// Time up. If no answer went out, the server still needs to know the
	// window elapsed; it is the source of truth for closing it.
	if s.ph == phaseQuestionOpen && s.answer == nil {
		s.ph = phaseAnswerLocked
		if err := s.conn.TimeUp(s.roomID); err != nil {
			s.glog.appendf(domain.LogError, "time_up failed: %v", err)
		} else {
			s.glog.appendf(domain.LogInfo, "time is up")
		}
		s.stateChanged()
	}
}

func (s *Session) selectOption(i int) {
	// One submission per question; everything after the first is a no-op,
	// as is any selection by the host, who runs the room but does not play.
	if s.ph != phaseQuestionOpen || s.answer != nil || s.question == nil || s.isHost {
		return
	}
	if i < 0 || i >= len(s.question.Options) {
		return
	}

	responseMs := (s.question.TimeLimitSec - s.remaining) * 1000
	s.answer = &domain.AnswerSubmission{
		QuestionIndex:  s.question.Index,
		SelectedOption: i,
		ResponseTimeMs: responseMs,
	}
	s.ph = phaseAnswerLocked
	if err := s.conn.SubmitAnswer(s.roomID, s.question.Index, i, responseMs); err != nil {
		s.glog.appendf(domain.LogError, "submit failed: %v", err)
	} else {
		s.glog.appendf(domain.LogSuccess, "answer submitted")
	}
	s.stateChanged()
}

func (s *Session) handleQuestionResults(ev protocol.Event) {
	// Results are accepted while a question is open or locked; the engine
	// waits for the server no matter how it entered answerLocked. Anything
	// else (idle, resultsShown, finished) is a duplicate or stray.
	if s.ph != phaseQuestionOpen && s.ph != phaseAnswerLocked {
		s.logger.Debug().Str("phase", string(s.ph)).Msg("stray question_results, ignored")
		return
	}
	p, err := protocol.Decode[protocol.QuestionResultsPayload](ev)
	if err != nil {
		s.logger.Warn().Err(err).Msg("bad question_results payload")
		return
	}

	s.epoch++ // cancel any remaining ticks
	s.ph = phaseResultsShown
	s.correct = p.CorrectAnswer
	gained := s.score.apply(domain.QuestionResult{
		Leaderboard:   p.Leaderboard,
		PlayerResults: p.PlayerResults,
		CorrectOption: p.CorrectAnswer,
	}, s.roster.name)

	if gained > 0 {
		s.glog.appendf(domain.LogSuccess, "+%d points", gained)
	} else {
		s.glog.appendf(domain.LogInfo, "no points this question")
	}
	if s.hooks.OnReveal != nil {
		s.hooks.OnReveal(p.CorrectAnswer, gained)
	}
	if s.hooks.OnLeaderboard != nil {
		s.hooks.OnLeaderboard(s.score.snapshot())
	}
	s.schedule(s.reveal, timerReveal)
	s.stateChanged()
}

func (s *Session) revealElapsed() {
	if s.ph != phaseResultsShown {
		return
	}
	s.epoch++
	s.question = nil
	s.answer = nil
	s.correct = -1
	s.ph = phaseIdle
	// Exactly one participant drives pacing so advance requests cannot race.
	if s.isHost {
		if err := s.conn.NextQuestion(s.roomID); err != nil {
			s.glog.appendf(domain.LogError, "advance failed: %v", err)
		}
	}
	s.stateChanged()
}

func (s *Session) handleGameFinished(ev protocol.Event) {
	p, err := protocol.Decode[protocol.GameFinishedPayload](ev)
	if err != nil {
		s.logger.Warn().Err(err).Msg("bad game_finished payload")
		return
	}

	s.epoch++ // cancel all pending timers, whatever sub-state we were in
	s.gameState = domain.GameFinished
	s.ph = phaseFinished
	s.countdown = -1
	s.question = nil
	s.answer = nil
	s.correct = -1
	s.score.replaceBoard(p.Leaderboard, s.roster.name)

	s.glog.appendf(domain.LogSuccess, "game finished")
	s.logger.Info().Int("score", s.score.total).Msg("game finished")
	if s.hooks.OnFinished != nil {
		s.hooks.OnFinished(s.score.snapshot(), s.score.total)
	}
	s.stateChanged()
}
