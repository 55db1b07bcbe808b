// Package protocol defines the wire contract between this client and the
// quiz server: JSON envelopes of the form {type, payload} flowing over a
// single websocket.
package protocol

import (
	"encoding/json"
	"fmt"

	"quiz-game-client/internal/domain"
)

// Inbound event types. The connected/disconnected pair is synthesized by the
// transport layer; everything else arrives from the server.
const (
	EventConnected        = "connected"
	EventDisconnected     = "disconnected"
	EventAuthenticated    = "authenticated"
	EventRoomJoined       = "room_joined"
	EventPlayerJoined     = "player_joined"
	EventPlayerLeft       = "player_left"
	EventCountdownStarted = "countdown_started"
	EventGameStarted      = "game_started"
	EventNewQuestion      = "new_question"
	EventQuestionResults  = "question_results"
	EventGameFinished     = "game_finished"
	EventError            = "error"
	EventAuthError        = "auth_error"
)

// Outbound operation types.
const (
	OpAuthenticate = "authenticate"
	OpJoinRoom     = "join_room"
	OpStartGame    = "start_game"
	OpSubmitAnswer = "submit_answer"
	OpTimeUp       = "time_up"
	OpNextQuestion = "next_question"
	OpLeaveRoom    = "leave_room"
)

// Envelope is the raw inbound frame; the payload stays opaque until the
// session knows which typed struct to decode it into.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Event is what the transport delivers to the session. For synthetic events
// the payload is nil.
type Event struct {
	Type    string
	Payload json.RawMessage
}

// Outbound is an operation on its way to the server.
type Outbound[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// Decode unmarshals an event payload into the given typed struct.
func Decode[T any](ev Event) (T, error) {
	var out T
	if len(ev.Payload) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(ev.Payload, &out); err != nil {
		return out, fmt.Errorf("decode %s payload: %w", ev.Type, err)
	}
	return out, nil
}

// AuthenticatePayload carries the stored token.
type AuthenticatePayload struct {
	Token string `json:"token"`
}

// JoinRoomPayload asks to join a room by its short code.
type JoinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

// StartGamePayload is the host-only start request fired after the countdown.
type StartGamePayload struct {
	RoomID string `json:"roomId"`
	QuizID string `json:"quizId"`
}

// SubmitAnswerPayload is the one-and-only answer for the open question.
type SubmitAnswerPayload struct {
	RoomID         string `json:"roomId"`
	QuestionIndex  int    `json:"questionIndex"`
	SelectedAnswer int    `json:"selectedAnswer"`
	ResponseTime   int    `json:"responseTime"` // milliseconds
}

// RoomRefPayload covers the operations that only name the room.
type RoomRefPayload struct {
	RoomID string `json:"roomId"`
}

// LeaveRoomPayload notifies the server the player is leaving.
type LeaveRoomPayload struct {
	RoomCode string `json:"roomCode"`
}

// RoomJoinedPayload acknowledges a join. A room may already be mid-game, so
// Status carries the current state rather than assuming "waiting".
type RoomJoinedPayload struct {
	RoomID  string          `json:"roomId"`
	IsHost  bool            `json:"isHost"`
	Status  string          `json:"status"`
	Players []domain.Player `json:"players"`
}

// RosterPayload is the full-replace roster broadcast. Players is a pointer:
// an empty array (everyone else left) still replaces the roster, while an
// absent field leaves it alone.
type RosterPayload struct {
	Players    *[]domain.Player `json:"players"`
	PlayerName string           `json:"playerName"`
}

// GameStartedPayload announces the transition to playing.
type GameStartedPayload struct {
	TotalQuestions int `json:"totalQuestions"`
}

// QuestionBody is the content portion of a question broadcast.
type QuestionBody struct {
	Text     string   `json:"text"`
	ImageURL string   `json:"imageUrl"`
	Options  []string `json:"options"`
}

// NewQuestionPayload opens a question. TimeLimit seeds the local timer; the
// client never falls back to a guessed default.
type NewQuestionPayload struct {
	QuestionIndex  int          `json:"questionIndex"`
	TotalQuestions int          `json:"totalQuestions"`
	Question       QuestionBody `json:"question"`
	TimeLimit      int          `json:"timeLimit"` // seconds
	StartTime      int64        `json:"startTime"` // server ms since epoch
}

// QuestionResultsPayload closes a question with the authoritative outcome.
type QuestionResultsPayload struct {
	Leaderboard   []domain.LeaderboardEntry `json:"leaderboard"`
	PlayerResults []domain.PlayerResult     `json:"playerResults"`
	CorrectAnswer int                       `json:"correctAnswer"`
}

// GameFinishedPayload carries the final standings.
type GameFinishedPayload struct {
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

// ErrorPayload is the server-sent error/auth_error body.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ToQuestion converts a broadcast into the immutable domain value.
func (p NewQuestionPayload) ToQuestion() domain.Question {
	return domain.Question{
		Index:        p.QuestionIndex,
		Total:        p.TotalQuestions,
		Text:         p.Question.Text,
		ImageURL:     p.Question.ImageURL,
		Options:      p.Question.Options,
		TimeLimitSec: p.TimeLimit,
		ServerStart:  p.StartTime,
	}
}
