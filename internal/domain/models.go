package domain

import "time"

// GameState is the coarse lifecycle of a room as seen by this client.
type GameState string

const (
	GameWaiting   GameState = "waiting"
	GameCountdown GameState = "countdown"
	GamePlaying   GameState = "playing"
	GameFinished  GameState = "finished"
)

// Player is one roster entry. The roster is replaced wholesale on every
// roster broadcast; duplicate IDs collapse to the first occurrence.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
}

// Question is the current question broadcast by the server. It is immutable
// once received; a new Question fully replaces the prior one.
type Question struct {
	Index        int
	Total        int
	Text         string
	ImageURL     string
	Options      []string
	TimeLimitSec int
	ServerStart  int64 // server clock, milliseconds since epoch
}

// AnswerSubmission records the single answer sent for a question. Response
// time is derived from elapsed local time against the server-supplied limit.
type AnswerSubmission struct {
	QuestionIndex  int
	SelectedOption int
	ResponseTimeMs int
}

// PlayerResult is the server-computed outcome of one question for one player.
type PlayerResult struct {
	UserID  string `json:"userId"`
	Points  int    `json:"points"`
	Correct bool   `json:"correct"`
}

// LeaderboardEntry is one row of the ranked scoreboard snapshot.
type LeaderboardEntry struct {
	PlayerID    string `json:"userId"`
	DisplayName string `json:"name"`
	Score       int    `json:"totalScore"`
}

// QuestionResult bundles everything the server reports when a question
// closes. The client performs no scoring of its own beyond summing the
// per-player increments.
type QuestionResult struct {
	Leaderboard   []LeaderboardEntry
	PlayerResults []PlayerResult
	CorrectOption int
}

// Identity is a stored credential: the auth token plus the user it belongs to.
type Identity struct {
	Token       string `json:"token"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// LogLevel classifies session log entries.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogSuccess LogLevel = "success"
	LogError   LogLevel = "error"
)

// LogEntry is one line of the bounded session log. Purely observational;
// no component reads it to make a decision.
type LogEntry struct {
	Time    time.Time
	Message string
	Level   LogLevel
}
