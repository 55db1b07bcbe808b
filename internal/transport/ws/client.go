// Package ws owns the client side of the persistent socket. The connection
// is held exclusively here: every outbound operation goes through a single
// serialized writer, and every inbound frame is decoded and delivered on one
// event channel in arrival order.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"quiz-game-client/internal/domain"
	"quiz-game-client/internal/protocol"
)

const (
	writeTimeout   = 10 * time.Second
	maxMessageSize = 64 * 1024
)

// Client is a connected socket. Create one with Dial; it is not reusable
// after Close or transport loss — the owner re-mounts the session instead
// (there is no reconnect-with-resume in the server protocol).
type Client struct {
	id     string
	logger zerolog.Logger
	conn   *websocket.Conn

	writeMu   sync.Mutex
	closed    bool
	events    chan protocol.Event
	closeOnce sync.Once
}

// Dial establishes the transport and starts the read loop. On success the
// first event delivered is a synthetic "connected"; when the read loop exits
// for any reason a terminal "disconnected" is delivered and the channel is
// closed.
func Dial(ctx context.Context, url string, logger zerolog.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	id := uuid.New().String()
	c := &Client{
		id:     id,
		logger: logger.With().Str("connection_id", id[:8]).Logger(),
		conn:   conn,
		events: make(chan protocol.Event, 64),
	}
	conn.SetReadLimit(maxMessageSize)

	c.events <- protocol.Event{Type: protocol.EventConnected}
	go c.readLoop()

	c.logger.Info().Str("url", url).Msg("socket connected")
	return c, nil
}

// Events returns the inbound event stream. It is closed after the terminal
// disconnected event.
func (c *Client) Events() <-chan protocol.Event { return c.events }

func (c *Client) readLoop() {
	defer func() {
		c.events <- protocol.Event{Type: protocol.EventDisconnected}
		close(c.events)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn().Err(err).Msg("socket closed unexpectedly")
			}
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn().Err(err).Msg("dropping malformed frame")
			continue
		}
		c.events <- protocol.Event{Type: env.Type, Payload: env.Payload}
	}
}

func send[T any](c *Client, op string, payload T) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return fmt.Errorf("send %s: %w", op, domain.ErrConnectionClosed)
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(protocol.Outbound[T]{Type: op, Payload: payload}); err != nil {
		return fmt.Errorf("send %s: %w", op, err)
	}
	return nil
}

// Authenticate presents the stored token.
func (c *Client) Authenticate(token string) error {
	return send(c, protocol.OpAuthenticate, protocol.AuthenticatePayload{Token: token})
}

// JoinRoom requests membership in a room by code.
func (c *Client) JoinRoom(roomCode, playerName string) error {
	return send(c, protocol.OpJoinRoom, protocol.JoinRoomPayload{RoomCode: roomCode, PlayerName: playerName})
}

// StartGame asks the server to start the game for all players. Host only;
// the session gates this behind its role check.
func (c *Client) StartGame(roomID, quizID string) error {
	return send(c, protocol.OpStartGame, protocol.StartGamePayload{RoomID: roomID, QuizID: quizID})
}

// SubmitAnswer sends the single answer for the open question.
func (c *Client) SubmitAnswer(roomID string, questionIndex, selected, responseTimeMs int) error {
	return send(c, protocol.OpSubmitAnswer, protocol.SubmitAnswerPayload{
		RoomID:         roomID,
		QuestionIndex:  questionIndex,
		SelectedAnswer: selected,
		ResponseTime:   responseTimeMs,
	})
}

// TimeUp tells the server the local answer window elapsed with no selection.
func (c *Client) TimeUp(roomID string) error {
	return send(c, protocol.OpTimeUp, protocol.RoomRefPayload{RoomID: roomID})
}

// NextQuestion asks the server to advance. Host only.
func (c *Client) NextQuestion(roomID string) error {
	return send(c, protocol.OpNextQuestion, protocol.RoomRefPayload{RoomID: roomID})
}

// LeaveRoom notifies the server the player is leaving. Best effort: a closed
// socket is not an error here.
func (c *Client) LeaveRoom(roomCode string) error {
	if err := send(c, protocol.OpLeaveRoom, protocol.LeaveRoomPayload{RoomCode: roomCode}); err != nil {
		c.logger.Debug().Err(err).Msg("leave_room not delivered")
	}
	return nil
}

// Close tears the socket down. Idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		c.closed = true
		c.conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		_ = c.conn.Close()
		c.logger.Info().Msg("socket closed")
	})
	return nil
}
