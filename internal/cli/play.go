package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-game-client/internal/app"
	"quiz-game-client/internal/auth"
	"quiz-game-client/internal/config"
	"quiz-game-client/internal/domain"
	inframemory "quiz-game-client/internal/infra/memory"
	infraredis "quiz-game-client/internal/infra/redis"
	"quiz-game-client/internal/transport/ws"
)

func newPlayCmd() *cobra.Command {
	var roomCode, quizID, guestName string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join a room and play a quiz session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if roomCode == "" {
				return fmt.Errorf("--room is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, cleanup, err := newCredStore(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			logger := newLogger()
			identity, err := resolveIdentity(cmd.Context(), store, guestName)
			if err != nil {
				return err
			}

			conn, err := ws.Dial(cmd.Context(), socketURL(cfg), logger)
			if err != nil {
				return err
			}

			session := app.New(app.Params{
				Conn:           conn,
				Identity:       identity,
				RoomCode:       strings.ToUpper(roomCode),
				QuizID:         quizID,
				Logger:         logger,
				Hooks:          renderHooks(cmd),
				CountdownFrom:  cfg.CountdownFrom(),
				StartGrace:     config.Duration(cfg.Game.StartGrace, 0),
				RevealDuration: config.Duration(cfg.Game.RevealDuration, 0),
				LogCapacity:    cfg.LogCapacity(),
			})
			session.Run()

			go readCommands(session)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-stop:
				session.Leave()
			case <-session.Done():
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&roomCode, "room", "", "room code to join")
	cmd.Flags().StringVar(&quizID, "quiz", "", "quiz id (host only, used for start_game)")
	cmd.Flags().StringVar(&guestName, "name", "", "display name when no stored credentials exist")
	return cmd
}

// readCommands maps stdin lines onto session operations: "start" begins the
// host countdown, a bare number answers the open question, "quit" leaves.
func readCommands(session *app.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "start":
			session.StartCountdown()
		case line == "quit":
			session.Leave()
			return
		default:
			if n, err := strconv.Atoi(line); err == nil {
				session.SelectOption(n)
			}
		}
	}
}

func renderHooks(cmd *cobra.Command) app.Hooks {
	out := cmd.OutOrStdout()
	return app.Hooks{
		OnCountdown: func(n int) {
			if n == 0 {
				fmt.Fprintln(out, "Go!")
				return
			}
			fmt.Fprintf(out, "%d...\n", n)
		},
		OnQuestion: func(q domain.Question) {
			fmt.Fprintf(out, "\nQuestion %d/%d: %s\n", q.Index+1, q.Total, q.Text)
			for i, opt := range q.Options {
				fmt.Fprintf(out, "  [%d] %s\n", i, opt)
			}
		},
		OnTick: func(remaining int) {
			if remaining > 0 && remaining <= 5 {
				fmt.Fprintf(out, "  %ds left\n", remaining)
			}
		},
		OnReveal: func(correct, gained int) {
			fmt.Fprintf(out, "correct answer: [%d]  (+%d points)\n", correct, gained)
		},
		OnLeaderboard: func(entries []domain.LeaderboardEntry) {
			for i, e := range entries {
				fmt.Fprintf(out, "  %d. %s  %d pts\n", i+1, e.DisplayName, e.Score)
			}
		},
		OnLog: func(e domain.LogEntry) {
			fmt.Fprintf(out, "[%s] %s\n", e.Level, e.Message)
		},
		OnFinished: func(final []domain.LeaderboardEntry, score int) {
			fmt.Fprintf(out, "\nGame over! Your score: %d\n", score)
			for i, e := range final {
				fmt.Fprintf(out, "  %d. %s  %d pts\n", i+1, e.DisplayName, e.Score)
			}
		},
	}
}

// resolveIdentity loads the stored identity. With no stored credentials and a
// guest name given, the session runs unauthenticated with that display name.
func resolveIdentity(ctx context.Context, store auth.Store, guestName string) (domain.Identity, error) {
	identity, err := store.Get(ctx)
	if errors.Is(err, domain.ErrNoCredentials) && guestName != "" {
		return domain.Identity{DisplayName: guestName}, nil
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("no stored credentials, run login first: %w", err)
	}
	return identity, nil
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func socketURL(cfg config.Config) string {
	if serverWS != "" {
		return serverWS
	}
	if cfg.Server.SocketURL != "" {
		return cfg.Server.SocketURL
	}
	return "ws://localhost:3000/socket"
}

func apiURL(cfg config.Config) string {
	if serverAPI != "" {
		return serverAPI
	}
	if cfg.Server.APIURL != "" {
		return cfg.Server.APIURL
	}
	return "http://localhost:3000/api"
}

func newCredStore(cfg config.Config) (auth.Store, func(), error) {
	if cfg.Credentials.Backend == "redis" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return infraredis.NewCredStore(client, "", 0), func() { _ = client.Close() }, nil
	}
	return inframemory.NewCredStore(), func() {}, nil
}
