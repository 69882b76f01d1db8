// Command eventbot runs the engine against a console front end: one line per
// update, replies printed back. Lines starting with "::" are delivered as
// menu selections, everything else as message text. The real chat transport
// plugs into the same Router the same way.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	eventbot "github.com/campusgram/eventbot"
	"github.com/campusgram/eventbot/backend"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	redisDB := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		redisDB = parsed
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: envOr("REDIS_ADDR", "localhost:6379"),
		DB:   redisDB,
	})
	defer rdb.Close()

	cfg := eventbot.Config{
		Session: eventbot.SessionConfig{
			RedisPrefix: envOr("REDIS_PREFIX", "et"),
			TTL:         time.Hour,
		},
		Backend: eventbot.BackendConfig{
			BaseURL: os.Getenv("API_URL"),
			Timeout: 10 * time.Second,
		},
		Flows: eventbot.FlowConfig{
			PrivilegedRole: envOr("PRIVILEGED_ROLE", "teacher"),
		},
		Audit: eventbot.AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("API_URL is required")
	}

	engine, err := eventbot.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithBackend(backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)).
		WithAuditSink(eventbot.NewJSONWriterSink(os.Stderr)).
		Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	chatID := int64(1)
	if raw := os.Getenv("CHAT_ID"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("CHAT_ID: %w", err)
		}
		chatID = parsed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := eventbot.NewRouter(engine)
	fmt.Println("eventbot console. Send /start to begin, ::data for a menu selection, Ctrl+D to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		upd := eventbot.Update{ChatID: chatID}
		if data, ok := cutChoice(line); ok {
			upd.Choice = data
		} else {
			upd.Text = line
		}

		reply, err := router.Dispatch(ctx, upd)
		if err != nil {
			log.Printf("dispatch: %v", err)
		}
		render(reply)

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
	return scanner.Err()
}

func cutChoice(line string) (string, bool) {
	if len(line) > 2 && line[:2] == "::" {
		return line[2:], true
	}
	return "", false
}

func render(reply *eventbot.Reply) {
	if reply == nil {
		return
	}
	for _, msg := range reply.Messages {
		fmt.Println(msg)
	}
	for _, choice := range reply.Choices {
		fmt.Printf("  [%s] ::%s\n", choice.Label, choice.Data)
	}
	switch reply.Menu {
	case eventbot.MenuMain:
		fmt.Println("  menu: Create event | Browse events | Profile | Log out")
	case eventbot.MenuRemove:
		fmt.Println("  menu: removed")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
