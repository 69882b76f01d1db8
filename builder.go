package eventbot

import (
	"errors"
	"time"

	"github.com/campusgram/eventbot/flow"
	"github.com/campusgram/eventbot/session"
	"github.com/redis/go-redis/v9"
)

// Builder wires an [Engine] from its dependencies. All clients are injected
// here once at startup; nothing in the package reaches for ambient globals.
type Builder struct {
	config  Config
	redis   redis.UniversalClient
	backend Backend
	sink    AuditSink
	now     func() time.Time

	built bool
}

func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithBackend(backend Backend) *Builder {
	b.backend = backend
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithClock overrides the engine's time source. Tests use it to pin the
// guard's expiry comparisons and the date suggestions.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.backend == nil {
		return nil, errors.New("backend client is required")
	}

	cfg := b.config
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = time.Hour
	}
	if cfg.Flows.PrivilegedRole == "" {
		cfg.Flows.PrivilegedRole = "teacher"
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	b.built = true

	return &Engine{
		config:  cfg,
		store:   session.NewStore(b.redis, cfg.Session.RedisPrefix, cfg.Session.TTL),
		backend: b.backend,
		flows:   flow.NewMachine(),
		audit:   newAuditDispatcher(cfg.Audit, b.sink),
		now:     now,
	}, nil
}
