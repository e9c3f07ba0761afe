package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/config"
	app "github.com/oksasatya/go-blog-api/internal/application"
	repo "github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/internal/infrastructure/cache"
	"github.com/oksasatya/go-blog-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-blog-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-blog-api/internal/infrastructure/search"
	gcsinfra "github.com/oksasatya/go-blog-api/internal/infrastructure/storage"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
	"github.com/oksasatya/go-blog-api/pkg/mailer"
	"github.com/oksasatya/go-blog-api/pkg/mailer/templates"
)

// Container owns the process-wide components. It is built once in main and passed down explicitly.
// Optional clients (Redis, GCS, Elasticsearch, RabbitMQ) are nil when not configured.
type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger

	Pool   *pgxpool.Pool
	Redis  *redis.Client
	GCS    *storage.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher

	JWT     *helpers.JWTManager
	Cookies *helpers.Manager

	Users  repo.UserRepository
	Posts  repo.PostRepository
	Ledger app.TokenLedger
	Mailer app.Mailer
	Index  app.PostIndex
	Images app.ImageStore

	Auth     *app.AuthService
	PostsSvc *app.PostService
}

// New connects the configured backends and wires the services.
// On error every backend opened so far is closed.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (c *Container, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c = &Container{
		Cfg:     cfg,
		Logger:  logger,
		JWT:     helpers.NewJWTManager(cfg.JWTSecret),
		Cookies: helpers.NewCookie(cfg.CookieName, cfg.CookieDomain, cfg.CookieSecure),
	}
	defer func() {
		if err != nil {
			c.Close()
			c = nil
		}
	}()

	if err = c.initStorage(ctx); err != nil {
		return nil, err
	}
	if err = c.initRedis(ctx); err != nil {
		return nil, err
	}
	if err = c.initMail(); err != nil {
		return nil, err
	}
	if err = c.initSearch(); err != nil {
		return nil, err
	}
	if err = c.initImages(ctx); err != nil {
		return nil, err
	}

	c.Wire()
	return c, nil
}

// Wire (re)builds the services from the current components, so tests can swap one in first.
func (c *Container) Wire() {
	var ledger app.TokenLedger
	if c.Cfg.SingleUseActionTokens {
		ledger = c.Ledger
	}
	c.Auth = app.NewAuthService(c.Users, c.JWT, c.Mailer, ledger, c.Logger, app.AuthConfig{
		SessionTTL:     c.Cfg.SessionTTL,
		ActionTokenTTL: c.Cfg.ActionTokenTTL,
		BcryptCost:     c.Cfg.BcryptCost,
		VerifyURL:      c.Cfg.VerifyEmailURL,
		ResetURL:       c.Cfg.ResetPasswordURL,
	})
	c.PostsSvc = app.NewPostService(c.Posts, c.Users, c.Index, c.Images, c.Logger)
}

// Limiter returns the Redis client for rate limiting, or nil when limits are off.
func (c *Container) Limiter() redis.Cmdable {
	if c.Redis == nil || !c.Cfg.RateLimitEnabled {
		return nil
	}
	return c.Redis
}

func (c *Container) Close() {
	c.Rabbit.Close()
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}

func (c *Container) initStorage(ctx context.Context) error {
	switch c.Cfg.StorageDriver {
	case config.StorageMemory:
		users := memory.NewUserRepository()
		c.Users = users
		c.Posts = memory.NewPostRepository(users)
		c.Logger.Warn("using in-memory storage; data is lost on restart")
		return nil
	default:
		pool, err := pginfra.NewPool(ctx, c.Cfg.PostgresDSN(), c.Cfg.DBMaxConns, c.Cfg.DBMinConns, c.Cfg.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.Pool = pool
		c.Users = pginfra.NewUserRepository(pool)
		c.Posts = pginfra.NewPostRepository(pool)
		return nil
	}
}

func (c *Container) initRedis(ctx context.Context) error {
	if !c.Cfg.RedisEnabled {
		c.Ledger = memory.NewTokenLedger()
		return nil
	}
	rdb, err := helpers.NewRedisClient(ctx, c.Cfg.RedisAddr, c.Cfg.RedisPassword, c.Cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	c.Redis = rdb
	c.Ledger = cache.NewTokenLedger(rdb)
	return nil
}

func (c *Container) initMail() error {
	var d mailer.Dispatcher
	switch {
	case !c.Cfg.MailSendEnabled || c.Cfg.MailTransport == config.MailTransportLog:
		d = mailer.LogDispatcher{Logger: c.Logger}
	case c.Cfg.MailTransport == config.MailTransportDirect:
		d = mailer.DirectDispatcher{Sender: mailer.NewMailgun(c.Cfg.MailgunDomain, c.Cfg.MailgunAPIKey, c.Cfg.MailgunSender)}
	default:
		pub, err := helpers.NewRabbitPublisher(c.Cfg.RabbitMQURL, c.Cfg.RabbitMQEmailQueue)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		c.Rabbit = pub
		d = pub
	}
	brand := templates.Brand{AppName: c.Cfg.AppName, SupportURL: c.Cfg.SupportURL}
	c.Mailer = mailer.NewGateway(d, brand, c.Cfg.ActionTokenTTL)
	return nil
}

func (c *Container) initSearch() error {
	addrs := c.Cfg.ESAddrs()
	if len(addrs) == 0 {
		return nil
	}
	es, err := helpers.NewESClient(addrs, c.Cfg.ElasticsearchUser, c.Cfg.ElasticsearchPass)
	if err != nil {
		return fmt.Errorf("init elasticsearch: %w", err)
	}
	c.ES = es
	c.Index = search.NewPostIndex(es, c.Cfg.ESPostsIndex)
	return nil
}

func (c *Container) initImages(ctx context.Context) error {
	if c.Cfg.GCSBucket == "" {
		return nil
	}
	client, err := helpers.NewGCSClient(ctx, c.Cfg.GCSCredentialsJSONPath)
	if err != nil {
		return fmt.Errorf("init gcs: %w", err)
	}
	c.GCS = client
	c.Images = gcsinfra.NewImageStore(client, c.Cfg.GCSBucket, c.Cfg.MaxImageBytes)
	return nil
}
