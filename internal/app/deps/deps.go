package deps

import (
	"authfront/internal/config"
	dl "authfront/internal/core/domain/logging"
	drl "authfront/internal/core/domain/rate_limiter"
	duow "authfront/internal/core/domain/unit_of_work"
	"authfront/internal/core/domain/user"
	uow "authfront/internal/db/unit_of_work"
	dbuser "authfront/internal/db/user"
	"authfront/internal/implementations/email"
	"authfront/internal/implementations/logging"
	"authfront/internal/implementations/oauth"
	outboxtoken "authfront/internal/implementations/outbox_token"
	passwordhasher "authfront/internal/implementations/password_hasher"
	randomstringgenerator "authfront/internal/implementations/random_string_generator"
	ratelimiter "authfront/internal/implementations/rate_limiter"
	"authfront/internal/implementations/session"
	"authfront/internal/rabbitmq"
	passwordresetlink "authfront/internal/rabbitmq/publishers/password_reset_link"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/r3labs/sse/v2"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB        *pgxpool.Pool
	Redis     *redis.Client
	Rabbitmq  *rabbitmq.Connection
	SseServer *sse.Server

	Now func() time.Time

	UnitOfWork     duow.UnitOfWork
	UserRepository user.UserRepository

	RateLimiter drl.RateLimiter

	PasswordHasher               user.PasswordHasher
	PasswordResetSecretGenerator user.PasswordResetSecretGenerator
	PasswordResetLinkSender      user.PasswordResetLinkSender
	SessionTokenIssuer           user.SessionTokenIssuer
	OAuthProviders               oauth.Providers
	OAuthStateGenerator          *randomstringgenerator.Generator
	OutboxTokens                 *outboxtoken.HMAC
}

type closeFunc func()

// InitDeps builds everything the HTTP server needs. Reset links are queued
// to RabbitMQ when RABBITMQ_URL is set and sent inline otherwise.
func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()
	deps.Now = func() time.Time { return time.Now().UTC() }

	closeLogger := deps.initLogger()
	flushSentry := deps.initSentry()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()
	closeSseServer := deps.initSseServer()

	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)

	generator := randomstringgenerator.NewGenerator()
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.PasswordResetSecretGenerator = generator
	deps.OAuthStateGenerator = generator
	deps.SessionTokenIssuer = session.NewJWT(deps.Config.SessionSecret, deps.Now)
	deps.OAuthProviders = deps.initOAuthProviders()
	deps.OutboxTokens = outboxtoken.NewHMAC(deps.Config.Secret)

	closeRabbitmqConn := func() {}
	closePasswordResetLinkPublisher := func() {}
	if deps.Config.RabbitmqURL != "" {
		closeRabbitmqConn = deps.initRabbitmqConnection()
		closePasswordResetLinkPublisher = deps.initPasswordResetLinkPublisher()
	} else {
		deps.PasswordResetLinkSender = deps.InitEmailSender()
	}

	return deps, closeAll(
		closeSseServer,
		closePasswordResetLinkPublisher,
		closeRabbitmqConn,
		closeRedisClient,
		closePgxPool,
		closeLogger,
		flushSentry,
	)
}

// InitMailerDeps builds the dependencies of the queue consumer that
// delivers reset links.
func InitMailerDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()
	deps.Now = func() time.Time { return time.Now().UTC() }

	closeLogger := deps.initLogger()
	flushSentry := deps.initSentry()
	if deps.Config.RabbitmqURL == "" {
		deps.Logger.Error(context.Background(), "RABBITMQ_URL must be set for the mailer.")
		panic("RABBITMQ_URL must be set")
	}
	closeRabbitmqConn := deps.initRabbitmqConnection()
	deps.PasswordResetLinkSender = deps.InitEmailSender()

	return deps, closeAll(closeRabbitmqConn, closeLogger, flushSentry)
}

func closeAll(closeFuncs ...closeFunc) func() {
	return func() {
		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, fn := range closeFuncs {
			fn := fn
			go func() {
				fn()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	if deps.Config.EmailProvider != config.EmailProviderSES {
		return
	}
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() closeFunc {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() closeFunc {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() closeFunc {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() closeFunc {
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initPasswordResetLinkPublisher() closeFunc {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitmqPasswordResetQueue
	if err := rabbitmqChannel.DeclareQueue(queue); err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}

	deps.PasswordResetLinkSender = passwordresetlink.NewRabbitMQ(deps.Logger, rabbitmqChannel, queue, deps.Now)

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down password reset link publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "Password reset link publisher shut down.")
	}
}

// InitEmailSender returns the sender that actually delivers reset links.
func (deps *Deps) InitEmailSender() user.PasswordResetLinkSender {
	validMinutes := deps.Config.PasswordResetValidDurationMinutes
	switch deps.Config.EmailProvider {
	case config.EmailProviderSES:
		return email.NewSESSender(
			deps.AwsConfig,
			deps.Config.EmailSender,
			deps.Config.AwsEmailPasswordResetTemplate,
			validMinutes,
		)
	case config.EmailProviderPostmark:
		sender, err := email.NewPostmarkSender(
			deps.Config.PostmarkServerToken,
			deps.Config.PostmarkAccountToken,
			deps.Config.EmailSender,
			validMinutes,
		)
		if err != nil {
			panic(err)
		}
		return sender
	default:
		deps.Logger.Warning(
			context.Background(),
			"No email provider configured, reset links are only logged.",
		)
		return email.NewLogSender(deps.Logger, deps.SseServer)
	}
}

func (deps *Deps) initOAuthProviders() oauth.Providers {
	providers := make([]*oauth.Provider, 0, 2)
	if deps.Config.GoogleClientID != "" && deps.Config.GoogleClientSecret != "" {
		providers = append(providers, oauth.NewGoogle(
			deps.Config.GoogleClientID,
			deps.Config.GoogleClientSecret,
			deps.Config.OAuthRedirectURL(string(oauth.Google)),
		))
	}
	if deps.Config.FacebookClientID != "" && deps.Config.FacebookClientSecret != "" {
		providers = append(providers, oauth.NewFacebook(
			deps.Config.FacebookClientID,
			deps.Config.FacebookClientSecret,
			deps.Config.OAuthRedirectURL(string(oauth.Facebook)),
		))
	}
	for _, provider := range providers {
		deps.Logger.Info(context.Background(), "OAuth provider enabled.", dl.Entry("provider", provider.Name()))
	}
	return oauth.NewProviders(providers...)
}

func (deps *Deps) initSseServer() closeFunc {
	deps.SseServer = sse.New()
	deps.SseServer.AutoReplay = false
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down SSE server.")
		deps.SseServer.Close()
		deps.Logger.Info(context.Background(), "SSE server shut down.")
	}
}

func (deps *Deps) initSentry() closeFunc {
	if deps.Config.SentryDsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              deps.Config.SentryDsn,
			TracesSampleRate: 0.01,
		})
		if err != nil {
			panic(fmt.Sprintf("could not init Sentry: %v\n", err))
		}
		deps.Logger.Info(context.Background(), "Sentry has been successfully initialized.")
		return func() {
			ok := sentry.Flush(5 * time.Second)
			deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
		}
	}

	deps.Logger.Info(context.Background(), "Sentry is disabled.")
	return func() {}
}
