package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-labyrinth/api"
	"github.com/beka-birhanu/vinom-labyrinth/api/identity"
	"github.com/beka-birhanu/vinom-labyrinth/api/labyrinthapi"
	"github.com/beka-birhanu/vinom-labyrinth/config"
	"github.com/beka-birhanu/vinom-labyrinth/infrastruture/cache"
	logger "github.com/beka-birhanu/vinom-labyrinth/infrastruture/log"
	"github.com/beka-birhanu/vinom-labyrinth/infrastruture/repo"
	"github.com/beka-birhanu/vinom-labyrinth/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-labyrinth/infrastruture/token"
	pb "github.com/beka-birhanu/vinom-labyrinth/labyrinth/pb_encoder"
	"github.com/beka-birhanu/vinom-labyrinth/service"
	"github.com/beka-birhanu/vinom-labyrinth/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const redisPrefix = "labyrinth"

// Global variables for dependencies
var (
	mongoClient         *mongo.Client
	redisClient         *redis.Client
	userRepo            *repo.UserRepo
	labyrinthRepo       *repo.LabyrinthRepo
	jobRepo             *repo.JobRepo
	jwtTokenizer        i.Tokenizer
	authService         i.Authenticator
	labyrinthService    *service.Labyrinths
	jobService          *service.Jobs
	authController      api.Controller
	labyrinthController api.Controller
	router              *api.Router
	appLogger           i.Logger
)

func newLogger(prefix, color string) i.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	return l
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Envs.RedisHost, config.Envs.RedisPort),
		Password: config.Envs.RedisPass,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initRepos(ctx context.Context) {
	userRepo = repo.NewUserRepo(mongoClient, config.Envs.DBName, "users")
	labyrinthRepo = repo.NewLabyrinthRepo(mongoClient, config.Envs.DBName, "labyrinths")
	jobRepo = repo.NewJobRepo(mongoClient, config.Envs.DBName, "labyrinth_jobs")

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Warning(fmt.Sprintf("Creating user indexes: %v", err))
	}
	if err := labyrinthRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Warning(fmt.Sprintf("Creating labyrinth indexes: %v", err))
	}
	appLogger.Info("Repositories initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(userRepo, jwtTokenizer)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating auth service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func initLabyrinthService() {
	labyrinthCache := cache.NewRedisCache(redisClient, redisPrefix, config.Envs.CacheTTLSeconds)

	var err error
	labyrinthService, err = service.NewLabyrinthService(labyrinthRepo, labyrinthCache, newLogger("LABYRINTH", config.ColorCyan), &service.LabyrinthOptions{
		MaxDimension: config.Envs.LabyrinthMaxDimension,
		MaxAttempts:  config.Envs.LabyrinthMaxAttempts,
		Speculative:  config.Envs.LabyrinthSpeculative,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating labyrinth service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Labyrinth service initialized")
}

func initJobService() {
	queue := sortedstorage.NewRedisSortedQueue(redisClient)

	var err error
	jobService, err = service.NewJobService(queue, jobRepo, labyrinthService, newLogger("JOBS", config.ColorMagenta), &service.JobOptions{
		Prefix:   redisPrefix,
		Batch:    int64(config.Envs.WorkerBatch),
		Interval: time.Duration(config.Envs.WorkerIntervalMS) * time.Millisecond,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating job service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Job service initialized")
}

func initControllers() {
	authController = identity.NewIdentityServer(authService)

	var err error
	labyrinthController, err = labyrinthapi.NewController(labyrinthService, jobService, &pb.Protobuf{})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating labyrinth controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Controllers initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api.Controller{authController, labyrinthController},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	initMongo(startCtx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	initRedis(startCtx)
	defer redisClient.Close()

	initRepos(startCtx)
	initJWTTokenizer()
	initAuthService()
	initLabyrinthService()
	initJobService()
	initControllers()
	initRouter(jwtTokenizer)

	go jobService.Run(ctx)

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		os.Exit(1)
	}
}
