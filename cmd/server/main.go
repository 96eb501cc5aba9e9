// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"farm-assist-go/internal/config"
	"farm-assist-go/internal/handler"
	"farm-assist-go/internal/middleware"
	"farm-assist-go/internal/model"
	"farm-assist-go/internal/pipeline"
	"farm-assist-go/internal/repository"
	"farm-assist-go/internal/service"
	"farm-assist-go/pkg/database"
	"farm-assist-go/pkg/es"
	"farm-assist-go/pkg/events"
	"farm-assist-go/pkg/google"
	"farm-assist-go/pkg/kafka"
	"farm-assist-go/pkg/llm"
	"farm-assist-go/pkg/log"
	"farm-assist-go/pkg/storage"
	"farm-assist-go/pkg/token"
	"farm-assist-go/pkg/weather"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	configPath := os.Getenv("FARM_CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}
	config.Init(configPath)
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")
	if cfg.JWT.Secret == "" {
		log.Fatalf("jwt.secret 未配置，请设置 FARM_JWT_SECRET")
	}

	// 3. 初始化数据库和 Redis
	database.InitDB(cfg.Database.Driver, cfg.Database.DSN)
	if err := database.Migrate(database.DB,
		&model.User{}, &model.ChatMessage{}, &model.SoilReading{},
		&model.WaterTip{}, &model.PaddyInfo{}, &model.FarmingTip{},
	); err != nil {
		log.Fatal("数据库迁移失败", err)
	}
	database.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	bgCtx, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()

	// 4. 初始化 Repository
	userRepository := repository.NewUserRepository(database.DB)
	conversationRepo := newConversationRepository(cfg.Conversation.Store)
	statsRepo := repository.NewStatsRepository(database.RDB)

	// 5. 初始化外部依赖：搜索索引、对象存储、模型、Google 登录
	contentIndex := newContentIndex(cfg.Elasticsearch)
	imageStore := newImageStore(bgCtx, cfg.MinIO)
	llmClient := llm.NewClient(cfg.LLM)
	if llmClient == nil {
		log.Warnf("外部模型未启用，所有回答都将使用固定回答")
	}
	verifier, err := google.NewVerifier(cfg.Google.ClientID)
	if err != nil {
		log.Warnf("Google 登录未配置: %v", err)
		verifier = nil
	}

	// 6. 助手事件：Kafka 开启时异步发送并由消费者汇总，否则在进程内直接汇总
	processor := pipeline.NewProcessor(statsRepo)
	var publisher events.Publisher
	var producer *kafka.Producer
	var consumers sync.WaitGroup
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka)
		publisher = producer
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			kafka.StartConsumer(bgCtx, cfg.Kafka, database.RDB, processor)
		}()
	} else {
		publisher = events.NewInlinePublisher(processor, func(err error) {
			log.Warnw("助手统计写入失败", "error", err)
		})
	}

	// 7. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	userService := service.NewUserService(userRepository, repository.NewTokenBlacklistRepository(database.RDB), verifier, jwtManager, cfg.Auth)
	chatService := service.NewChatService(llmClient, conversationRepo, publisher, service.ChatServiceConfig{
		MaxQuestionLength: cfg.Assistant.MaxQuestionLength,
		ModelTimeout:      time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})
	contentService := service.NewContentService(repository.NewContentRepository(database.DB), contentIndex, imageStore)
	if cfg.Database.Seed {
		seedCtx, cancelSeed := context.WithTimeout(bgCtx, 30*time.Second)
		if err := contentService.Seed(seedCtx); err != nil {
			log.Errorf("初始化内容失败: %v", err)
		}
		cancelSeed()
	}

	services := handler.Services{
		JWTManager:   jwtManager,
		User:         userService,
		Chat:         chatService,
		Conversation: service.NewConversationService(conversationRepo),
		Weather: service.NewWeatherService(
			repository.NewWeatherCacheRepository(database.RDB),
			weather.NewClient(cfg.Weather),
			time.Duration(cfg.Weather.CacheMaxAgeMins)*time.Minute,
		),
		Soil:    service.NewSoilService(repository.NewSoilRepository(database.DB)),
		Content: contentService,
		Admin:   service.NewAdminService(statsRepo, userRepository),
	}

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery(), middleware.CORS(cfg.CORS.AllowOrigins))

	// 9. 注册路由
	handler.RegisterRoutes(r, services)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}

	// HTTP 关闭后不再有新事件，先停消费者再刷新生产者缓冲
	cancelBg()
	consumers.Wait()
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Errorf("关闭 Kafka 生产者失败: %v", err)
		}
	}
	if err := database.RDB.Close(); err != nil {
		log.Errorf("关闭 Redis 连接失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}

func newConversationRepository(store string) repository.ConversationRepository {
	switch store {
	case repository.ConversationStoreRedis:
		log.Info("对话记录存储于 Redis")
		return repository.NewRedisConversationRepository(database.RDB)
	case repository.ConversationStoreMemory:
		log.Warnf("对话记录存储于进程内存，重启后丢失")
		return repository.NewMemoryConversationRepository()
	default:
		return repository.NewConversationRepository(database.DB)
	}
}

// newContentIndex 未启用或连接失败时返回 nil，搜索改用数据库。
func newContentIndex(esCfg config.ElasticsearchConfig) es.ContentIndex {
	if !esCfg.Enabled {
		return nil
	}
	client, err := es.NewClient(esCfg)
	if err != nil {
		log.Errorf("Elasticsearch 初始化失败，内容搜索将使用数据库: %v", err)
		return nil
	}
	return es.NewContentIndex(client, esCfg.IndexName)
}

// newImageStore 未启用或初始化失败时返回 nil，内容保留原始 imageUrl。
func newImageStore(ctx context.Context, minioCfg config.MinIOConfig) storage.ImageStore {
	if !minioCfg.Enabled {
		return nil
	}
	client, err := storage.NewMinIOClient(minioCfg)
	if err != nil {
		log.Errorf("MinIO 初始化失败: %v", err)
		return nil
	}
	ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := storage.EnsureBucket(ensureCtx, client, minioCfg.BucketName); err != nil {
		log.Warnf("检查 MinIO 存储桶失败，仍使用预签名地址: %v", err)
	}
	return storage.NewImageStore(client, minioCfg)
}
