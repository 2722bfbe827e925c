package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"filialen/config"
	_ "filialen/docs" // registra o documento servido em /swagger
	"filialen/internal/api/branch"
	"filialen/internal/api/router"
	"filialen/internal/pkg/cache"
	"filialen/internal/pkg/database"
	"filialen/internal/pkg/logger"
	"filialen/internal/repository/branchrepo"
	"filialen/internal/service/branchservice"
)

func main() {
	// 0. Variáveis de ambiente (.env é opcional; em Docker tudo vem do ambiente)
	if err := godotenv.Load(); err != nil {
		log.Println("Aviso: arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuração inválida: %v", err)
	}
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	ctx := context.Background()

	// 1. Banco de Dados (PostgreSQL)
	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
	db, err := database.NewPostgresDB(pingCtx, cfg.DatabaseURL, database.DefaultPoolConfig())
	cancel()
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// 2. Cache (Redis), opcional
	var cacheClient cache.Client
	if cfg.CacheEnabled() {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			appLog.Warn("Redis indisponível, seguindo sem cache e sem rate limit.", map[string]interface{}{"error": err.Error()})
		} else {
			defer redisClient.Close()
			cacheClient = redisClient
			appLog.Info("Conexão Redis estabelecida.", map[string]interface{}{"addr": cfg.RedisAddr})
		}
	}

	// 3. Injeção de dependências: Repository -> Service -> Handler
	branchRepo := branchrepo.NewBranchRepository(db, cfg.DBTimeout, appLog)

	var opts []branchservice.Option
	if cacheClient != nil {
		opts = append(opts, branchservice.WithCache(cacheClient, cfg.CacheTTL))
	}
	branchSvc := branchservice.NewService(branchRepo, database.NewTxManager(db), appLog, opts...)
	branchHandler := branch.NewHandler(branchSvc, appLog, cfg.PublicBaseURL)
	appLog.Debug("Camadas de filialen inicializadas.", nil)

	// 4. Roteador e servidor
	r := router.NewRouter(branchHandler, appLog, router.RateLimit{
		Client:      cacheClient,
		MaxRequests: cfg.RateLimitMaxRequests,
		Period:      cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLog.Info("Servidor de filialen ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
