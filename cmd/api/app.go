package main

import (
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/brunohenrique/storage-system/internal/adapter/api/controller"
	"github.com/brunohenrique/storage-system/internal/adapter/api/route"
	"github.com/brunohenrique/storage-system/internal/adapter/repository"
	"github.com/brunohenrique/storage-system/internal/infrastructure/database"
	salesvc "github.com/brunohenrique/storage-system/internal/service/sale"
	"github.com/brunohenrique/storage-system/internal/service/stock"
	"github.com/brunohenrique/storage-system/pkg/auth"
	"github.com/brunohenrique/storage-system/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App representa a aplicação e suas dependências
type App struct {
	router *gin.Engine
	db     *pgxpool.Pool
}

// NewApp cria uma nova instância do aplicativo
func NewApp() (*App, error) {
	log := logger.NewLogger()

	// Configurar banco de dados
	db, err := database.NewPostgresDB()
	if err != nil {
		return nil, err
	}

	// Criar repositórios
	basketRepo := repository.NewBasketRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Criar serviços
	reconciler := stock.NewReconciler(basketRepo, notificationRepo, log)
	saleService := salesvc.NewService(basketRepo, saleRepo, reconciler, feeRateFromEnv(), log)

	jwtService, err := auth.NewJWTService()
	if err != nil {
		return nil, err
	}

	// Criar controllers
	basketController := controller.NewBasketController(basketRepo, reconciler)
	saleController := controller.NewSaleController(saleService, saleRepo)
	notificationController := controller.NewNotificationController(notificationRepo)
	userController := controller.NewUserController(userRepo)
	sessionController := controller.NewSessionController(userRepo, jwtService, log)
	healthController := controller.NewHealthController()

	// Configurar router
	router := gin.Default()
	router.Use(gin.Recovery())

	// Configurar CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Documentação Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	// Rotas públicas
	api.GET("/health", healthController.Get)
	route.SetupSessionRoutes(api, sessionController)
	route.SetupSetupRoutes(api, userController)

	// Rotas protegidas por autenticação
	protected := api.Group("")
	protected.Use(auth.JWTAuthMiddleware(jwtService))

	route.SetupBasketRoutes(protected, basketController)
	route.SetupSaleRoutes(protected, saleController)
	route.SetupNotificationRoutes(protected, notificationController)
	route.SetupUserRoutes(protected, userController)

	return &App{
		router: router,
		db:     db,
	}, nil
}

// Start inicia o servidor HTTP
func (a *App) Start() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return a.router.Run(":" + port)
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// feeRateFromEnv lê a taxa de marketplace da variável de ambiente.
// Valores ausentes ou inválidos assumem o padrão do serviço de vendas.
func feeRateFromEnv() float64 {
	raw := os.Getenv("MARKETPLACE_FEE_RATE")
	if raw == "" {
		return salesvc.DefaultFeeRate
	}

	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 || rate >= 1 {
		return salesvc.DefaultFeeRate
	}

	return rate
}

// allowedOrigins lê as origens permitidas para CORS
func allowedOrigins() []string {
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		return []string{origins}
	}
	return []string{"http://localhost:3000"}
}
