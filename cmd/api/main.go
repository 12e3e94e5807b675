package main

import (
	"context"
	"log/slog"
	"os"

	"bookmarket/internal/config"
	"bookmarket/internal/domain/model"
	"bookmarket/internal/handler"
	"bookmarket/internal/infra/db"
	infraRepo "bookmarket/internal/infra/repository"
	"bookmarket/internal/server"
	"bookmarket/internal/session"
	"bookmarket/internal/upload"
	"bookmarket/internal/usecase"

	"github.com/joho/godotenv"
)

// 初回起動時に入れておく基本ジャンル
var baseCategories = []string{
	"Science Fiction",
	"Fantasy",
	"Detective",
	"Novel",
	"Classics",
	"Science",
	"Textbooks",
	"Children's Literature",
	"Poetry",
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// .envは無くてもいい（本番は環境変数で渡す）
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using environment")
	}

	cfg := config.Load()

	// DB接続
	gormDB, err := db.Connect()
	if err != nil {
		slog.Error("db connect failed", "error", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Book{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}

	// Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	bookRepo := infraRepo.NewBookGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	// ジャンルの初期投入
	if err := seedCategories(categoryRepo); err != nil {
		slog.Error("seed categories failed", "error", err)
		os.Exit(1)
	}

	// セッションスコープのカート（DBには置かない）
	carts := session.NewCartStore()

	// 表紙画像の保存先
	uploads := upload.NewStore(cfg.UploadDir)

	// Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, cfg.JWTSecret)
	catalogUC := usecase.NewCatalogUsecase(bookRepo, categoryRepo)
	bookUC := usecase.NewBookUsecase(txManager)
	cartUC := usecase.NewCartUsecase(bookRepo, carts)
	checkoutUC := usecase.NewCheckoutUsecase(txManager)
	orderUC := usecase.NewOrderUsecase(txManager)
	adminUC := usecase.NewAdminUsecase(txManager)

	// Handler生成
	h := server.Handlers{
		Auth:  handler.NewAuthHandler(authUC),
		Book:  handler.NewBookHandler(catalogUC, bookUC, uploads),
		Cart:  handler.NewCartHandler(cartUC, checkoutUC, carts),
		Order: handler.NewOrderHandler(orderUC),
		Admin: handler.NewAdminHandler(adminUC),
	}

	e := server.New(cfg, h)

	slog.Info("starting server", "addr", cfg.Port)
	if err := server.Start(e, cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func seedCategories(repo *infraRepo.CategoryGormRepository) error {
	ctx := context.Background()

	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, name := range baseCategories {
		if _, err := repo.Create(ctx, model.Category{Name: name}); err != nil {
			return err
		}
	}
	return nil
}
