package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mockchat/mockchat/config"
	"mockchat/mockchat/controllers"
	"mockchat/mockchat/routes"
	"mockchat/mockchat/sources/psql"
	"mockchat/mockchat/sources/psql/dao"
	"mockchat/mockchat/sources/storage"
	"mockchat/mockchat/sources/store"
	"mockchat/mockchat/utils/logging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.LoadConfig()
	if err := logging.InitLogger(cfg.LogDir, cfg.LogConsole); err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.ErrorLogger.Error("server exited", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "postgres", "sqlite":
		db, err := psql.NewDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return dao.NewConversationDAO(db.DB), nil
	case "bolt":
		return store.NewBoltStore(cfg.BoltPath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func openAttachments(ctx context.Context, cfg config.Config) (storage.Attachments, error) {
	switch cfg.UploadBackend {
	case "", "local":
		return storage.NewLocalAttachments(cfg.UploadDir)
	case "minio":
		return storage.NewMinIOAttachments(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.UploadBackend)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := openStore(openCtx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	files, err := openAttachments(openCtx, cfg)
	if err != nil {
		return fmt.Errorf("open upload storage: %w", err)
	}
	expirer := storage.NewExpirer(files, cfg.UploadTTL)
	defer expirer.Close()

	handler := routes.NewRouter(cfg, routes.Controllers{
		Chat:   controllers.NewChatController(st, cfg),
		Upload: controllers.NewUploadController(files, expirer, cfg.UploadMaxBytes),
		Auth:   controllers.NewAuthController(cfg),
		Health: controllers.NewHealthController(cfg.StoreBackend),
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.AppLogger.Info("mockchat listening",
			zap.String("addr", srv.Addr),
			zap.String("scope", cfg.Scope),
			zap.String("store", cfg.StoreBackend),
			zap.String("uploads", cfg.UploadBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logging.AppLogger.Info("server shutdown complete")
		return nil
	})
	return g.Wait()
}
