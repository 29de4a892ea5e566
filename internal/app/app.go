package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/drstein77/foodwizz/internal/backup"
	"github.com/drstein77/foodwizz/internal/catalog"
	"github.com/drstein77/foodwizz/internal/config"
	"github.com/drstein77/foodwizz/internal/controllers"
	"github.com/drstein77/foodwizz/internal/dbkeeper"
	"github.com/drstein77/foodwizz/internal/logger"
	"github.com/drstein77/foodwizz/internal/settings"
	"github.com/drstein77/foodwizz/internal/storage"
	"github.com/drstein77/foodwizz/internal/watcher"
	"go.uber.org/zap"
)

type Server struct {
	mx      sync.Mutex
	srv     *http.Server
	ctx     context.Context
	option  *config.Options
	storage *storage.MemoryStorage
	backup  *backup.Scheduler
	watcher *watcher.Watcher
	done    chan struct{}
	Log     *logger.Logger
}

// NewServer creates a new Server instance with the provided context.
// Flags are parsed and the logger is ready before Serve is called.
func NewServer(ctx context.Context) *Server {
	server := new(Server)
	server.ctx = ctx
	server.done = make(chan struct{})

	// create and initialize a new option instance
	server.option = config.NewOptions()
	server.option.ParseFlags()

	// get a new logger
	nLogger, err := logger.NewLogger(server.option.LogLevel(), server.option.LogFile())
	if err != nil {
		log.Fatalln(err)
	}
	server.Log = nLogger

	return server
}

// Serve wires the catalog services and blocks until the server has been shut down
func (server *Server) Serve() {
	option := server.option

	// the mirror stays disabled unless a database is configured and reachable
	var keeper storage.Keeper
	if kp := dbkeeper.NewDBKeeper(server.ctx, option.DataBaseDSN, option.MigrationsDir(), server.Log); kp != nil {
		keeper = kp
	}

	policy := catalog.Policy{StrictPrice: option.StrictPrice()}
	catalogFile := catalog.NewFileKeeper(option.CatalogFile())
	memoryStorage := storage.NewMemoryStorage(server.ctx, catalogFile, policy, keeper, option.LowStockThreshold(), server.Log)
	userData := settings.NewStore(option.UserDataFile(), server.Log)

	scheduler := backup.NewScheduler(option.BackupDir(), memoryStorage, server.Log)
	if userData.Get().AutoBackup && option.BackupSchedule() != "" {
		if err := scheduler.Start(server.ctx, option.BackupSchedule()); err != nil {
			server.Log.Warn("backups not scheduled", zap.Error(err))
		}
	}

	var fileWatcher *watcher.Watcher
	if option.WatchCatalog() {
		w, err := watcher.New(catalogFile.Path(), memoryStorage, server.Log)
		if err == nil {
			if err = w.Start(server.ctx); err != nil {
				w.Stop()
			}
		}
		if err != nil {
			server.Log.Warn("catalog file is not watched", zap.Error(err))
		} else {
			fileWatcher = w
		}
	}

	// create router and mount routes
	basecontr := controllers.NewBaseController(memoryStorage, userData, scheduler, server.Log)

	server.mx.Lock()
	server.storage = memoryStorage
	server.backup = scheduler
	server.watcher = fileWatcher
	server.srv = &http.Server{
		Addr:    option.RunAddr(),
		Handler: basecontr.Route(),
	}
	srv := server.srv
	server.mx.Unlock()

	if products, err := memoryStorage.GetAllProducts(server.ctx); err == nil {
		server.Log.Info("catalog ready", zap.Int("products", len(products)), zap.String("file", catalogFile.Path()))
	}

	server.Log.Info("Running server", zap.String("address", option.RunAddr()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		server.Log.Error("server stopped", zap.Error(err))
		server.release()
		return
	}

	// wait for Shutdown to release the background jobs
	<-server.done
}

// Shutdown stops background jobs and drains the HTTP server within timeout
func (server *Server) Shutdown(timeout time.Duration) {
	server.mx.Lock()
	srv := server.srv
	server.mx.Unlock()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			server.Log.Error("Server shutdown error", zap.Error(err))
		}
	}

	server.release()
	server.Log.Info("Server has shut down successfully")
	_ = server.Log.Sync()
	close(server.done)
}

func (server *Server) release() {
	server.mx.Lock()
	defer server.mx.Unlock()

	if server.watcher != nil {
		server.watcher.Stop()
		server.watcher = nil
	}
	if server.backup != nil {
		server.backup.Stop()
		server.backup = nil
	}
	if server.storage != nil {
		server.storage.Close()
		server.storage = nil
	}
}
