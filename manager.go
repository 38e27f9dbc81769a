package dataManager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/siherrmann/dataManager/database"
	"github.com/siherrmann/dataManager/handler"
	"github.com/siherrmann/dataManager/helper"
	"github.com/siherrmann/dataManager/model"
	"github.com/siherrmann/dataManager/snapshot"

	"github.com/labstack/echo/v4"
	qh "github.com/siherrmann/queuer/helper"
)

// ManagerServer initializes the manager handler, sets up routes, and runs the
// Echo server until SIGINT or SIGTERM.
func ManagerServer(port string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := qh.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(qh.NewPrettyHandler(os.Stdout, opts))
	slog.SetDefault(logger)

	mh, closeStore, err := InitManagerHandler(logger)
	if err != nil {
		log.Fatalf("Failed to initialize manager handler: %v", err)
	}
	defer closeStore()

	e := echo.New()
	e.HideBanner = true
	SetupRoutes(e, mh)

	go func() {
		err := e.Start(":" + port)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down data manager server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = e.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error("Failed to shut down server", "error", err)
	}
}

// InitManagerHandler creates the snapshot filesystem and the row store from the
// environment, loads the seed file if DATA_MANAGER_SEED_JSON is set, and returns
// the manager handler together with a function releasing the row store.
func InitManagerHandler(logger *slog.Logger) (*handler.ManagerHandler, func(), error) {
	// Create filesystem from environment variables
	filesystem, err := snapshot.CreateFilesystemFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create filesystem: %w", err)
	}

	rowDB, closeStore, err := newRowStoreFromEnv(logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create row store: %w", err)
	}

	// Load rows from JSON file if path is provided
	seedJSONPath := helper.GetEnvOrDefault("DATA_MANAGER_SEED_JSON", "")
	if seedJSONPath != "" {
		err := loadSeedFromJSON(seedJSONPath, rowDB, logger)
		if err != nil {
			logger.Warn("Failed to load seed from JSON file", "file", seedJSONPath, "error", err)
		}
	}

	return handler.NewManagerHandler(filesystem, rowDB, logger), closeStore, nil
}

// newRowStoreFromEnv selects the row store with DATA_MANAGER_ROW_STORE
// (postgres or memory) and puts a read cache in front of it when
// DATA_MANAGER_CACHE_MAX_ROWS is positive.
func newRowStoreFromEnv(logger *slog.Logger) (database.RowDBHandlerFunctions, func(), error) {
	var rowDB database.RowDBHandlerFunctions
	closers := []func(){}

	switch mode := helper.GetEnvOrDefault("DATA_MANAGER_ROW_STORE", "postgres"); mode {
	case "memory":
		rowDB = database.NewRowDBHandlerMemory()
	case "postgres":
		config := helper.NewDatabaseConfigurationFromEnv()
		db, err := helper.OpenDatabase("row", config, logger)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { db.Instance.Close() })

		rowDB, err = database.NewRowDBHandler(db, helper.GetEnvOrDefault("DATA_MANAGER_DB_DROP_TABLES", "false") == "true")
		if err != nil {
			db.Instance.Close()
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unsupported row store: %s", mode)
	}

	maxRows := helper.GetEnvIntOrDefault("DATA_MANAGER_CACHE_MAX_ROWS", 0)
	if maxRows > 0 {
		cached, err := database.NewRowDBHandlerCached(rowDB, maxRows)
		if err != nil {
			for _, closeFn := range closers {
				closeFn()
			}
			return nil, nil, err
		}
		rowDB = cached
		closers = append([]func(){cached.Close}, closers...)
		logger.Info("Row cache enabled", "max_rows", maxRows)
	}

	return rowDB, func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}, nil
}

func loadSeedFromJSON(filePath string, rowDB database.RowDBHandlerFunctions, logger *slog.Logger) error {
	// #nosec G304 -- Accepting file path from env variable is intentional and controlled.
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	var seed model.Seed
	err = json.Unmarshal(data, &seed)
	if err != nil {
		return err
	}

	tables := make([]string, 0, len(seed))
	for table := range seed {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		err := rowDB.ReplaceRows(table, seed[table])
		if err != nil {
			logger.Warn("Failed to seed table", "table", table, "error", err)
			continue
		}
		logger.Info("Table seeded from JSON", "table", table, "rows", len(seed[table]))
	}

	logger.Info("Finished loading seed from JSON", "file", filePath, "tables", len(tables))
	return nil
}
