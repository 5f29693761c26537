package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/config"
	"github.com/iliyamo/educare-hub/internal/database"
	"github.com/iliyamo/educare-hub/internal/repository"
	"github.com/iliyamo/educare-hub/internal/repository/memrepo"
	"github.com/iliyamo/educare-hub/internal/repository/mongorepo"
	"github.com/iliyamo/educare-hub/internal/repository/mysqlrepo"
)

// openStore connects the backing store selected by cfg.Driver and prepares
// its indexes or schema.
func openStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (repository.Store, error) {
	switch cfg.Driver {
	case "mongo":
		client, err := database.OpenMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		s := mongorepo.New(client, cfg.MongoDatabase)
		ictx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		if err := s.EnsureIndexes(ictx); err != nil {
			_ = s.Close(context.Background())
			return nil, err
		}
		log.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))
		return s, nil

	case "mysql":
		db, err := database.Open(ctx, database.MySQLOptions{
			User: cfg.MySQLUser,
			Pass: cfg.MySQLPass,
			Host: cfg.MySQLHost,
			Port: cfg.MySQLPort,
			Name: cfg.MySQLName,
		})
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("connected to mysql", zap.String("database", cfg.MySQLName))
		return mysqlrepo.New(db), nil

	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		return memrepo.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
