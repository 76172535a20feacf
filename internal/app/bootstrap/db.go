// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	meetingstore "github.com/bmsit/facultymeet/internal/app/store/meetings"
	notificationstore "github.com/bmsit/facultymeet/internal/app/store/notifications"
	userstore "github.com/bmsit/facultymeet/internal/app/store/users"
	"github.com/bmsit/facultymeet/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection used by every store.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates collections, attaches JSON-Schema validators and
// builds the indexes every store relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	if err := validators.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure collections: %w", err)
	}

	if err := userstore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := meetingstore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("meeting indexes: %w", err)
	}
	if err := notificationstore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("notification indexes: %w", err)
	}

	logger.Info("schema ensured")
	return nil
}
