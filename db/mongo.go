package db

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"yt-insight/cmd/internal/logger"
	"yt-insight/config"
)

var (
	clientOnce sync.Once
	client     *mongo.Client
	db         *mongo.Database
)

// Init initializes the global Mongo client and database using config values.
func Init(ctx context.Context) error {
	var initErr error
	clientOnce.Do(func() {
		cfg := config.GetConfig().Mongo

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		cl, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
		if err != nil {
			initErr = err
			return
		}
		// Ping to verify connection
		if err := cl.Ping(ctx, readpref.Primary()); err != nil {
			initErr = err
			return
		}
		client = cl
		db = client.Database(cfg.Database)

		if err := ensureIndexes(ctx, db); err != nil {
			initErr = err
			return
		}
		logger.Log.Info("MongoDB connected and indexes ensured")
	})
	return initErr
}

func Database() *mongo.Database { return db }

// Ping 은 헬스체크용으로 primary 에 ping 을 보낸다.
func Ping(ctx context.Context) error {
	return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Disconnect closes the global client if it was initialized.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	// videos, comments 는 _id 가 YouTube id 이므로 PK 유일성은 기본 _id 인덱스가 보장한다.

	// comments: (video_id, rank) for ordered join
	if _, err := d.Collection("comments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "video_id", Value: 1}, {Key: "rank", Value: 1}},
		Options: options.Index().SetName("idx_video_rank"),
	}); err != nil {
		return err
	}

	// analyses: 영상당 분석은 최대 1개
	if _, err := d.Collection("analyses").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "video_id", Value: 1}},
		Options: options.Index().SetName("uniq_video_id").SetUnique(true),
	}); err != nil {
		return err
	}

	// generation_logs: video_id, requested_at desc
	if _, err := d.Collection("generation_logs").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "video_id", Value: 1}, {Key: "requested_at", Value: -1}},
		Options: options.Index().SetName("idx_video_requested_at"),
	}); err != nil {
		return err
	}
	return nil
}
