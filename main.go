package main

import (
	"battlefeed/assets"
	"battlefeed/cache"
	"battlefeed/feeds"
	"battlefeed/server"
	"battlefeed/storage"
	"battlefeed/storage/db"
	"battlefeed/tasks"
	"battlefeed/utils"
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	logLevel, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = log.WarnLevel
	}
	log.SetLevel(logLevel)

	ctx := context.Background()
	connectionPool, err := pgxpool.New(
		ctx,
		fmt.Sprintf(
			"user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
			os.Getenv("DB_USERNAME"),
			os.Getenv("DB_PASSWORD"),
			"battlefeed",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
		),
	)
	if err != nil {
		panic(err)
	}
	if err := db.CreateSchema(ctx, connectionPool); err != nil {
		panic(err)
	}
	queries := db.New(connectionPool)

	redisOptions := redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: "", // no password set
		DB:       0,  // use default DB
	}
	viewersCache := cache.NewViewersCache(&redisOptions)
	feedCache := cache.NewFeedCache(&redisOptions)

	storageManager := storage.NewManager(queries)
	projector := feeds.NewProjector(storageManager, feedCache)

	source := assets.NewRPCSource(
		os.Getenv("LEDGER_RPC_URL"),
		os.Getenv("ASSET_STRUCT_TYPE"),
		utils.IntFromString(os.Getenv("ASSET_LIST_LIMIT"), 50),
	)

	// Projection refresher
	refreshSeconds := utils.IntFromString(os.Getenv("PROJECTION_REFRESH_SECONDS"), 30)
	go utils.Recoverer(math.MaxInt, 1, func() {
		tasks.RefreshProjection(projector, time.Duration(refreshSeconds)*time.Second)
	})

	s := server.NewServer(
		storageManager,
		projector,
		viewersCache,
		source,
		utils.IntFromString(os.Getenv("SERVER_PORT"), 3333),
	)
	s.Run()
}
