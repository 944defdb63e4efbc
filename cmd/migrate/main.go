package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	mongoMigration "innkeep/internal/migrations/mongo"
	"innkeep/pkg/config"

	"github.com/joho/godotenv"
)

const JobName = "mongo-migration"

func main() {
	seed := flag.Bool("seed", false, "seed the room catalog and demo accounts after migrating")
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	cfg.Log.Info("Starting Mongo migration job")
	defer cfg.GracefulShutdown()

	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if *seed {
		if err := mongoMigration.RunSeed(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
	}

	fmt.Println("Migration completed successfully.")
}
