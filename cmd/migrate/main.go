package main

import (
	"flag"
	"log"

	"travel/cfg"
	"travel/pkg/db"
	"travel/pkg/logger"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	config, err := cfg.Load()
	if err != nil {
		log.Fatal(err)
	}
	zlogger := logger.NewZeroLog(config.AppEnv)

	pg := config.Postgres
	dsn := db.PostgresDSN(pg.User, pg.Password, pg.Host, pg.Port, pg.DBName, pg.SSLMode)

	if *down > 0 {
		if err := db.Rollback(pg.MigrationsDir, dsn, *down); err != nil {
			log.Fatal(err)
		}
		zlogger.Info("migrations rolled back", logger.Field{Key: "steps", Value: *down})
		return
	}

	if err := db.Migrate(pg.MigrationsDir, dsn); err != nil {
		log.Fatal(err)
	}
	zlogger.Info("migrations applied", logger.Field{Key: "dir", Value: pg.MigrationsDir})
}
