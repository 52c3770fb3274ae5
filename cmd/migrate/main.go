package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Dosada05/swiss-tables/db"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if *down > 0 {
		if err := db.MigrateDown(dsn, *down); err != nil {
			log.Fatal(err)
		}
		log.Printf("rolled back %d migration(s)", *down)
		return
	}

	applied, err := db.MigrateUp(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if applied {
		log.Println("database migrations applied")
	} else {
		log.Println("database schema is up to date")
	}
}
