package main

import (
	"flag"
	"fmt"
	"os"

	"smiledesk/internal/database"

	"github.com/sirupsen/logrus"
)

var dbPath = flag.String("db", "smiledesk.db", "Path to the SQLite database")

// Applies the schema to a fresh or existing database and exits. Useful
// for provisioning before first start and in CI.
func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	db, err := database.New(*dbPath)
	if err != nil {
		logger.Errorf("Migration failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Printf("Database schema applied: %s\n", *dbPath)
}
