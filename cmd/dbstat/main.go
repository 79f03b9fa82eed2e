// Command dbstat prints the row count of every application table. It reads
// DATABASE_URL the same way the API does.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"jobboard-backend/config"
	"jobboard-backend/internal/repository/postgres"
	"jobboard-backend/pkg/database"
	"jobboard-backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger.Init(cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.Options{
		MaxConns:       2,
		MinConns:       1,
		SimpleProtocol: cfg.DBSimpleProtocol,
	})
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	counts, err := postgres.NewAdminRepository(pool).TableCounts(ctx)
	if err != nil {
		logger.Log.Error("Failed to count rows", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tROWS")
	for _, tc := range counts {
		fmt.Fprintf(w, "%s\t%d\n", tc.Table, tc.Count)
	}
	w.Flush()
}
