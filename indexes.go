package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/SuperDex7/FeatureMe-sub000/database"
)

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes the server relies on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := context.Background()
			client, err := database.Connect(ctx, cfg.MongoURI)
			if err != nil {
				return err
			}
			defer client.Disconnect(ctx)

			if err := database.EnsureIndexes(ctx, client.Database(cfg.DBName)); err != nil {
				return err
			}
			log.Printf("indexes ready on %s", cfg.DBName)
			return nil
		},
	}
}
