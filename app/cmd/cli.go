package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/teleshop-app/teleshop/app/configs"
	"github.com/teleshop-app/teleshop/app/db/seeders"
	"github.com/teleshop-app/teleshop/app/models/migrations"
	"github.com/teleshop-app/teleshop/app/repositories"
	"github.com/teleshop-app/teleshop/app/services"
	"github.com/urfave/cli/v3"
)

func RunCli() {
	cmd := &cli.Command{
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed-categories",
				Usage: "Synchronize the category tree (CATEGORY_SYNC_STRATEGY selects reconcile or reset)",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					env := configs.LoadENV
					if err := seeders.SeedCategories(ctx, db, env.CATEGORY_SYNC_STRATEGY, env.APP_ENV); err != nil {
						return err
					}
					log.Println("✅ Category synchronization complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Fill the database with demo shops and products",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					env := configs.LoadENV
					if err := seeders.DBSeed(db, env.ADMIN_PASSWORD); err != nil {
						return err
					}
					log.Println("✅ Seeding complete")
					return nil
				},
			},
			{
				Name:  "cleanup-shops",
				Usage: "Purge shops whose soft-delete retention window has elapsed",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					env := configs.LoadENV
					svc := services.NewShopCleanupService(
						db,
						repositories.NewShopRepository(db),
						repositories.NewShopMemberRepository(db),
						repositories.NewProductRepository(db),
						repositories.NewCartItemRepository(db),
						repositories.NewOrderRepository(db),
						repositories.NewOrderItemRepository(db),
						repositories.NewImageRepository(db),
						repositories.NewCategoryRequestRepository(db),
						env.SHOP_RETENTION_DAYS,
					)
					fmt.Println(svc.RunCleanupJob(ctx))
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
