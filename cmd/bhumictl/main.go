// bhumictl is the ops companion to the API server: index management,
// plan seeding, and admin promotion, run against the same MONGOURI/DB
// environment the server uses.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/config"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:   "bhumictl",
		Short: "Operational tasks for the listing marketplace backend",
	}
	rootCmd.AddCommand(indexesCmd(), seedPlansCmd(), makeAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func withDB(run func(ctx context.Context) error) error {
	client, err := config.ConnectDB()
	if err != nil {
		return err
	}
	defer config.CloseDBConnection(client)
	config.InitCollections(client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return run(ctx)
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the indexes the workflow depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context) error {
				err := storage.EnsureIndexes(ctx,
					config.UserCollection, config.PropertyCollection, config.AppointmentCollection)
				if err != nil {
					return err
				}
				fmt.Println("Indexes ensured")
				return nil
			})
		},
	}
}

func seedPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-plans",
		Short: "Insert the default plan set if no plans exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context) error {
				n, err := storage.NewPlanStore(config.PlanCollection).SeedDefaults(ctx)
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Println("Plans already present, nothing seeded")
				} else {
					fmt.Printf("Seeded %d plans\n", n)
				}
				return nil
			})
		},
	}
}

func makeAdminCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "make-admin",
		Short: "Grant the admin role to a user by email",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context) error {
				users := storage.NewUserStore(config.UserCollection, config.PlanCollection)
				if err := users.Promote(ctx, email); err != nil {
					return err
				}
				fmt.Printf("Granted admin role to %s\n", email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user to promote")
	cmd.MarkFlagRequired("email")
	return cmd
}
