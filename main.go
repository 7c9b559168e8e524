package main

import (
	"context"
	"log"

	"hermexpress-io/api/configs"
	"hermexpress-io/api/controllers"
	"hermexpress-io/api/indexer"
	"hermexpress-io/api/routes"
)

func main() {
	// Initialize database connection
	configs.ConnectDB()

	if err := indexer.EnsureIndexes(context.Background(), configs.DB.Database("hermexpress")); err != nil {
		log.Fatal(err)
	}

	// Email delivery runs on a background worker pool.
	controllers.EmailPool.Start()
	defer controllers.EmailPool.Stop()

	router := routes.InitRoute()
	err := router.Run(":" + configs.LoadEnvOr("PORT", "8080"))

	if err != nil {
		println(err.Error())
		return
	}
}
