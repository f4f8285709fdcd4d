// migrate applies the embedded SQL migrations: go run ./cmd/migrate -direction up
package main

import (
	"flag"
	"fmt"
	"os"

	"salty-fish/pkg/database"
	"salty-fish/pkg/utils"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	config, err := utils.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := database.Migrate(config.Database.DSN(), *direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	fmt.Printf("migrations applied (%s)\n", *direction)
}
