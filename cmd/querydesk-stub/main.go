// cmd/querydesk-stub/main.go
package main

import (
	"fmt"

	"querydesk/config"
	"querydesk/internal/logger"
	"querydesk/internal/stub"
)

var (
	customLog = logger.NewLogger()
)

func main() {
	customLog.Println("Starting querydesk stub backend...")

	cfg, err := config.LoadConfig()
	if err != nil {
		customLog.Fatalf("Failed to load configuration: %v", err)
	}

	router := stub.SetupRouter(stub.NewServer())

	customLog.Printf("Stub backend listening on port %s", cfg.StubPort)
	if err := router.Run(fmt.Sprintf(":%s", cfg.StubPort)); err != nil {
		customLog.Fatalf("Failed to start stub backend: %v", err)
	}
}
