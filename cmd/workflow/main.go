package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"go-upwork-automation/internal/workflow"
)

func usage() {
	log.Fatal("usage: workflow deploy <workflow.json> | workflow export <dir>")
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 3 {
		usage()
	}

	baseURL := os.Getenv("N8N_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5678"
	}
	client := workflow.NewClient(baseURL, os.Getenv("N8N_API_KEY"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "deploy":
		log.Printf("🚀 Deploying workflow from %s...", os.Args[2])
		wf, err := client.Deploy(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("❌ Failed to deploy workflow: %v", err)
		}
		if err := client.Activate(ctx, wf.ID); err != nil {
			log.Printf("⚠️ Deployed but failed to activate: %v", err)
		}
		log.Printf("✅ Workflow deployed! ID: %s, name: %s", wf.ID, wf.Name)

	case "export":
		log.Println("📦 Exporting workflows...")
		files, err := client.ExportAll(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("❌ Failed to export workflows: %v", err)
		}
		for _, f := range files {
			log.Printf("  📄 Exported: %s", f)
		}
		log.Printf("✅ Exported %d workflows to %s", len(files), os.Args[2])

	default:
		usage()
	}
}
