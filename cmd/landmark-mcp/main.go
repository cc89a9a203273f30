package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/radial-sequencer/internal/config"
	"github.com/ironsheep/radial-sequencer/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("landmark-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("landmark-mcp - MCP server for radial landmark sequencing")
			fmt.Println()
			fmt.Println("Usage: landmark-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  LANDMARK_MCP_LOG_LEVEL=debug      Enable debug logging")
			fmt.Println("  LANDMARK_INPUT_DIR, LANDMARK_OUTPUT_DIR, LANDMARK_PREDICTIONS_DIR")
			fmt.Println("                                    Default folders for landmark_process_folder")
			fmt.Println("  LANDMARK_DB_PATH                  SQLite store for folder runs")
			fmt.Println("  LANDMARK_WORKERS                  Images processed in parallel")
			fmt.Println("  LANDMARK_LABEL_LANDMARK, LANDMARK_LABEL_ANCHOR, LANDMARK_LABEL_CENTER")
			fmt.Println("                                    Detector label names (MTD, B-MT, CP)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if server.DebugEnabled() {
		log.Printf("Landmark MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg := config.Load()
	if err := cfg.Labels().Validate(); err != nil {
		log.Fatalf("Invalid label configuration: %v", err)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
