// ABOUTME: Entry point for the fieldsync offline lead capture CLI
// ABOUTME: Routes subcommands, opens the local store, and loads sync config
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/harperreed/fieldsync/cli"
	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/sync"
)

const version = "0.1.0"

func main() {
	// Local .env can carry FIELDSYNC_SERVER / FIELDSYNC_USER_ID overrides
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/fieldsync/fieldsync.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("fieldsync version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	database, err := db.OpenDatabase(getDatabasePath(*dbPath))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *initOnly {
		log.Println("Database initialized successfully")
		os.Exit(0)
	}

	cfg, err := sync.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load sync config: %v", err)
	}

	broker := db.NewBroker()

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "capture":
		if err := cli.CaptureCommand(database, broker, cfg.OwnerID, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "scan":
		if err := cli.ScanCommand(database, broker, cfg.OwnerID, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "move":
		if err := cli.MoveCommand(database, broker, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "note":
		if err := cli.NoteCommand(database, broker, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "record":
		if err := cli.RecordCommand(database, broker, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "meet":
		if err := cli.MeetCommand(database, broker, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "pipeline":
		if err := cli.PipelineCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "leads":
		if err := cli.ListLeadsCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "show":
		if err := cli.ShowLeadCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "audio":
		if err := cli.AudioListCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "schedule":
		if err := cli.ScheduleCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "dash":
		if err := cli.DashCommand(database, broker, cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "stats":
		if err := cli.StatsCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "sync":
		if len(commandArgs) == 0 {
			fmt.Println("Error: sync requires a subcommand (now/daemon/status)")
			printUsage()
			os.Exit(1)
		}
		syncCommand := commandArgs[0]
		syncArgs := commandArgs[1:]

		switch syncCommand {
		case "now":
			if err := cli.SyncNowCommand(database, broker, cfg, syncArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "daemon":
			if err := cli.SyncDaemonCommand(database, broker, cfg, syncArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "status":
			if err := cli.SyncStatusCommand(database, broker, cfg, syncArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown sync command: %s\n\n", syncCommand)
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(xdg.DataHome, "fieldsync", "fieldsync.db")
}

func printUsage() {
	fmt.Printf(`fieldsync v%s - Offline-first lead capture

USAGE:
  fieldsync [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  -version        Show version and exit
  -db-path PATH   Database path (default: ~/.local/share/fieldsync/fieldsync.db)
  -init           Initialize database and exit

CAPTURE:
  capture -name NAME -phone PHONE [-email -company -role -location -notes -intent -mode -ticket-size -engagement]
  scan -file CARD.txt [-phone -mode]

PIPELINE:
  pipeline                         Leads grouped by stage ('!' marks overdue follow-ups)
  leads                            All leads, most recent first
  show -id UUID                    One lead with its timeline
  move -id UUID -stage STAGE [-reminder RFC3339]
  note -id UUID -text TEXT

MEDIA & MEETINGS:
  record -id UUID -file AUDIO      Store a voice memo and queue the upload
  audio                            Recording history
  meet -id UUID                    Schedule a meeting and queue the invitation
  schedule                         Scheduled meetings

DASHBOARD:
  dash                             Interactive pipeline board and sync panel
  stats                            ASCII pipeline and sync health overview

SYNC:
  sync now                         Run one sync pass
  sync daemon [-interval 30s]      Background sync loop
  sync status                      Engine state and queue depths

Captures always succeed locally; the sync engine uploads them when the
network allows. Configure the server in %s or via
FIELDSYNC_SERVER / FIELDSYNC_USER_ID / FIELDSYNC_SYNC_INTERVAL.
`, version, sync.ConfigPath())
}
