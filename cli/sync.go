// ABOUTME: Sync CLI commands
// ABOUTME: One-shot sync, the background daemon, and sync status display
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/netmon"
	"github.com/harperreed/fieldsync/sync"
)

// SyncNowCommand runs a single sync pass.
func SyncNowCommand(database *sql.DB, broker *db.Broker, cfg *sync.Config, args []string) error {
	fs := flag.NewFlagSet("now", flag.ExitOnError)
	_ = fs.Parse(args)

	monitor := netmon.New(cfg.Server)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	monitor.Start(ctx)

	// Give the first probe a moment to land
	deadline := time.Now().Add(6 * time.Second)
	for !monitor.Online() && time.Now().Before(deadline) {
		time.Sleep(200 * time.Millisecond)
	}
	if !monitor.Online() {
		fmt.Println("☁ Offline: sync deferred. Captured data stays queued locally.")
		return nil
	}

	engine := sync.NewEngine(database, sync.NewClient(cfg.Server, cfg.OwnerID), monitor, broker)
	if err := engine.Trigger(ctx); err != nil {
		return err
	}

	return printStatus(engine)
}

// SyncDaemonCommand runs the background sync loop until interrupted.
func SyncDaemonCommand(database *sql.DB, broker *db.Broker, cfg *sync.Config, args []string) error {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	interval := fs.Duration("interval", cfg.Interval(), "Sync interval (minimum 5s)")
	_ = fs.Parse(args)

	if *interval < sync.MinInterval {
		return fmt.Errorf("interval %s is below the %s minimum", *interval, sync.MinInterval)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("[daemon] received %s, shutting down", sig)
		cancel()
	}()

	monitor := netmon.New(cfg.Server)
	monitor.Start(ctx)

	engine := sync.NewEngine(database, sync.NewClient(cfg.Server, cfg.OwnerID), monitor, broker)

	log.Printf("[daemon] syncing against %s every %s", cfg.Server, *interval)
	err := sync.RunDaemon(ctx, engine, monitor.Events(), *interval)
	if err == context.Canceled {
		return nil
	}
	return err
}

// SyncStatusCommand prints the engine state and queue depths.
func SyncStatusCommand(database *sql.DB, broker *db.Broker, cfg *sync.Config, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	_ = fs.Parse(args)

	engine := sync.NewEngine(database, sync.NewClient(cfg.Server, cfg.OwnerID), offlineConn{}, broker)
	return printStatus(engine)
}

// offlineConn satisfies sync.Connectivity for read-only status queries.
type offlineConn struct{}

func (offlineConn) Online() bool { return false }

func printStatus(engine *sync.Engine) error {
	status, err := engine.Status()
	if err != nil {
		return fmt.Errorf("failed to read sync status: %w", err)
	}

	fmt.Printf("State: %s\n", status.State)
	if status.LastSync != nil {
		fmt.Printf("Last sync: %s\n", status.LastSync.Format(time.RFC3339))
	} else {
		fmt.Println("Last sync: never")
	}
	fmt.Printf("Pending leads: %d\n", status.PendingLeads)
	fmt.Printf("Pending queue entries: %d\n", status.PendingOutbox)
	fmt.Printf("Failed queue entries: %d\n", status.FailedOutbox)
	return nil
}
