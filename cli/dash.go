// ABOUTME: Interactive dashboard command
// ABOUTME: Launches the full-screen TUI with live store updates and sync controls
package cli

import (
	"context"
	"database/sql"
	"flag"

	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/netmon"
	"github.com/harperreed/fieldsync/sync"
	"github.com/harperreed/fieldsync/tui"
)

// DashCommand opens the interactive pipeline and sync dashboard.
func DashCommand(database *sql.DB, broker *db.Broker, cfg *sync.Config, args []string) error {
	fs := flag.NewFlagSet("dash", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := netmon.New(cfg.Server)
	monitor.Start(ctx)

	engine := sync.NewEngine(database, sync.NewClient(cfg.Server, cfg.OwnerID), monitor, broker)
	return tui.Run(database, broker, engine)
}
