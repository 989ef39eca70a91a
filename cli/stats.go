// ABOUTME: Dashboard stats command
// ABOUTME: Prints the ASCII pipeline and sync health overview
package cli

import (
	"database/sql"
	"flag"
	"fmt"

	"github.com/harperreed/fieldsync/viz"
)

// StatsCommand prints the dashboard overview.
func StatsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	_ = fs.Parse(args)

	stats, err := viz.GenerateDashboardStats(database)
	if err != nil {
		return err
	}

	fmt.Print(viz.RenderDashboard(stats))
	return nil
}
