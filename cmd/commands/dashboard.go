package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucchesi-sec/nscan/internal/dashboard"
	"github.com/lucchesi-sec/nscan/internal/orchestrator"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the scan dashboard's HTTP surface",
	RunE:  runDashboard,
}

func init() {
	dashboardCmd.Flags().String("listen", ":8080", "address to listen on")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("listen")

	registry := dashboard.NewRegistry(orchestrator.Run, 24*time.Hour)
	server := dashboard.NewServer(registry)

	fmt.Fprintln(os.Stderr, "dashboard listening on", addr)
	return server.Run(cmd.Context(), addr)
}
