package main

import (
	"github.com/spf13/cobra"

	"hilmetrics/internal/dashboard"
)

var dashboardOut string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render Grafana dashboards for the latency table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboard.Render(dashboardOut)
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "build", "Output directory for rendered dashboards")
	rootCmd.AddCommand(dashboardCmd)
}
