package main

import (
	"fmt"

	"github.com/sandevgo/nanobridge/internal/config"
	"github.com/sandevgo/nanobridge/internal/core"
	"github.com/sandevgo/nanobridge/internal/providers/engine"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show engine availability and the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		appCfg := config.NewAppConfig(ctx)
		convCfg := config.NewConversationConfig(ctx)
		engCfg := config.NewEngineConfig(ctx)

		gen, err := engine.NewGenerator(ctx, appCfg, engCfg)
		if err != nil {
			return err
		}

		status := "available"
		if avail, ok := gen.(core.Availability); ok {
			if err := avail.Check(ctx); err != nil {
				status = fmt.Sprintf("unavailable: %v", err)
			}
		} else {
			status = "unknown"
		}

		fmt.Printf("%s %s\n", core.AppName, core.AppVersion)
		fmt.Printf("engine:         %s (%s)\n", appCfg.Engine, engCfg.Model)
		fmt.Printf("status:         %s\n", status)
		fmt.Printf("turn limit:     %d\n", convCfg.TurnLimit)
		fmt.Printf("context budget: %d tokens\n", convCfg.ContextBudget)
		fmt.Printf("runtime path:   %s\n", appCfg.GetRuntimePath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
