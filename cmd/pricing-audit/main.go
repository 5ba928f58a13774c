package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/JLucGM/backend-pos-sub004/internal/audit"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		cfg, err := audit.LoadConfig()
		if err != nil {
			return err
		}
		return audit.Run(ctx, lg, cfg)
	})
}
