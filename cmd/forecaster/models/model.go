package models

import (
	"log/slog"
	"os"

	"github.com/epiforge/epicurve/cmd/forecaster/config"
	"github.com/epiforge/epicurve/pkg/models"
)

// New selects the curve variant named in the config.
// The variant carries its own default bounds and seed.
func New(cfg *config.Config, logger *slog.Logger) models.Curve {
	switch cfg.Model {
	case "simple_exp":
		logger.Info("using simple exponential growth model")
		return models.SimpleExp

	case "cont_exp":
		logger.Info("using continuous exponential growth model")
		return models.ContExp

	case "simple_decline":
		logger.Info("using simple exponential decline model")
		return models.SimpleDecline

	case "cont_decline":
		logger.Info("using continuous exponential decline model")
		return models.ContDecline

	default:
		logger.Error("invalid model type", "model", cfg.Model)
		os.Exit(1)
	}

	return models.Curve{}
}
