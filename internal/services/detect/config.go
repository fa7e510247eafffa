package detect

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"ZoneFlow/internal/domain/models"
	domsvc "ZoneFlow/internal/domain/service"
	applogger "ZoneFlow/pkg/logger"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Config holds detector configuration for the closed strategy set. Strategy
// selects the variant; the remaining fields bind the columns and thresholds
// that variant needs.
type Config struct {
	Strategy       string   `yaml:"strategy" json:"strategy" default:"zero_crossing" validate:"required,oneof=zero_crossing threshold_band line_crossing"`
	IndicatorCol   string   `yaml:"indicator_col" json:"indicator_col"`
	UpperThreshold *float64 `yaml:"upper_threshold" json:"upper_threshold"`
	LowerThreshold *float64 `yaml:"lower_threshold" json:"lower_threshold"`
	Line1Col       string   `yaml:"line1_col" json:"line1_col"`
	Line2Col       string   `yaml:"line2_col" json:"line2_col"`

	// MinZoneLength discards undersized zones at the sequence edges.
	// Interior zones are always kept; dropping them would silently merge
	// opposite regimes. KeepShortEdges retains undersized edge zones.
	MinZoneLength  int  `yaml:"min_zone_length" json:"min_zone_length" default:"1" validate:"gte=0"`
	KeepShortEdges bool `yaml:"keep_short_edges" json:"keep_short_edges"`
}

// New builds a detector from cfg, applying defaults and validating fail-fast.
// Configuration problems surface as ConfigError before any frame is scanned.
func New(cfg Config, l *applogger.Logger) (domsvc.ZoneDetector, error) {
	if err := defaults.Set(&cfg); err != nil {
		return nil, &models.ConfigError{Param: "config", Message: "apply defaults", Err: err}
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, &models.ConfigError{Param: "strategy", Message: err.Error(), Err: err}
	}

	switch cfg.Strategy {
	case domsvc.StrategyZeroCrossing:
		if cfg.IndicatorCol == "" {
			return nil, models.NewConfigError("indicator_col", "required for zero_crossing")
		}
		return &ZeroCrossing{cfg: cfg, l: l}, nil
	case domsvc.StrategyThresholdBand:
		if cfg.IndicatorCol == "" {
			return nil, models.NewConfigError("indicator_col", "required for threshold_band")
		}
		if cfg.UpperThreshold == nil || cfg.LowerThreshold == nil {
			return nil, models.NewConfigError("upper_threshold/lower_threshold", "both required for threshold_band")
		}
		if *cfg.UpperThreshold <= *cfg.LowerThreshold {
			return nil, models.NewConfigError("upper_threshold",
				fmt.Sprintf("must exceed lower_threshold (%g <= %g)", *cfg.UpperThreshold, *cfg.LowerThreshold))
		}
		return &ThresholdBand{cfg: cfg, l: l}, nil
	case domsvc.StrategyLineCrossing:
		if cfg.Line1Col == "" || cfg.Line2Col == "" {
			return nil, models.NewConfigError("line1_col/line2_col", "both required for line_crossing")
		}
		return &LineCrossing{cfg: cfg, l: l}, nil
	default:
		return nil, models.NewConfigError("strategy", "unknown strategy "+cfg.Strategy)
	}
}
