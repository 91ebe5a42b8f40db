package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/quizdeck/internal/core/config"
)

// ConfigCheck runs deep config validation and reports warnings.
type ConfigCheck struct {
	config     *config.Config
	configPath string
}

// NewConfigCheck creates a new config check.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{config: cfg, configPath: configPath}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	label := c.configPath
	if label == "" {
		label = "defaults"
	}

	err := c.config.ValidateDeep(c.configPath)
	var fieldErrs criterio.FieldErrors
	switch {
	case err == nil:
		result.Items = append(result.Items, CheckItem{Label: label, Status: StatusPass})
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			result.Items = append(result.Items, CheckItem{
				Label:  fe.Field,
				Status: StatusFail,
				Detail: fe.Err.Error(),
			})
		}
	default:
		result.Items = append(result.Items, CheckItem{
			Label:  label,
			Status: StatusFail,
			Detail: err.Error(),
		})
	}

	for _, w := range c.config.Warnings() {
		lbl := w.Category
		if w.Item != "" {
			lbl += " " + w.Item
		}
		result.Items = append(result.Items, CheckItem{
			Label:  lbl,
			Status: StatusWarn,
			Detail: w.Message,
		})
	}

	return result
}
