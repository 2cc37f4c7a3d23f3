package preflight

import (
	"context"
	"fmt"

	"bookconv/internal/config"
	"bookconv/internal/services/calibre"
)

// CheckConverter runs the converter's --version probe and reports the
// version line it prints.
func CheckConverter(ctx context.Context, cfg *config.Config) Result {
	const name = "Converter"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	client, err := calibre.NewFromConfig(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	version, err := client.Version(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s not found! %s", client.Binary(), cfg.Converter.InstallHint)}
	}
	if version == "" {
		version = "available"
	}
	return Result{Name: name, Passed: true, Detail: version}
}
