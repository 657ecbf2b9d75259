package config_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/roach88/scorebook/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
			convey.So(cfg.Format, convey.ShouldEqual, config.FormatText)
			convey.So(cfg.RulesFile, convey.ShouldBeEmpty)
			convey.So(cfg.Checkpoints, convey.ShouldBeTrue)
			convey.So(cfg.Metrics, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with an unknown format", t, func() {
		cfg := config.New()
		cfg.Format = "xml"

		convey.Convey("Then validation fails as invalid config", func() {
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a config with an unknown log level", t, func() {
		cfg := config.New()
		cfg.LogLevel = "loud"

		convey.Convey("Then validation fails and Level falls back to warn", func() {
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			convey.So(cfg.Level(), convey.ShouldEqual, slog.LevelWarn)
		})
	})
}

func TestParseLevel(t *testing.T) {
	convey.Convey("Given level names", t, func() {
		for name, want := range map[string]slog.Level{
			"debug":   slog.LevelDebug,
			"INFO":    slog.LevelInfo,
			"warning": slog.LevelWarn,
			"error":   slog.LevelError,
		} {
			l, err := config.ParseLevel(name)
			convey.So(err, convey.ShouldBeNil)
			convey.So(l, convey.ShouldEqual, want)
		}
	})
}
