package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/crease/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad value each", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"an unknown store", func(c *config.Config) { c.Store = "sqlite" }},
			{"postgres without a dsn", func(c *config.Config) { c.Store = config.StorePostgres }},
			{"redis without an addr", func(c *config.Config) { c.Store, c.RedisAddr = config.StoreRedis, "" }},
			{"no workers", func(c *config.Config) { c.WorkerCount = 0 }},
			{"no queue", func(c *config.Config) { c.QueueSize = 0 }},
			{"a negative dedupe size", func(c *config.Config) { c.DedupeSize = -1 }},
			{"an unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
		}

		for _, tc := range cases {
			convey.Convey("When validating "+tc.name, func() {
				cfg := config.New()
				tc.mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
