package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/rondo/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

// Env manipulation happens before each Convey tree, never inside a branch:
// goconvey re-executes the whole tree once per leaf, and t.Setenv lasts for
// the test function, so a Setenv in one branch would leak into its siblings.

func TestLoadDefaults(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then defaults win", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.FormatSize, ShouldEqual, 5)
		})
	})
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RONDO_ADDR", ":7070")
	t.Setenv("RONDO_HALF_LENGTH_SEC", "1200")

	Convey("Given env vars overriding defaults", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the env values win", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.HalfLengthSec, ShouldEqual, 1200)
		})
	})
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rondo.yaml")
	body := "addr: \":6060\"\nformat_size: 9\nsnapshot_path: /tmp/game.json\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RONDO_CONFIG", path)

	Convey("Given a config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then file values layer over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.FormatSize, ShouldEqual, 9)
			So(cfg.SnapshotPath, ShouldEqual, "/tmp/game.json")
		})
	})
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rondo.yaml")
	body := "addr: \":6060\"\nformat_size: 9\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RONDO_CONFIG", path)
	t.Setenv("RONDO_ADDR", ":5050")

	Convey("Given both a config file and an env override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env beats the file while other file values hold", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":5050")
			So(cfg.FormatSize, ShouldEqual, 9)
		})
	})
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("RONDO_CONFIG", "/nonexistent/rondo.yaml")

	Convey("Given a config file path that does not exist", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails with the load sentinel", func() {
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}

func TestLoadInvalidFormatSize(t *testing.T) {
	t.Setenv("RONDO_FORMAT_SIZE", "7")

	Convey("Given an unsupported format size in the environment", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then validation rejects it", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
