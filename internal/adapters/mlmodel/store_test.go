package mlmodel_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/healthwatch/riskd/internal/adapters/mlmodel"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStore_Load(t *testing.T) {
	Convey("Given a model directory without an artifact", t, func() {
		dir := t.TempDir()
		store := mlmodel.New(dir, "health_risk_model.bin")

		Convey("When loading", func() {
			err := store.Load(context.Background())

			Convey("Then the missing artifact is not an error", func() {
				So(err, ShouldBeNil)
				So(store.Loaded(), ShouldBeFalse)

				_, ok := store.Info()
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a model directory with an artifact", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "health_risk_model.bin")
		So(os.WriteFile(path, []byte("weights"), 0o600), ShouldBeNil)

		store := mlmodel.New(dir, "health_risk_model.bin")

		Convey("When loading", func() {
			err := store.Load(context.Background())

			Convey("Then the artifact metadata should be recorded", func() {
				So(err, ShouldBeNil)
				So(store.Loaded(), ShouldBeTrue)

				info, ok := store.Info()
				So(ok, ShouldBeTrue)
				So(info.Path, ShouldEqual, path)
				So(info.Size, ShouldEqual, int64(len("weights")))
				So(info.LoadedAt, ShouldHappenWithin, time.Minute, time.Now())
			})
		})

		Convey("When the artifact is removed and loaded again", func() {
			So(store.Load(context.Background()), ShouldBeNil)
			So(os.Remove(path), ShouldBeNil)
			So(store.Load(context.Background()), ShouldBeNil)

			Convey("Then the store should report unloaded", func() {
				So(store.Loaded(), ShouldBeFalse)
			})
		})
	})
}

func TestStore_Watch(t *testing.T) {
	Convey("Given a watched model directory", t, func() {
		dir := t.TempDir()
		store := mlmodel.New(dir, "health_risk_model.bin")
		So(store.Load(context.Background()), ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- store.Watch(ctx) }()

		Convey("When the artifact appears on disk", func() {
			// Give the watcher a beat to register before writing.
			time.Sleep(50 * time.Millisecond)
			path := filepath.Join(dir, "health_risk_model.bin")
			So(os.WriteFile(path, []byte("weights"), 0o600), ShouldBeNil)

			Convey("Then the store should pick it up", func() {
				deadline := time.Now().Add(2 * time.Second)
				for !store.Loaded() && time.Now().Before(deadline) {
					time.Sleep(10 * time.Millisecond)
				}
				So(store.Loaded(), ShouldBeTrue)

				cancel()
				So(<-done, ShouldBeNil)
			})
		})

		Convey("When the context is cancelled", func() {
			cancel()

			Convey("Then the watcher should return cleanly", func() {
				So(<-done, ShouldBeNil)
			})
		})
	})
}
