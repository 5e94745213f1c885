package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/rondo/internal/adapters/repository"
	"github.com/okian/rondo/internal/domain/planner"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleState() planner.State {
	return planner.State{
		Version:       planner.CurrentStateVersion,
		NowSec:        120,
		HalfLengthSec: 1500,
		Positions:     []string{"Keeper", "Defense", "Midfield Left", "Midfield Right", "Forward"},
		KeeperIndex:   0,
		Available:     []string{"Ada", "Ben"},
		Players: []planner.PlayerState{
			{Name: "Ada", Arrival: 0, Events: []planner.EventState{
				{State: "bench", TimeSec: 0, Assignment: -1},
				{State: "keeper", TimeSec: 0, Assignment: 0},
			}},
			{Name: "Ben", Arrival: 1, Events: []planner.EventState{
				{State: "bench", TimeSec: 0, Assignment: -1},
			}},
		},
		Assignments: []planner.AssignmentState{
			{Player: "Ada", Position: "Keeper", TimeSec: 0, Executed: true},
		},
		Boundary: 1,
		ShiftSec: 300,
	}
}

func TestFileStore(t *testing.T) {
	Convey("Given a file store in a temp directory", t, func() {
		path := filepath.Join(t.TempDir(), "game.json")
		store := repository.NewFileStore(path)
		ctx := context.Background()

		Convey("When no snapshot was ever saved", func() {
			_, err := store.Load(ctx)

			Convey("Then load reports ErrNoSnapshot", func() {
				So(err, ShouldEqual, repository.ErrNoSnapshot)
			})
		})

		Convey("When a snapshot is saved and loaded", func() {
			So(store.Save(ctx, sampleState()), ShouldBeNil)
			got, err := store.Load(ctx)

			Convey("Then the round trip preserves the state", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, sampleState())
			})

			Convey("And a later save replaces it", func() {
				next := sampleState()
				next.NowSec = 900
				So(store.Save(ctx, next), ShouldBeNil)

				got, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(got.NowSec, ShouldEqual, 900)
			})
		})

		Convey("When the file holds garbage", func() {
			So(os.WriteFile(path, []byte("not json"), 0o600), ShouldBeNil)
			_, err := store.Load(ctx)

			Convey("Then load reports an invalid snapshot", func() {
				So(err, ShouldWrap, repository.ErrInvalidSnapshot)
			})
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()

		Convey("When nothing was saved", func() {
			_, err := store.Load(ctx)

			Convey("Then load reports ErrNoSnapshot", func() {
				So(err, ShouldEqual, repository.ErrNoSnapshot)
			})
		})

		Convey("When a snapshot round-trips", func() {
			So(store.Save(ctx, sampleState()), ShouldBeNil)
			got, err := store.Load(ctx)

			Convey("Then the state survives intact", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, sampleState())
			})
		})
	})
}
