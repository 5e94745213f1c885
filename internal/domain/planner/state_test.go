package planner_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/planner"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshotRoundTrip(t *testing.T) {
	Convey("Given a game with executed history and a projected tail", t, func() {
		p := newGame("Ada", "Ben", "Cleo", "Dan", "Eli", "Fay")
		p.ComputePlan()
		for _, a := range p.Plan()[:5] {
			So(p.ExecuteAssignments([]model.SubstitutionRequest{
				{Player: a.Player, Position: a.Position, TimeSec: a.TimeSec},
			}), ShouldBeNil)
		}
		p.Tick(120)
		So(p.StageNext("Fay", "Keeper"), ShouldBeNil)

		Convey("When the state is serialized and restored into a new planner", func() {
			raw, err := json.Marshal(p.Snapshot())
			So(err, ShouldBeNil)

			var state planner.State
			So(json.Unmarshal(raw, &state), ShouldBeNil)
			So(state.Version, ShouldEqual, planner.CurrentStateVersion)

			restored := planner.New(fiveASide())
			So(restored.RestoreFrom(state), ShouldBeNil)

			Convey("Then the restored planner answers like the original", func() {
				So(restored.NowSec(), ShouldEqual, p.NowSec())
				So(restored.Boundary(), ShouldEqual, p.Boundary())
				So(restored.Plan(), ShouldResemble, p.Plan())
				So(restored.ShiftSeconds(), ShouldEqual, p.ShiftSeconds())
				So(restored.Positions(), ShouldResemble, p.Positions())

				availA, unavailA := p.Roster()
				availB, unavailB := restored.Roster()
				So(availB, ShouldResemble, availA)
				So(unavailB, ShouldResemble, unavailA)
			})

			Convey("And fairness history survived the trip", func() {
				want, err := p.Fairness("Ada")
				So(err, ShouldBeNil)
				got, err := restored.Fairness("Ada")
				So(err, ShouldBeNil)
				So(got, ShouldResemble, want)
			})

			Convey("And the staged keeper survived the trip", func() {
				name, ok, err := restored.StagedNext("Keeper")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(name, ShouldEqual, "Fay")
			})

			Convey("And execution continues seamlessly after restore", func() {
				next := restored.Plan()[restored.Boundary()]
				So(restored.ExecuteAssignments([]model.SubstitutionRequest{
					{Player: next.Player, Position: next.Position, TimeSec: next.TimeSec},
				}), ShouldBeNil)
				So(restored.Boundary(), ShouldEqual, p.Boundary()+1)
			})
		})
	})
}

func TestRestoreValidation(t *testing.T) {
	Convey("Given a valid snapshot", t, func() {
		p := newGame("Ada", "Ben", "Cleo", "Dan", "Eli")
		p.ComputePlan()
		good := p.Snapshot()

		restoreFails := func(mutate func(*planner.State)) {
			s := good
			mutate(&s)
			target := newGame("Ada", "Ben", "Cleo", "Dan", "Eli")
			target.Tick(42)
			So(target.RestoreFrom(s), ShouldEqual, planner.ErrInvalidState)
			// A failed restore leaves the target untouched.
			So(target.NowSec(), ShouldEqual, 42)
		}

		Convey("When the position list is empty, restore fails", func() {
			restoreFails(func(s *planner.State) { s.Positions = nil })
		})

		Convey("When no player is available, restore fails", func() {
			restoreFails(func(s *planner.State) { s.Available = nil })
		})

		Convey("When the boundary exceeds the plan, restore fails", func() {
			restoreFails(func(s *planner.State) { s.Boundary = len(s.Assignments) + 1 })
		})

		Convey("When the boundary is negative, restore fails", func() {
			restoreFails(func(s *planner.State) { s.Boundary = -1 })
		})

		Convey("When an assignment names an unknown player, restore fails", func() {
			restoreFails(func(s *planner.State) {
				assignments := append([]planner.AssignmentState(nil), s.Assignments...)
				assignments[0].Player = "Nobody"
				s.Assignments = assignments
			})
		})

		Convey("When an event carries an unknown state name, restore fails", func() {
			restoreFails(func(s *planner.State) {
				players := append([]planner.PlayerState(nil), s.Players...)
				events := append([]planner.EventState(nil), players[0].Events...)
				events[0].State = "injured"
				players[0].Events = events
				s.Players = players
			})
		})

		Convey("When an event references an assignment out of range, restore fails", func() {
			restoreFails(func(s *planner.State) {
				players := append([]planner.PlayerState(nil), s.Players...)
				events := append([]planner.EventState(nil), players[0].Events...)
				events[0].Assignment = len(s.Assignments)
				players[0].Events = events
				s.Players = players
			})
		})

		Convey("When the keeper index is out of range, restore fails", func() {
			restoreFails(func(s *planner.State) { s.KeeperIndex = len(s.Positions) })
		})

		Convey("When a staged player is unknown, restore fails", func() {
			restoreFails(func(s *planner.State) {
				s.PendingNext = map[string]string{"Keeper": "Nobody"}
			})
		})
	})
}
