package planner_test

import (
	"testing"

	"github.com/okian/rondo/internal/domain/formation"
	"github.com/okian/rondo/internal/domain/ledger"
	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/planner"
	. "github.com/smartystreets/goconvey/convey"
)

const halfLength = 1500 // 25 minute halves

func fiveASide() formation.PositionSet {
	layout, _ := formation.ForSize(formation.SizeFive)
	set, _ := layout.Select(nil)
	return set
}

func newGame(available ...string) *planner.Planner {
	p := planner.New(fiveASide(), planner.WithHalfLength(halfLength))
	p.SetRoster(available, nil)
	p.UpdatePlayers()
	return p
}

func TestUpdatePlayers(t *testing.T) {
	Convey("Given a fresh planner", t, func() {
		p := planner.New(fiveASide(), planner.WithHalfLength(halfLength))

		Convey("When six players arrive", func() {
			p.SetRoster([]string{"Ada", "Ben", "Cleo", "Dan", "Eli", "Fay"}, nil)
			delta := p.UpdatePlayers()

			Convey("Then the playing population grows by six", func() {
				So(delta, ShouldEqual, 6)
			})

			Convey("And running the same update again is a no-op", func() {
				So(p.UpdatePlayers(), ShouldEqual, 0)
			})

			Convey("And moving one player to unavailable shrinks it by one", func() {
				p.SetRoster([]string{"Ada", "Ben", "Cleo", "Dan", "Eli"}, []string{"Fay"})
				So(p.UpdatePlayers(), ShouldEqual, -1)
			})

			Convey("And dropping a player from both sets counts as unavailable", func() {
				p.SetRoster([]string{"Ada", "Ben", "Cleo", "Dan", "Eli"}, nil)
				So(p.UpdatePlayers(), ShouldEqual, -1)
			})
		})
	})
}

func TestPickNextPlayers(t *testing.T) {
	Convey("Given five available players with no history", t, func() {
		p := newGame("Ada", "Ben", "Cleo", "Dan", "Eli")

		Convey("When four are picked", func() {
			next := p.PickNextPlayers(4)

			Convey("Then arrival order decides, first-in first-out", func() {
				So(next, ShouldResemble, []string{"Ada", "Ben", "Cleo", "Dan"})
			})
		})
	})
}

func TestComputePlan(t *testing.T) {
	Convey("Given six players in a five-a-side game", t, func() {
		p := newGame("Ada", "Ben", "Cleo", "Dan", "Eli", "Fay")

		Convey("When the plan is computed at kickoff", func() {
			p.ComputePlan()
			plan := p.Plan()

			Convey("Then the kickoff lineup fills every position by arrival order", func() {
				So(len(plan), ShouldBeGreaterThanOrEqualTo, 5)
				So(plan[0].Player, ShouldEqual, "Ada")
				So(plan[0].Position, ShouldEqual, "Keeper")
				So(plan[1].Player, ShouldEqual, "Ben")
				So(plan[2].Player, ShouldEqual, "Cleo")
				So(plan[3].Player, ShouldEqual, "Dan")
				So(plan[4].Player, ShouldEqual, "Eli")
			})

			Convey("And the shift time splits the half among five field players", func() {
				So(p.ShiftSeconds(), ShouldEqual, 300)
			})

			Convey("And projections cover the game with no shortfall", func() {
				So(p.Shortfall(), ShouldBeNil)
				last := plan[len(plan)-1]
				So(last.TimeSec, ShouldBeLessThan, 2*halfLength)
				So(last.TimeSec, ShouldBeGreaterThanOrEqualTo, 2*halfLength-600)
			})

			Convey("And the sixth player is the first substitute", func() {
				So(plan[5].Player, ShouldEqual, "Fay")
				So(plan[5].TimeSec, ShouldEqual, 300)
			})

			Convey("And nothing is executed yet", func() {
				So(p.Boundary(), ShouldEqual, 0)
				for _, a := range plan {
					So(a.Executed, ShouldBeFalse)
				}
			})
		})
	})

	Convey("Given fewer players than positions", t, func() {
		p := newGame("Ada", "Ben", "Cleo")

		Convey("When the plan is computed", func() {
			p.ComputePlan()

			Convey("Then planning reports a shortfall instead of failing", func() {
				shortfall := p.Shortfall()
				So(shortfall, ShouldNotBeNil)
				So(shortfall.FromSec, ShouldEqual, 0)
				So(len(p.Plan()), ShouldEqual, 3)
			})
		})
	})
}

func TestExecuteAssignmentsMatching(t *testing.T) {
	Convey("Given a computed plan", t, func() {
		p := newGame("Ada", "Ben", "Cleo", "Dan", "Eli", "Fay")
		p.ComputePlan()
		before := p.Plan()

		Convey("When the kickoff lineup executes exactly as planned", func() {
			var reqs []model.SubstitutionRequest
			for _, a := range before[:5] {
				reqs = append(reqs, model.SubstitutionRequest{
					Player: a.Player, Position: a.Position, TimeSec: a.TimeSec,
				})
			}
			So(p.ExecuteAssignments(reqs), ShouldBeNil)

			Convey("Then the boundary advances without replanning", func() {
				So(p.Boundary(), ShouldEqual, 5)
				after := p.Plan()
				So(len(after), ShouldEqual, len(before))
				for i := range before {
					So(after[i].Player, ShouldEqual, before[i].Player)
					So(after[i].Position, ShouldEqual, before[i].Position)
				}
			})

			Convey("And the executed entries are marked as fact", func() {
				after := p.Plan()
				for i := 0; i < 5; i++ {
					So(after[i].Executed, ShouldBeTrue)
				}
				So(after[5].Executed, ShouldBeFalse)
			})
		})

		Convey("When a planned substitution happens a little late", func() {
			for _, a := range before[:5] {
				So(p.ExecuteAssignments([]model.SubstitutionRequest{
					{Player: a.Player, Position: a.Position, TimeSec: a.TimeSec},
				}), ShouldBeNil)
			}
			p.Tick(310)
			So(p.ExecuteAssignments([]model.SubstitutionRequest{
				{Player: before[5].Player, Position: before[5].Position, TimeSec: 310},
			}), ShouldBeNil)

			Convey("Then only the timestamp is corrected and the boundary advances", func() {
				So(p.Boundary(), ShouldEqual, 6)
				after := p.Plan()
				So(len(after), ShouldEqual, len(before))
				So(after[5].TimeSec, ShouldEqual, 310)
				So(after[5].Executed, ShouldBeTrue)
			})
		})

		Convey("When a substitution names an unknown player", func() {
			err := p.ExecuteAssignments([]model.SubstitutionRequest{
				{Player: "Nobody", Position: "Defense", TimeSec: 0},
			})

			Convey("Then it fails with the ledger sentinel", func() {
				So(err, ShouldEqual, ledger.ErrUnknownPlayer)
			})
		})

		Convey("When a substitution names an unknown position", func() {
			err := p.ExecuteAssignments([]model.SubstitutionRequest{
				{Player: "Ada", Position: "Sweeper", TimeSec: 0},
			})

			Convey("Then it fails with the formation sentinel", func() {
				So(err, ShouldEqual, formation.ErrUnknownPosition)
			})
		})
	})
}

func TestExecuteAssignmentsDivergence(t *testing.T) {
	Convey("Given a plan with the kickoff lineup executed", t, func() {
		p := newGame("Ada", "Ben", "Cleo", "Dan", "Eli", "Fay")
		p.ComputePlan()
		kickoff := p.Plan()[:5]
		var reqs []model.SubstitutionRequest
		for _, a := range kickoff {
			reqs = append(reqs, model.SubstitutionRequest{
				Player: a.Player, Position: a.Position, TimeSec: a.TimeSec,
			})
		}
		So(p.ExecuteAssignments(reqs), ShouldBeNil)
		executedBefore := p.Plan()[:5]

		Convey("When the coach does something unplanned", func() {
			p.Tick(300)
			// Plan said Fay comes on; the coach sends Fay to a different slot.
			So(p.ExecuteAssignments([]model.SubstitutionRequest{
				{Player: "Fay", Position: "Forward", TimeSec: 300},
			}), ShouldBeNil)

			Convey("Then the executed record includes the real substitution", func() {
				plan := p.Plan()
				So(p.Boundary(), ShouldEqual, 6)
				So(plan[5].Player, ShouldEqual, "Fay")
				So(plan[5].Position, ShouldEqual, "Forward")
				So(plan[5].Executed, ShouldBeTrue)
			})

			Convey("And history before the boundary is untouched", func() {
				plan := p.Plan()
				for i, a := range executedBefore {
					So(plan[i], ShouldResemble, a)
				}
			})

			Convey("And a fresh projected tail exists", func() {
				plan := p.Plan()
				So(len(plan), ShouldBeGreaterThan, 6)
				for _, a := range plan[6:] {
					So(a.Executed, ShouldBeFalse)
					So(a.TimeSec, ShouldBeGreaterThan, 300)
				}
			})

			Convey("And the displaced forward is back in the bench pool", func() {
				pos, onField, err := p.PlayerPosition("Eli")
				So(err, ShouldBeNil)
				So(onField, ShouldBeFalse)
				So(pos, ShouldEqual, "")
			})
		})
	})
}

func TestQueriesTrackTheClock(t *testing.T) {
	Convey("Given an executed kickoff lineup early in the half", t, func() {
		p := newGame("Ada", "Ben", "Cleo", "Dan", "Eli", "Fay")
		p.ComputePlan()
		var reqs []model.SubstitutionRequest
		for _, a := range p.Plan()[:5] {
			reqs = append(reqs, model.SubstitutionRequest{
				Player: a.Player, Position: a.Position, TimeSec: a.TimeSec,
			})
		}
		So(p.ExecuteAssignments(reqs), ShouldBeNil)
		p.Tick(100)

		Convey("Then fairness counts only time that has elapsed", func() {
			snap, err := p.Fairness("Ben")
			So(err, ShouldBeNil)
			// Ben has been on the field the whole 100 seconds; the projected
			// rotations later in the half must not dilute that.
			So(snap.PercentInGame, ShouldEqual, 100)
			So(snap.BenchSeconds, ShouldEqual, 0)
		})

		Convey("And the bench queue reflects who sits out now, not at end of plan", func() {
			So(p.PickNextPlayers(2), ShouldResemble, []string{"Fay"})
		})
	})
}

func TestRosterLossMidHalf(t *testing.T) {
	Convey("Given a running game with the first substitution executed", t, func() {
		p := newGame("Ada", "Ben", "Cleo", "Dan", "Eli", "Fay")
		p.ComputePlan()
		// Kickoff lineup plus the first planned change: Fay in for Ben at 300.
		for _, a := range p.Plan()[:6] {
			p.Tick(a.TimeSec)
			So(p.ExecuteAssignments([]model.SubstitutionRequest{
				{Player: a.Player, Position: a.Position, TimeSec: a.TimeSec},
			}), ShouldBeNil)
		}
		p.ComputeShiftTime()
		shiftBefore := p.ShiftSeconds()
		So(shiftBefore, ShouldEqual, 180)

		Convey("When a benched player goes home mid-half", func() {
			p.Tick(600)
			p.SetRoster([]string{"Ada", "Cleo", "Dan", "Eli", "Fay"}, []string{"Ben"})
			delta := p.UpdatePlayers()
			p.ComputeShiftTime()

			Convey("Then the population delta is -1", func() {
				So(delta, ShouldEqual, -1)
			})

			Convey("And fairness keeps the time already played", func() {
				snap, err := p.Fairness("Ben")
				So(err, ShouldBeNil)
				// Ben played 0-300 and sat 300-600.
				So(snap.PercentInGame, ShouldEqual, 50)
			})

			Convey("And the player holds no position", func() {
				_, onField, err := p.PlayerPosition("Ben")
				So(err, ShouldBeNil)
				So(onField, ShouldBeFalse)
			})

			Convey("And the per-shift duration grows for the remaining players", func() {
				So(p.ShiftSeconds(), ShouldBeGreaterThan, shiftBefore)
			})
		})
	})
}

func TestPickNextPosition(t *testing.T) {
	Convey("Given a fully projected game", t, func() {
		p := newGame("Ada", "Ben", "Cleo", "Dan", "Eli", "Fay")
		p.ComputePlan()

		Convey("When the next rotation target is asked for", func() {
			name, err := p.PickNextPosition()
			So(err, ShouldBeNil)

			Convey("Then the field position longest without rotation wins", func() {
				// The projection rotates Defense, Midfield Left, Midfield
				// Right and Forward in cycles; after the last planned change
				// Midfield Left has waited longest. The keeper slot never
				// competes.
				So(name, ShouldEqual, "Midfield Left")
			})
		})
	})

	Convey("Given a keeper-only formation state", t, func() {
		layout, err := formation.ForSize(formation.SizeFive)
		So(err, ShouldBeNil)
		set, err := layout.Select([]string{"Keeper"})
		So(err, ShouldBeNil)
		p := planner.New(set, planner.WithHalfLength(halfLength))

		Convey("When the next rotation target is asked for", func() {
			_, err := p.PickNextPosition()

			Convey("Then there is nothing to rotate", func() {
				So(err, ShouldEqual, planner.ErrNoRotatablePosition)
			})
		})
	})
}

func TestSecondHalfKeeper(t *testing.T) {
	Convey("Given a game with a staged second-half keeper", t, func() {
		p := newGame("Ada", "Ben", "Cleo", "Dan", "Eli", "Fay")
		p.ComputePlan()
		So(p.StageNext("Fay", "Keeper"), ShouldBeNil)
		p.ComputePlan()

		Convey("Then the plan swaps the keeper at the halftime boundary", func() {
			var keeperChanges []planner.AssignmentView
			for _, a := range p.Plan() {
				if a.Position == "Keeper" {
					keeperChanges = append(keeperChanges, a)
				}
			}
			So(len(keeperChanges), ShouldEqual, 2)
			So(keeperChanges[0].Player, ShouldEqual, "Ada")
			So(keeperChanges[0].TimeSec, ShouldEqual, 0)
			So(keeperChanges[1].Player, ShouldEqual, "Fay")
			So(keeperChanges[1].TimeSec, ShouldEqual, halfLength)
		})
	})

	Convey("Given a game with no staged keeper", t, func() {
		p := newGame("Ada", "Ben", "Cleo", "Dan", "Eli", "Fay")
		p.ComputePlan()

		Convey("Then the first keeper persists across halftime", func() {
			var keeperChanges []planner.AssignmentView
			for _, a := range p.Plan() {
				if a.Position == "Keeper" {
					keeperChanges = append(keeperChanges, a)
				}
			}
			So(len(keeperChanges), ShouldEqual, 1)
			So(keeperChanges[0].Player, ShouldEqual, "Ada")
		})
	})
}

func TestReset(t *testing.T) {
	Convey("Given a game in progress", t, func() {
		p := newGame("Ada", "Ben", "Cleo", "Dan", "Eli")
		p.ComputePlan()
		p.Tick(900)

		Convey("When the game is reset", func() {
			p.Reset()

			Convey("Then all state is cleared", func() {
				So(p.Plan(), ShouldBeEmpty)
				So(p.Boundary(), ShouldEqual, 0)
				So(p.NowSec(), ShouldEqual, 0)
				So(p.PickNextPlayers(5), ShouldBeEmpty)
			})
		})
	})
}
