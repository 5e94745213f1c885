package ledger_test

import (
	"testing"

	"github.com/okian/rondo/internal/domain/ledger"
	"github.com/okian/rondo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegisterAndLookup(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		l := ledger.New()

		Convey("When a player is registered", func() {
			id, created := l.Register("Ada", 0)

			Convey("Then the handle resolves both ways", func() {
				So(created, ShouldBeTrue)
				got, err := l.Lookup("Ada")
				So(err, ShouldBeNil)
				So(got, ShouldEqual, id)
				name, err := l.Name(id)
				So(err, ShouldBeNil)
				So(name, ShouldEqual, "Ada")
			})

			Convey("And registering the same name again keeps the record", func() {
				again, created2 := l.Register("Ada", 7)
				So(created2, ShouldBeFalse)
				So(again, ShouldEqual, id)
				arrival, err := l.Arrival(id)
				So(err, ShouldBeNil)
				So(arrival, ShouldEqual, 0)
			})
		})

		Convey("When an unknown name is looked up", func() {
			_, err := l.Lookup("Nobody")

			Convey("Then it fails with ErrUnknownPlayer", func() {
				So(err, ShouldEqual, ledger.ErrUnknownPlayer)
			})
		})

		Convey("When an invalid handle is queried", func() {
			_, err := l.CurrentState(model.PlayerID(42))

			Convey("Then it fails with ErrUnknownPlayer", func() {
				So(err, ShouldEqual, ledger.ErrUnknownPlayer)
			})
		})
	})
}

func TestRecordTransition(t *testing.T) {
	Convey("Given a registered player", t, func() {
		l := ledger.New()
		id, _ := l.Register("Ada", 0)

		Convey("When no transition was ever recorded", func() {
			state, err := l.CurrentState(id)

			Convey("Then the state defaults to unavailable", func() {
				So(err, ShouldBeNil)
				So(state, ShouldEqual, model.Unavailable)
			})
		})

		Convey("When the same transition is recorded twice", func() {
			So(l.RecordTransition(id, model.Bench, 10, nil), ShouldBeNil)
			So(l.RecordTransition(id, model.Bench, 10, nil), ShouldBeNil)

			Convey("Then only one event exists", func() {
				events, err := l.EventsOf(id)
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 1)
				So(events[0].State, ShouldEqual, model.Bench)
				So(events[0].TimeSec, ShouldEqual, 10)
			})
		})

		Convey("When distinct transitions are recorded", func() {
			So(l.RecordTransition(id, model.Bench, 0, nil), ShouldBeNil)
			So(l.RecordTransition(id, model.Field, 60, nil), ShouldBeNil)
			So(l.RecordTransition(id, model.Bench, 300, nil), ShouldBeNil)

			Convey("Then the log keeps them in order and the last wins", func() {
				events, _ := l.EventsOf(id)
				So(len(events), ShouldEqual, 3)
				state, _ := l.CurrentState(id)
				So(state, ShouldEqual, model.Bench)
			})
		})
	})
}

func TestTruncateAfter(t *testing.T) {
	Convey("Given a player with executed and projected events", t, func() {
		l := ledger.New()
		id, _ := l.Register("Ada", 0)

		executed := &model.Assignment{Player: id, Position: 1, TimeSec: 120, Executed: true}
		projected := &model.Assignment{Player: id, Position: 2, TimeSec: 300}

		So(l.RecordTransition(id, model.Bench, 0, nil), ShouldBeNil)
		So(l.RecordTransition(id, model.Field, 120, executed), ShouldBeNil)
		So(l.RecordTransition(id, model.Bench, 240, nil), ShouldBeNil)
		So(l.RecordTransition(id, model.Field, 300, projected), ShouldBeNil)

		Convey("When truncating from before the executed event at clock 240", func() {
			So(l.TruncateAfter(id, 100, 240), ShouldBeNil)

			Convey("Then executed and past roster facts survive, projections are gone", func() {
				events, _ := l.EventsOf(id)
				So(len(events), ShouldEqual, 3)
				So(events[0].TimeSec, ShouldEqual, 0)
				So(events[1].TimeSec, ShouldEqual, 120)
				So(events[1].Assignment, ShouldEqual, executed)
				So(events[2].TimeSec, ShouldEqual, 240)
			})
		})

		Convey("When truncating from a future time", func() {
			So(l.TruncateAfter(id, 500, 240), ShouldBeNil)

			Convey("Then nothing is removed", func() {
				events, _ := l.EventsOf(id)
				So(len(events), ShouldEqual, 4)
			})
		})
	})
}

func TestRetimeAssignmentEvents(t *testing.T) {
	Convey("Given two players joined by one assignment", t, func() {
		l := ledger.New()
		in, _ := l.Register("Ada", 0)
		out, _ := l.Register("Ben", 1)

		a := &model.Assignment{Player: in, Position: 1, TimeSec: 600}
		So(l.RecordTransition(out, model.Field, 0, nil), ShouldBeNil)
		So(l.RecordTransition(in, model.Field, 600, a), ShouldBeNil)
		So(l.RecordTransition(out, model.Bench, 600, a), ShouldBeNil)

		Convey("When the assignment is retimed", func() {
			l.RetimeAssignmentEvents(a, 570)

			Convey("Then both referencing events move", func() {
				inEvents, _ := l.EventsOf(in)
				outEvents, _ := l.EventsOf(out)
				So(inEvents[len(inEvents)-1].TimeSec, ShouldEqual, 570)
				So(outEvents[len(outEvents)-1].TimeSec, ShouldEqual, 570)
				So(outEvents[0].TimeSec, ShouldEqual, 0)
			})
		})
	})
}
