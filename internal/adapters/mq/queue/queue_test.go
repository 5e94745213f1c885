package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/rondo/internal/adapters/mq/queue"
	"github.com/okian/rondo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEnqueueDequeue(t *testing.T) {
	Convey("Given a small queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2), queue.WithBufferSize(2))
		ctx := context.Background()

		Convey("When events are enqueued", func() {
			ok1 := q.Enqueue(ctx, queue.Event{EventID: "e1", Kind: model.KindTick, AtSec: 60})
			ok2 := q.Enqueue(ctx, queue.Event{EventID: "e2", Kind: model.KindTick, AtSec: 120})

			Convey("Then both fit within capacity", func() {
				So(ok1, ShouldBeTrue)
				So(ok2, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And a third is rejected without blocking", func() {
				So(q.Enqueue(ctx, queue.Event{EventID: "e3"}), ShouldBeFalse)
			})

			Convey("And dequeue delivers in order", func() {
				ch := q.Dequeue(ctx)
				first := <-ch
				second := <-ch
				So(first.EventID, ShouldEqual, "e1")
				So(second.EventID, ShouldEqual, "e2")
			})
		})
	})
}

func TestClose(t *testing.T) {
	Convey("Given a queue with one pending event", t, func() {
		q := queue.NewInMemoryQueue()
		ctx := context.Background()
		So(q.Enqueue(ctx, queue.Event{EventID: "pending"}), ShouldBeTrue)

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and rejects new events", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Event{EventID: "late"}), ShouldBeFalse)
			})

			Convey("And closing again is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("And the pending event drains before the channel closes", func() {
				ch := q.Dequeue(ctx)
				ev, ok := <-ch
				So(ok, ShouldBeTrue)
				So(ev.EventID, ShouldEqual, "pending")

				select {
				case _, open := <-ch:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not close")
				}
			})
		})
	})
}
