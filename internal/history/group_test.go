package history

import "testing"

func TestBatchScope(t *testing.T) {
	app := newCounterApp(t)

	func() {
		defer app.m.BatchScope().End()
		app.plus()
		app.plus()
	}()

	if app.m.IsBatching() {
		t.Error("scope did not end the batch")
	}
	app.expectDepths(1, 0)

	app.m.Undo()
	app.expectCount(0)
}

func TestBatchScope_EndIsIdempotent(t *testing.T) {
	app := newCounterApp(t)

	outer := app.m.BatchScope()
	outer.End()
	app.m.StartBatch()
	outer.End()

	if !app.m.IsBatching() {
		t.Error("second End must not close a later batch")
	}
	app.m.EndBatch()
}

func TestBatch_ClosesOnPanic(t *testing.T) {
	app := newCounterApp(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		app.m.Batch(func() {
			app.plus()
			panic("boom")
		})
	}()

	if app.m.IsBatching() {
		t.Error("batch left open after panic")
	}
	app.plus()
	app.expectDepths(2, 0)
}

func TestCheckpoint(t *testing.T) {
	app := newCounterApp(t)
	app.plus()
	cp := app.m.CreateCheckpoint()

	app.plus()
	app.plus()
	app.m.Batch(func() {
		app.plus()
		app.plus()
	})
	app.expectCount(5)

	app.m.UndoToCheckpoint(cp)
	app.expectCount(1)
	app.expectDepths(1, 3)

	end := Checkpoint{pastDepth: 4}
	app.m.RedoToCheckpoint(end)
	app.expectCount(5)
	app.expectDepths(4, 0)
}
