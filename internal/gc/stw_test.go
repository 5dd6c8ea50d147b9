package gc_test

import (
	"testing"

	gomock "go.uber.org/mock/gomock"

	gc "github.com/orizon-lang/orizon-gc/internal/gc"
	"github.com/orizon-lang/orizon-gc/internal/gc/mocks"
)

func TestStopTheWorldRun(t *testing.T) {
	t.Run("RunsFnUnderBarrier", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reg := mocks.NewMockThreadRegistry(ctrl)

		self := gc.ThreadID(1)
		reg.EXPECT().RequestSuspend(self)
		reg.EXPECT().Await(self)
		reg.EXPECT().Resume()

		stw := gc.NewStopTheWorld(nil)

		called := false
		got := stw.Run(reg, self, nil, 2, func() int {
			called = true

			return 42
		})

		if !called {
			t.Error("fn should have run")
		}

		if got != 42 {
			t.Errorf("Run() = %d, want 42", got)
		}
	})

	t.Run("CantStopAbortsWithoutRunningFn", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reg := mocks.NewMockThreadRegistry(ctrl)
		// no EXPECT calls: RequestSuspend/Await/Resume must never be invoked

		stw := gc.NewStopTheWorld(func() bool { return true })

		called := false
		got := stw.Run(reg, gc.ThreadID(1), nil, 1, func() int {
			called = true

			return 1
		})

		if called {
			t.Error("fn should not run when cantStop reports true")
		}

		if got != 0 {
			t.Errorf("Run() = %d, want 0", got)
		}
	})

	t.Run("MergesTrackedObjectsBeforeFn", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reg := mocks.NewMockThreadRegistry(ctrl)

		self := gc.ThreadID(1)
		reg.EXPECT().RequestSuspend(self)
		reg.EXPECT().Await(self)
		reg.EXPECT().Resume()

		a := &stwTestObj{}
		a.rc.IncShared(3)
		a.rc.SetQueued(true)

		stw := gc.NewStopTheWorld(nil)

		stw.Run(reg, self, []gc.Traversable{a}, 1, func() int { return 0 })

		if a.rc.Local() != 3 {
			t.Errorf("a.rc.Local() after merge = %d, want 3", a.rc.Local())
		}
	})
}

// stwTestObj is a minimal Traversable double, local to this file since
// stw_test.go lives in gc_test (it needs the mocks package, which
// imports gc, so it cannot be an internal gc test file).
type stwTestObj struct {
	hdr gc.Header
	rc  gc.RefCount
}

func (o *stwTestObj) Header() *gc.Header          { return &o.hdr }
func (o *stwTestObj) RefCount() *gc.RefCount      { return &o.rc }
func (o *stwTestObj) Traverse(gc.VisitFunc) int   { return 0 }
func (o *stwTestObj) ClearRefs() error            { return nil }
func (o *stwTestObj) HasLegacyFinalizer() bool    { return false }
