package elevation

import (
	"errors"
	"testing"
)

func TestFixed(t *testing.T) {
	for _, want := range []bool{true, false} {
		got, err := Fixed(want).Elevated()
		if err != nil || got != want {
			t.Errorf("Fixed(%v).Elevated() = %v, %v", want, got, err)
		}
	}
}

func TestCheckFuncPropagatesError(t *testing.T) {
	boom := errors.New("token query failed")
	_, err := CheckFunc(func() (bool, error) { return false, boom }).Elevated()
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestCurrentDoesNotFail(t *testing.T) {
	if _, err := Current.Elevated(); err != nil {
		t.Errorf("Current.Elevated() err = %v", err)
	}
}
