package helper

import "testing"

type sample struct{}

func (s *sample) method() string { return GetFuncName() }

func TestGetFuncName(t *testing.T) {
	if got := GetFuncName(); got != "TestGetFuncName" {
		t.Errorf("GetFuncName() = %q, want %q", got, "TestGetFuncName")
	}
	if got := (&sample{}).method(); got != "(*sample).method" {
		t.Errorf("GetFuncName() = %q, want %q", got, "(*sample).method")
	}
}
