package driver

import (
	"testing"
)

func filterTrue(d Driver) bool {
	return true
}
func filterFalse(d Driver) bool {
	return false
}

func TestFilterNot(t *testing.T) {
	if FilterNot(filterTrue)(nil) != false {
		t.Error("FilterNot(filterTrue)() must be false")
	}
	if FilterNot(filterFalse)(nil) != true {
		t.Error("FilterNot(filterFalse)() must be true")
	}
}

func TestFilterAnd(t *testing.T) {
	if FilterAnd(filterTrue, filterTrue)(nil) != true {
		t.Error("FilterAnd(filterTrue, filterTrue)() must be true")
	}
	if FilterAnd(filterTrue, filterFalse)(nil) != false {
		t.Error("FilterAnd(filterTrue, filterFalse)() must be false")
	}
	if FilterAnd(filterFalse, filterTrue)(nil) != false {
		t.Error("FilterAnd(filterFalse, filterTrue)() must be false")
	}
	if FilterAnd(filterFalse, filterTrue, filterTrue)(nil) != false {
		t.Error("FilterAnd(filterFalse, filterTrue, filterTrue)() must be false")
	}
	if FilterAnd(filterTrue, filterTrue, filterTrue)(nil) != true {
		t.Error("FilterAnd(filterTrue, filterTrue, filterTrue)() must be true")
	}
}

func TestManagerQuery(t *testing.T) {
	m := NewManager()
	if err := m.Register(&videoAdapterMock{}, Info{Label: "cam", DeviceType: Camera}); err != nil {
		t.Fatal(err)
	}
	if err := m.Register(&videoAdapterMock{}, Info{Label: "display", DeviceType: Screen}); err != nil {
		t.Fatal(err)
	}
	if err := m.Register(&audioAdapterMock{}, Info{Label: "mic", DeviceType: Microphone}); err != nil {
		t.Fatal(err)
	}
	if err := m.Register(&adapterMock{}, Info{}); err != errUnsupportedAdapter {
		t.Errorf("expected errUnsupportedAdapter, got %v", err)
	}

	cameras := m.Query(FilterAnd(FilterVideoRecorder(), FilterNot(FilterDeviceType(Screen))))
	if len(cameras) != 1 || cameras[0].Info().Label != "cam" {
		t.Fatalf("expected only the camera, got %v", cameras)
	}

	mics := m.Query(FilterAudioRecorder())
	if len(mics) != 1 || mics[0].Info().Label != "mic" {
		t.Fatalf("expected only the microphone, got %v", mics)
	}

	byID := m.Query(FilterID(mics[0].ID()))
	if len(byID) != 1 || byID[0] != mics[0] {
		t.Errorf("expected to find the microphone by its id")
	}

	if all := m.Query(filterTrue); len(all) != 3 {
		t.Errorf("expected 3 drivers, got %d", len(all))
	}
}
