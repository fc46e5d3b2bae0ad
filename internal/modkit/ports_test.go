package modkit

import (
	"testing"

	"weightwise/internal/modkit/httpkit"
	"weightwise/internal/platform/testkit"
)

type readyPort interface{ Ready() error }

type readyImpl struct{}

func (readyImpl) Ready() error { return nil }

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string               { return m.name }
func (m fakeModule) Ports() any                 { return m.ports }
func (m fakeModule) MountRoutes(httpkit.Router) {}

var _ Module = fakeModule{}

func TestPortsOf(t *testing.T) {
	t.Parallel()

	type Bundle struct {
		Ready readyPort
		N     int
	}
	type hidden struct {
		ready readyPort
	}

	cases := []struct {
		name  string
		ports any
		ok    bool
	}{
		{"nil", nil, false},
		{"direct", readyImpl{}, true},
		{"exported field", Bundle{Ready: readyImpl{}}, true},
		{"nil field", Bundle{}, false},
		{"unexported field", hidden{ready: readyImpl{}}, false},
		{"scalar", 5, false},
	}
	for _, c := range cases {
		if _, ok := PortsOf[readyPort](fakeModule{name: c.name, ports: c.ports}); ok != c.ok {
			t.Fatalf("%s: ok = %v, want %v", c.name, ok, c.ok)
		}
	}
}

func TestMustPortsOf(t *testing.T) {
	t.Parallel()

	if MustPortsOf[readyPort](fakeModule{name: "predict", ports: readyImpl{}}).Ready() != nil {
		t.Fatalf("unexpected error")
	}
	testkit.MustPanic(t, func() {
		_ = MustPortsOf[readyPort](fakeModule{name: "meta"})
	})
}
