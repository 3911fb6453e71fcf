package modkit

import (
	"errors"
	"testing"

	"bgg/internal/platform/config"
	"bgg/internal/platform/store"
)

type stub struct{ ports any }

func (s *stub) Ports() any   { return s.ports }
func (s *stub) Name() string { return "stub" }

var _ Module = (*stub)(nil)

func TestBuild(t *testing.T) {
	t.Parallel()

	if b := Build(); b.Name != "" || b.Ports != nil {
		t.Fatalf("default Build = %+v", b)
	}

	type extra struct{ N int }
	b := Build(WithName("status"), nil, WithPorts(extra{N: 2}))
	if b.Name != "status" {
		t.Fatalf("Name = %q", b.Name)
	}
	if got, ok := b.Ports.(extra); !ok || got.N != 2 {
		t.Fatalf("Ports = %#v", b.Ports)
	}
}

func TestBuilder_Signature(t *testing.T) {
	t.Parallel()

	var b Builder = func(d Deps, _ ...Option) (Module, error) {
		if d.Cfg != (config.Conf{}) {
			return nil, errors.New("unexpected cfg")
		}
		return &stub{ports: "ok"}, nil
	}
	m, err := b(Deps{})
	if err != nil || m.Ports() != "ok" {
		t.Fatalf("builder = %v, %v", m, err)
	}
}

func TestDeps_WithStore(t *testing.T) {
	t.Parallel()

	var d Deps
	if got := d.WithStore(nil); got.PG != nil || got.CH != nil || got.Redis != nil {
		t.Fatalf("nil store changed deps: %+v", got)
	}
	if got := d.WithStore(&store.Store{}); got.PG != nil {
		t.Fatalf("empty store set PG")
	}
	if l := d.Named("status"); l == nil {
		t.Fatal("Named returned nil")
	}
}
