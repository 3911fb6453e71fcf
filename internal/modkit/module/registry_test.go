package module

import (
	"reflect"
	"sync"
	"testing"
)

// engine is a port set shaped like the ones engine modules publish
type engine struct {
	Name string
	Size int
}

// the registry is process global, so these tests run serially

func TestRegistry_RegisterAndLookup(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("status", engine{Name: "status", Size: 3})

	got, ok := PortsAs[engine]("status")
	if !ok || got.Size != 3 {
		t.Fatalf("PortsAs = %+v, %v", got, ok)
	}
	if _, ok := PortsAs[engine]("lastmodified"); ok {
		t.Fatal("missing name reported ok")
	}
	if _, ok := PortsAs[int]("status"); ok {
		t.Fatal("type mismatch reported ok")
	}
}

func TestRegistry_OverwriteNamesAndReset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("status", engine{Size: 1})
	Register("status", engine{Size: 2})
	Register("lastmodified", engine{Size: 1})

	if got, _ := PortsAs[engine]("status"); got.Size != 2 {
		t.Fatalf("overwrite lost, got %+v", got)
	}
	if !reflect.DeepEqual(Names(), []string{"lastmodified", "status"}) {
		t.Fatalf("Names = %v", Names())
	}

	Reset()
	if len(Names()) != 0 {
		t.Fatalf("Names after Reset = %v", Names())
	}
}

func TestRegistry_ConcurrentUse(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				Register("status", engine{Size: j})
				_, _ = PortsAs[engine]("status")
				_ = Names()
			}
		}()
	}
	wg.Wait()

	if _, ok := PortsAs[engine]("status"); !ok {
		t.Fatal("expected an entry after concurrent writes")
	}
}
