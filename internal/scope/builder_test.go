package scope

import (
	"slices"
	"testing"
)

func TestBuildLibraryRecord(t *testing.T) {
	b := NewBuilder([]string{"Util", "Helper", "Cache"}, DefaultHostGlobals)
	env := b.Build("Helper", true)

	if got := env.Access("Helper"); got != Writable {
		t.Fatalf("self access = %v, want writable", got)
	}
	for _, name := range []string{"Util", "Cache", "gs", "current", "GlideRecord"} {
		if got := env.Access(name); got != Readonly {
			t.Errorf("%s access = %v, want readonly", name, got)
		}
	}
	if got := env.Writable(); !slices.Equal(got, []string{"Helper"}) {
		t.Fatalf("Writable() = %v, want [Helper]", got)
	}
	if want := len(DefaultHostGlobals) + 3; env.Len() != want {
		t.Fatalf("Len() = %d, want %d", env.Len(), want)
	}
}

func TestBuildTriggerRecord(t *testing.T) {
	b := NewBuilder([]string{"Util", "Helper"}, DefaultHostGlobals)
	env := b.Build("On insert: set owner", false)

	if len(env.Writable()) != 0 {
		t.Fatalf("trigger environment has writable entries: %v", env.Writable())
	}
	if _, ok := env.Lookup("On insert: set owner"); ok {
		t.Fatal("trigger name must not be injected")
	}
	if writable, ok := env.Lookup("Util"); !ok || writable {
		t.Fatalf("Lookup(Util) = %v, %v; want readonly", writable, ok)
	}
}

func TestBuildTriggerSharingLibraryName(t *testing.T) {
	b := NewBuilder([]string{"Util"}, nil)
	env := b.Build("Util", false)
	if got := env.Access("Util"); got != Readonly {
		t.Fatalf("Util access = %v, want readonly", got)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	names := []string{"A", "B", "C", "D"}
	b := NewBuilder(names, DefaultHostGlobals)

	for _, isLibrary := range []bool{true, false} {
		first := b.Build("B", isLibrary)
		second := b.Build("B", isLibrary)
		if !first.Equal(second) {
			t.Fatalf("environments differ for isLibrary=%v", isLibrary)
		}
		if !slices.Equal(first.Names(), second.Names()) {
			t.Fatalf("Names() differ for isLibrary=%v", isLibrary)
		}
	}

	reordered := NewBuilder([]string{"D", "C", "B", "A"}, DefaultHostGlobals)
	if !b.Build("B", true).Equal(reordered.Build("B", true)) {
		t.Fatal("environment depends on enumeration order")
	}
}

func TestSelfAppearsOnce(t *testing.T) {
	b := NewBuilder([]string{"Util", "Util", "Other"}, []string{"Util"})
	env := b.Build("Util", true)

	count := 0
	for _, name := range env.Names() {
		if name == "Util" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Util appears %d times", count)
	}
	if env.Access("Util") != Writable {
		t.Fatal("self must stay writable even when shadowing a host global")
	}
}

func TestNewBuilderCopiesInput(t *testing.T) {
	names := []string{"Util", ""}
	b := NewBuilder(names, nil)
	names[0] = "Mutated"

	if got := b.LibraryNames(); !slices.Equal(got, []string{"Util"}) {
		t.Fatalf("LibraryNames() = %v", got)
	}
}

func TestAccessString(t *testing.T) {
	if Readonly.String() != "readonly" || Writable.String() != "writable" || Access(0).String() != "unknown" {
		t.Fatal("unexpected Access.String()")
	}
}
