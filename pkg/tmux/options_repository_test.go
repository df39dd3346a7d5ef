package tmux

import (
	"context"
	"testing"
)

func TestOptionsGetGlobalReturnsTrimmedValue(t *testing.T) {
	fake := &fakeRunner{}
	fake.on("show-options", func(args []string) (string, error) {
		return "main-horizontal\n", nil
	})

	opts := NewOptionsRepository(fake)
	got, err := opts.GetGlobal(context.Background(), "default-layout")
	if err != nil {
		t.Fatalf("GetGlobal: %v", err)
	}
	if got != "main-horizontal" {
		t.Fatalf("got %q", got)
	}
}

func TestOptionsGetGlobalUnsetIsEmptyNotError(t *testing.T) {
	fake := &fakeRunner{}
	fake.on("show-options", func(args []string) (string, error) {
		return "", &listErr{msg: "no server running"}
	})

	opts := NewOptionsRepository(fake)
	got, err := opts.GetGlobal(context.Background(), "default-layout")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
}

func TestOptionsSetGlobal(t *testing.T) {
	fake := &fakeRunner{}
	var seen []string
	fake.on("set-option", func(args []string) (string, error) {
		seen = args
		return "", nil
	})

	opts := NewOptionsRepository(fake)
	if err := opts.SetGlobal(context.Background(), "default-layout", "tiled"); err != nil {
		t.Fatalf("SetGlobal: %v", err)
	}
	if len(seen) != 4 || seen[3] != "tiled" {
		t.Fatalf("unexpected args: %v", seen)
	}
}
