package dispatch

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryDispatchesByName(t *testing.T) {
	r := NewRegistry()
	var ran bool
	r.Register(Command{Name: "noop.run", Run: func(ctx context.Context, dc Context, args []string) error {
		ran = true
		return nil
	}})

	if err := r.Dispatch(context.Background(), Context{}, "noop.run", nil); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !ran {
		t.Fatalf("expected handler to run")
	}
}

func TestRegistryDispatchUnknownCommand(t *testing.T) {
	r := NewRegistry()
	err := r.Dispatch(context.Background(), Context{}, "missing.cmd", nil)
	if err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestRegisterPanicsOnDuplicateName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	r := NewRegistry()
	r.Register(Command{Name: "dup", Run: func(context.Context, Context, []string) error { return nil }})
	r.Register(Command{Name: "dup", Run: func(context.Context, Context, []string) error { return nil }})
}

func TestNamesPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(Command{Name: "b", Run: func(context.Context, Context, []string) error { return nil }})
	r.Register(Command{Name: "a", Run: func(context.Context, Context, []string) error { return nil }})

	names := r.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Fatalf("unexpected order: %v", names)
	}
}

func TestHandlerErrorPropagates(t *testing.T) {
	wantErr := errors.New("boom")
	r := NewRegistry()
	r.Register(Command{Name: "fail", Run: func(context.Context, Context, []string) error { return wantErr }})

	if err := r.Dispatch(context.Background(), Context{}, "fail", nil); !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
}
