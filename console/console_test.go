package console

import "testing"

func TestAttachFallsBackCleanlyWhenStdinIsNotATerminal(t *testing.T) {
	// Under `go test` stdin is never a real terminal, so Attach must
	// skip MakeRaw and still hand back a usable Console.
	c, err := Attach()
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if c.Device() == nil {
		t.Fatal("Device() returned nil")
	}
	if c.saved != nil {
		t.Fatal("saved terminal state should be nil when stdin is not a terminal")
	}
}

func TestRestoreIsSafeWithoutRawMode(t *testing.T) {
	c, err := Attach()
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	c.Restore()
	c.Restore()
}

func TestStopJoinsWorkersEvenWithoutStart(t *testing.T) {
	c, err := Attach()
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	c.Stop()
}
