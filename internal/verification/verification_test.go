package verification

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestMockSMS(t *testing.T) {
	ctx := context.Background()
	m := NewMockSMS(testLogger())

	if m.Issued("808-555-0100") {
		t.Error("no code was issued yet")
	}

	if err := m.IssueCode(ctx, "808-555-0100"); err != nil {
		t.Fatalf("IssueCode failed: %v", err)
	}
	if !m.Issued("808-555-0100") {
		t.Error("Issued should report the number after IssueCode")
	}

	valid, err := m.CheckCode(ctx, "808-555-0100", TestCode)
	if err != nil {
		t.Fatalf("CheckCode failed: %v", err)
	}
	if !valid {
		t.Error("the test code must be accepted")
	}

	valid, err = m.CheckCode(ctx, "808-555-0100", "999999")
	if err != nil {
		t.Fatalf("CheckCode failed: %v", err)
	}
	if valid {
		t.Error("a wrong code must be rejected")
	}

	// The mock accepts the test code for any number, issued or not.
	valid, err = m.CheckCode(ctx, "808-555-9999", TestCode)
	if err != nil {
		t.Fatalf("CheckCode failed: %v", err)
	}
	if !valid {
		t.Error("the test code must be accepted for any number")
	}
}
