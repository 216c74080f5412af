// Package verification provides the phone verification collaborator.
package verification

import (
	"context"
	"log/slog"
	"sync"
)

// Service issues and checks SMS verification codes. Implementations may
// back onto a real SMS provider; the interface is the contract the tool
// executor depends on.
type Service interface {
	// IssueCode sends a 6-digit code to the phone number.
	IssueCode(ctx context.Context, phoneNumber string) error
	// CheckCode reports whether the code is valid for the phone number.
	CheckCode(ctx context.Context, phoneNumber, code string) (bool, error)
}

// TestCode is the code the mock provider always accepts.
const TestCode = "123456"

// MockSMS is the reference stand-in provider: it logs the "sent" code and
// accepts only TestCode. Swap in a real provider behind Service for
// production.
type MockSMS struct {
	logger *slog.Logger

	mu     sync.Mutex
	issued map[string]bool
}

// NewMockSMS creates the mock provider.
func NewMockSMS(logger *slog.Logger) *MockSMS {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockSMS{
		logger: logger,
		issued: make(map[string]bool),
	}
}

// IssueCode records the number and logs the would-be SMS.
func (m *MockSMS) IssueCode(ctx context.Context, phoneNumber string) error {
	m.mu.Lock()
	m.issued[phoneNumber] = true
	m.mu.Unlock()

	m.logger.Info("mock SMS: verification code sent", "phone", phoneNumber, "code", TestCode)
	return nil
}

// CheckCode accepts the fixed test code for any number.
func (m *MockSMS) CheckCode(ctx context.Context, phoneNumber, code string) (bool, error) {
	valid := code == TestCode
	m.logger.Info("mock SMS: code checked", "phone", phoneNumber, "valid", valid)
	return valid, nil
}

// Issued reports whether a code was issued to the number (test hook).
func (m *MockSMS) Issued(phoneNumber string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.issued[phoneNumber]
}
