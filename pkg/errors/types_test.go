package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeSourceSchema, "missing required column").
		WithContext("column", "matricula")

	msg := err.Error()
	if !strings.Contains(msg, "[SOURCE_SCHEMA]") {
		t.Errorf("missing code in %q", msg)
	}
	if !strings.Contains(msg, "column: matricula") {
		t.Errorf("missing context in %q", msg)
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if Wrap(nil, ErrCodeSourceFetch, "x") != nil {
		t.Fatal("Wrap(nil, ...) != nil")
	}
}

func TestWrapPreservesChain(t *testing.T) {
	root := fmt.Errorf("connection refused")
	err := Wrap(root, ErrCodeSourceFetch, "fetching whitelist").WithRetryable(true)

	if !errors.Is(err, root) {
		t.Fatal("errors.Is lost the underlying error")
	}
	if !err.Retryable {
		t.Fatal("Retryable not set")
	}
	if !IsCode(err, ErrCodeSourceFetch) {
		t.Fatal("IsCode mismatch")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeStorageWrite, "x")); got != ErrCodeStorageWrite {
		t.Fatalf("GetCode = %s", got)
	}
	if got := GetCode(fmt.Errorf("plain")); got != ErrCodeInternal {
		t.Fatalf("GetCode(plain) = %s", got)
	}
	if got := GetCode(nil); got != "" {
		t.Fatalf("GetCode(nil) = %s", got)
	}
}

func TestUserMessageOf(t *testing.T) {
	err := New(ErrCodeSourceFetch, "GET failed").
		WithUserMessage("Could not load the drawings table.")
	if got := UserMessageOf(err, "fallback"); got != "Could not load the drawings table." {
		t.Fatalf("UserMessageOf = %q", got)
	}
	if got := UserMessageOf(fmt.Errorf("plain"), "fallback"); got != "fallback" {
		t.Fatalf("UserMessageOf(plain) = %q", got)
	}
}
