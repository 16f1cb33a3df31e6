package errors_test

import (
	"errors"
	"testing"

	. "dailysketch/pkg/errors"
)

func TestErrorCode_Message(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{Success, "success"},
		{ConfigMissing, "missing required configuration"},
		{FetchBatchFailed, "fetch expired batch failed"},
		{PartialRemoveFailed, "one or more objects failed to delete"},
		{EntitlementAmbiguous, "entitlement check returned no usable result"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.code.Message(); got != tt.want {
				t.Errorf("Message() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	err := New(DatabaseError)

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if err.Code != DatabaseError {
		t.Errorf("Code = %v, want DatabaseError", err.Code)
	}
	if err.Error() != DatabaseError.Message() {
		t.Errorf("Error() = %v, want default message", err.Error())
	}
}

func TestWrapPreservesUnderlyingError(t *testing.T) {
	underlying := errors.New("connection refused")
	err := Wrap(underlying, StorageConnFailed)

	if !errors.Is(err, underlying) {
		t.Error("wrapped error should match underlying with errors.Is")
	}
	if err.Code != StorageConnFailed {
		t.Errorf("Code = %v, want StorageConnFailed", err.Code)
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if err := Wrap(nil, DatabaseError); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil error", nil, Success},
		{"custom error", New(BucketNotFound), BucketNotFound},
		{"plain error", errors.New("boom"), InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := Newf(PartialRemoveFailed, "2 of 5 objects failed to delete")

	if !Is(err, PartialRemoveFailed) {
		t.Error("Is() should match the error's code")
	}
	if Is(err, DeleteRowsFailed) {
		t.Error("Is() should not match a different code")
	}
	if Is(nil, PartialRemoveFailed) {
		t.Error("Is(nil) should be false")
	}
}

func TestWithDetail(t *testing.T) {
	err := EntitlementErr("owner-1", errors.New("timeout"))

	if err.Details["owner_id"] != "owner-1" {
		t.Errorf("Details[owner_id] = %v, want owner-1", err.Details["owner_id"])
	}
}
