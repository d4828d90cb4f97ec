package protocol

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestReservedErrorFactories(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		code    int
		message string
	}{
		{name: "parse error", err: NewParseError(), code: -32700, message: "Parse error"},
		{name: "invalid request", err: NewInvalidRequest(), code: -32600, message: "Invalid Request"},
		{name: "method not found", err: NewMethodNotFound(), code: -32601, message: "Method not found"},
		{name: "invalid params", err: NewInvalidParams(), code: -32602, message: "Invalid params"},
		{name: "internal error", err: NewInternalError(), code: -32603, message: "Internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.code)
			}
			if tt.err.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.message)
			}
			if tt.err.Data != nil {
				t.Errorf("Data = %v, want nil", tt.err.Data)
			}
			if !Reserved(tt.err.Code) {
				t.Errorf("Reserved(%d) = false, want true", tt.err.Code)
			}
		})
	}
}

func TestNewError(t *testing.T) {
	err := NewError(1001, "order not found", map[string]any{"id": 7})
	if err.Code != 1001 {
		t.Errorf("Code = %d, want 1001", err.Code)
	}
	if err.Message != "order not found" {
		t.Errorf("Message = %q, want %q", err.Message, "order not found")
	}
	if err.Data == nil {
		t.Error("Data = nil, want attached data")
	}
	if Reserved(err.Code) {
		t.Errorf("Reserved(%d) = true, want false", err.Code)
	}
}

func TestError_Is(t *testing.T) {
	err := NewMethodNotFound().WithData("sum")

	if !errors.Is(err, NewMethodNotFound()) {
		t.Error("expected errors.Is to match by code")
	}
	if errors.Is(err, NewInternalError()) {
		t.Error("expected errors.Is not to match different code")
	}
	if errors.Is(err, errors.New("plain")) {
		t.Error("expected errors.Is not to match non-protocol error")
	}
}

func TestError_WithData(t *testing.T) {
	base := NewInvalidParams()
	withData := base.WithData([]string{"a"})

	if base.Data != nil {
		t.Error("WithData must not mutate the original error")
	}
	if withData.Data == nil {
		t.Error("expected data on the copy")
	}
	if withData.Code != base.Code || withData.Message != base.Message {
		t.Error("expected code and message to carry over")
	}
}

func TestError_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewInternalError())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"code":-32603,"message":"Internal error"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
