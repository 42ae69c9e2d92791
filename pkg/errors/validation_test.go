package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f1c2a7e-9b1d-4a4e-8c55-0f7e2d9b6a10", false},
		{"short", "abc", false},
		{"with dash and dot", "layout-1.v2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"traversal", "..", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/tree.layout.json", false},
		{"absolute", "/tmp/tree.layout.json", false},
		{"dotted", "../shared/tree.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"null byte", "tree\x00.json", true},
		{"control", "tree\x07.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type inner struct {
		Mode string `validate:"omitempty,oneof=fast slow"`
	}
	type request struct {
		Name  string  `validate:"required"`
		Width float64 `validate:"gt=0"`
		Limit int     `validate:"min=1,max=10"`
		Inner inner
	}

	tests := []struct {
		name    string
		in      request
		wantMsg string
	}{
		{"valid", request{Name: "a", Width: 1, Limit: 5}, ""},
		{"required", request{Width: 1, Limit: 5}, "Name: field is required"},
		{"gt", request{Name: "a", Limit: 5}, "Width: must be greater than 0"},
		{"max", request{Name: "a", Width: 1, Limit: 11}, "Limit: must not exceed 10"},
		{"nested oneof", request{Name: "a", Width: 1, Limit: 1, Inner: inner{Mode: "x"}}, "Inner.Mode: must be one of: fast, slow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !Is(err, ErrCodeInvalidInput) {
				t.Fatalf("err = %v, want INVALID_INPUT", err)
			}
			if got := UserMessage(err); got != tt.wantMsg {
				t.Errorf("message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}
