package validator

import (
	"context"
	"strings"
	"testing"
)

type playerInput struct {
	DisplayName string `json:"display_name" validate:"required,notblank,maxrunes=5"`
	Email       string `json:"email" validate:"omitempty,email"`
	Role        string `json:"role" validate:"omitempty,oneof=admin player"`
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		in      playerInput
		wantErr string
	}{
		{"ok", playerInput{DisplayName: "Ann", Email: "ann@club.test", Role: "admin"}, ""},
		{"runes not bytes", playerInput{DisplayName: "ÉÉÉÉÉ"}, ""},
		{"blank", playerInput{DisplayName: "   "}, ErrFieldRequired},
		{"too long", playerInput{DisplayName: "abcdef"}, ErrFieldExceedsMaxLen},
		{"bad email", playerInput{DisplayName: "Ann", Email: "nope"}, ErrInvalidEmail},
		{"bad role", playerInput{DisplayName: "Ann", Role: "captain"}, ErrInvalidChoice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(context.Background(), tc.in)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.HasPrefix(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want prefix %q", err, tc.wantErr)
			}
		})
	}
}
