// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/folio/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

func TestValidateStruct_Profiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     models.CreateProfileRequest
		wantField string
		wantTag   string
	}{
		{
			name:  "valid",
			input: models.CreateProfileRequest{Username: "ada.lovelace", Email: "ada@example.com"},
		},
		{
			name:      "missing username",
			input:     models.CreateProfileRequest{Email: "ada@example.com"},
			wantField: "username",
			wantTag:   "required",
		},
		{
			name:      "username with slash",
			input:     models.CreateProfileRequest{Username: "ada/lovelace", Email: "ada@example.com"},
			wantField: "username",
			wantTag:   "username",
		},
		{
			name:      "username too long",
			input:     models.CreateProfileRequest{Username: strings.Repeat("a", 65), Email: "ada@example.com"},
			wantField: "username",
			wantTag:   "username",
		},
		{
			name:      "missing email",
			input:     models.CreateProfileRequest{Username: "ada"},
			wantField: "email",
			wantTag:   "required",
		},
		{
			name:      "email too long",
			input:     models.CreateProfileRequest{Username: "ada", Email: strings.Repeat("a", 250) + "@x.io"},
			wantField: "email",
			wantTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("ValidateStruct() = nil, want error on %s", tt.wantField)
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestValidateStruct_NotBlank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title   string
		wantErr bool
	}{
		{"Dune", false},
		{"  Dune  ", false},
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{strings.Repeat("x", models.MaxTitleLength), false},
		{strings.Repeat("x", models.MaxTitleLength+1), true},
	}

	for _, tt := range tests {
		req := models.RecommendationRequest{Title: tt.title}
		verr := ValidateStruct(&req)
		if (verr != nil) != tt.wantErr {
			t.Errorf("ValidateStruct(%q) = %v, wantErr %v", tt.title, verr, tt.wantErr)
		}
	}
}

func TestValidateStruct_SimilarBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		k       int
		wantMsg string
	}{
		{"lower bound", 1, ""},
		{"upper bound", 100, ""},
		{"zero", 0, "k must be at least 1"},
		{"too large", 101, "k must be at most 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&models.SimilarBooksRequest{Query: "space opera", K: tt.k})
			if tt.wantMsg == "" {
				if verr != nil {
					t.Errorf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil || verr.Error() != tt.wantMsg {
				t.Errorf("ValidateStruct() = %v, want %q", verr, tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	t.Run("single error", func(t *testing.T) {
		t.Parallel()

		verr := ValidateStruct(&models.NotificationRequest{Username: "ada"})
		if verr == nil {
			t.Fatal("expected validation error")
		}
		apiErr := verr.ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
		}
		if apiErr.Message != "title is required" {
			t.Errorf("Message = %q, want %q", apiErr.Message, "title is required")
		}
		if apiErr.Details["field"] != "title" {
			t.Errorf("Details[field] = %v, want title", apiErr.Details["field"])
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		t.Parallel()

		verr := ValidateStruct(&models.NotificationRequest{})
		if verr == nil {
			t.Fatal("expected validation error")
		}
		apiErr := verr.ToAPIError()
		if !strings.Contains(apiErr.Message, "username: username is required") {
			t.Errorf("Message = %q, missing username error", apiErr.Message)
		}
		if !strings.Contains(apiErr.Message, "title: title is required") {
			t.Errorf("Message = %q, missing title error", apiErr.Message)
		}
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Errorf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q, want Validation failed", apiErr.Message)
		}
	})
}

func TestValidateStruct_NonStruct(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct("not a struct")
	if verr == nil {
		t.Fatal("expected error for non-struct input")
	}
	if verr.Errors()[0].Field() != "unknown" {
		t.Errorf("Field() = %q, want unknown", verr.Errors()[0].Field())
	}
}
