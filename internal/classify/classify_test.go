package classify

import (
	"reflect"
	"testing"
)

func TestClassify_TableDriven(t *testing.T) {
	roles := []RoleSpec{
		NewRoleSpec("Product Management Intern"),
		NewRoleSpec("Technical Program Management Intern", "TPM"),
		NewRoleSpec("Data Analyst Intern", "DA Intern"),
		NewRoleSpec("Business Analyst Intern"),
	}
	c := NewClassifier(roles)

	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{
			name:  "exact match",
			title: "Product Management Intern",
			want:  []string{"Product Management Intern"},
		},
		{
			name:  "order insensitive with extra tokens",
			title: "Intern, Product Management (Summer 2026)",
			want:  []string{"Product Management Intern"},
		},
		{
			name:  "synonym phrasing",
			title: "TPM Intern - Summer 2025",
			want:  []string{"Technical Program Management Intern"},
		},
		{
			name:  "multiple roles",
			title: "Business Analyst / Data Analyst Intern",
			want:  []string{"Data Analyst Intern", "Business Analyst Intern"},
		},
		{
			name:  "edit distance one tolerates a typo",
			title: "Product Managment Intern",
			want:  []string{"Product Management Intern"},
		},
		{
			name:  "partial phrase does not match",
			title: "Product Intern",
			want:  nil,
		},
		{
			name:  "zero roles",
			title: "Senior Staff Accountant",
			want:  nil,
		},
		{
			name:  "empty title",
			title: "",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.title)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestClassify_ResultFollowsConfigOrder(t *testing.T) {
	c := NewClassifier([]RoleSpec{
		NewRoleSpec("Data Analyst Intern"),
		NewRoleSpec("Business Analyst Intern"),
	})
	got := c.Classify("Business Analyst and Data Analyst Intern")
	want := []string{"Data Analyst Intern", "Business Analyst Intern"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Classify = %v, want config order %v", got, want)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Product Management Intern", []string{"product", "management", "intern"}},
		{"TPM Intern - Summer 2025", []string{"tpm", "intern", "summer", "2025"}},
		{"Data/Business Analyst", []string{"data", "business", "analyst"}},
		{"", nil},
		{"---", nil},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEditDistanceWithin1(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"intern", "intern", true},
		{"managment", "management", true}, // one insertion
		{"analyst", "analysts", true},     // one append
		{"anaylst", "analyst", false},     // transposition is distance 2
		{"intern", "extern", false},
		{"pm", "tpm", true},
		{"data", "date", true},
		{"data", "dates", false},
		{"", "a", true},
		{"", "ab", false},
	}
	for _, tt := range tests {
		if got := editDistanceWithin1(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistanceWithin1(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
