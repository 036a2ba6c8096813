package model

import (
	"testing"
)

func TestValidateAuthor(t *testing.T) {
	tests := []struct {
		name    string
		author  Author
		wantErr bool
	}{
		{name: "full", author: Author{Name: "Alice", Email: "alice@example.com"}},
		{name: "no email", author: Author{Name: "Alice"}},
		{name: "empty name", author: Author{Email: "alice@example.com"}, wantErr: true},
		{name: "blank name", author: Author{Name: "   "}, wantErr: true},
		{name: "bad email", author: Author{Name: "Alice", Email: "not-an-email"}, wantErr: true},
		{name: "double at", author: Author{Name: "Alice", Email: "a@b@c"}, wantErr: true},
	}
	for _, tts := range tests {
		tt := tts
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.author.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseAuthor(t *testing.T) {
	author, err := ParseAuthor("Alice Liddell <alice@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if author.Name != "Alice Liddell" || author.Email != "alice@example.com" {
		t.Errorf("ParseAuthor = %v", author)
	}

	if _, err := ParseAuthor("no brackets here"); err == nil {
		t.Error("expected an error for a malformed author")
	}
}

func TestSameEmailFoldsCase(t *testing.T) {
	a := Author{Name: "Alice", Email: "Alice@Example.com"}
	b := Author{Name: "Someone Else", Email: "alice@example.COM"}
	if !a.SameEmail(b) {
		t.Error("emails should compare case-insensitively")
	}
}
