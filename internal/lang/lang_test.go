package lang

import "testing"

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"en", English, false},
		{"ES", Spanish, false},
		{" de ", German, false},
		{"fr", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLanguage(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLanguage(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTutorNames(t *testing.T) {
	want := map[Language]string{English: "Emma", Spanish: "Carlos", German: "Lena"}
	for l, name := range want {
		if got := l.TutorName(); got != name {
			t.Errorf("%s.TutorName() = %q, want %q", l, got, name)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, v := range Levels() {
		got, err := ParseLevel(string(v))
		if err != nil || got != v {
			t.Errorf("ParseLevel(%q) = %q, %v", v, got, err)
		}
	}
	if got, err := ParseLevel("b2"); err != nil || got != B2 {
		t.Errorf("ParseLevel(b2) = %q, %v", got, err)
	}
	if _, err := ParseLevel("D1"); err == nil {
		t.Error("expected error for D1")
	}
	if A1.Description() != "Beginner" || C2.Description() != "Proficient" {
		t.Errorf("unexpected descriptions: %q, %q", A1.Description(), C2.Description())
	}
}

func TestParseSessionType_DefaultsToConversation(t *testing.T) {
	got, err := ParseSessionType("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != SessionConversation {
		t.Fatalf("got %q, want conversation", got)
	}
	if _, err := ParseSessionType("karaoke"); err == nil {
		t.Fatal("expected error for unknown session type")
	}
}
