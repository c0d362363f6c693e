package utils

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		maxChars   int
		maxChunks  int
		wantChunks int
		wantEmpty  bool
	}{
		{
			name:      "empty input",
			text:      "",
			maxChars:  100,
			maxChunks: 10,
			wantEmpty: true,
		},
		{
			name:      "whitespace only",
			text:      "   \n\t  ",
			maxChars:  100,
			maxChunks: 10,
			wantEmpty: true,
		},
		{
			name:       "short text single chunk",
			text:       "One sentence. Another sentence.",
			maxChars:   100,
			maxChunks:  10,
			wantChunks: 1,
		},
		{
			name:       "sentences split across chunks",
			text:       "First sentence is here. Second sentence is here. Third sentence is here.",
			maxChars:   30,
			maxChunks:  10,
			wantChunks: 3,
		},
		{
			name:       "max chunks truncates",
			text:       strings.Repeat("A full sentence right here. ", 20),
			maxChars:   30,
			maxChunks:  3,
			wantChunks: 3,
		},
		{
			name:       "no punctuation falls back to hard cut",
			text:       strings.Repeat("word ", 50),
			maxChars:   40,
			maxChunks:  0,
			wantChunks: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitText(tt.text, tt.maxChars, tt.maxChunks)

			if tt.wantEmpty {
				if got != nil {
					t.Fatalf("SplitText(%q) = %v, want nil", tt.text, got)
				}
				return
			}
			if len(got) != tt.wantChunks {
				t.Fatalf("SplitText chunks = %d (%q), want %d", len(got), got, tt.wantChunks)
			}
			for _, c := range got {
				if len([]rune(c)) > tt.maxChars {
					t.Fatalf("chunk %q exceeds max length %d", c, tt.maxChars)
				}
				if strings.TrimSpace(c) == "" {
					t.Fatalf("produced an empty chunk")
				}
			}
		})
	}
}

func TestSplitTextKeepsTerminatorRunsIntact(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "ellipsis",
			text: "Wait... what happened here?",
			want: "Wait... what happened here?",
		},
		{
			name: "interrobang",
			text: "Really?! No way.",
			want: "Really?! No way.",
		},
		{
			name: "leading terminator run",
			text: "...abc def.",
			want: "...abc def.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitText(tt.text, 500, 10)
			if len(got) != 1 || got[0] != tt.want {
				t.Fatalf("SplitText(%q) = %q, want [%q]", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitTextIsPureSegmentation(t *testing.T) {
	text := "Really?! No way... Is this true? Unfinished trailer"

	got := SplitText(text, 20, 0)

	if len(got) < 2 {
		t.Fatalf("SplitText = %q, expected multiple chunks", got)
	}
	if joined := strings.Join(got, " "); joined != text {
		t.Fatalf("chunks rejoin to %q, want the input %q", joined, text)
	}
}

func TestSplitTextDeterministic(t *testing.T) {
	text := "Alpha beta gamma. Delta epsilon zeta! Eta theta iota? " + strings.Repeat("kappa ", 100)

	a := SplitText(text, 50, 10)
	b := SplitText(text, 50, 10)

	if len(a) != len(b) {
		t.Fatalf("non-deterministic chunk count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("chunk %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestSplitTextWhitespaceNormalized(t *testing.T) {
	got := SplitText("one\n\nsentence   with\tgaps.", 100, 5)
	if len(got) != 1 || got[0] != "one sentence with gaps." {
		t.Fatalf("SplitText = %q, want normalized single chunk", got)
	}
}
