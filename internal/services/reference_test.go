package services

import "testing"

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"shorts url", "https://youtube.com/shorts/abc123XYZ", "abc123XYZ", true},
		{"mobile host", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"non-youtube", "https://example.com/watch?v=dQw4w9WgXcQ", "", false},
		{"missing id", "https://www.youtube.com/watch", "", false},
		{"not a url", "::::", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := extractYouTubeID(tt.url)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("extractYouTubeID(%q) = (%q, %v), want (%q, %v)", tt.url, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestParseCaptionsXML(t *testing.T) {
	xml := `<?xml version="1.0"?><transcript>
		<text start="0" dur="2">Hello &amp; welcome</text>
		<text start="2" dur="2">  </text>
		<text start="4" dur="2">to the show</text>
	</transcript>`

	got, err := parseCaptionsXML([]byte(xml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Hello & welcome to the show"
	if got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}
}

func TestParseCaptionsXMLEmpty(t *testing.T) {
	if _, err := parseCaptionsXML([]byte(`<transcript></transcript>`)); err == nil {
		t.Error("expected error for empty captions")
	}
}

func TestExtractCaptionURL(t *testing.T) {
	page := `{"captionTracks":[{"baseUrl":"https:\/\/www.youtube.com\/api\/timedtext?v=abc&lang=en"}],"foo":"bar"}, "`
	got, err := extractCaptionURL(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://www.youtube.com/api/timedtext?v=abc&lang=en"
	if got != want {
		t.Errorf("caption url = %q, want %q", got, want)
	}
}

func TestExtractCaptionURLNoCaptions(t *testing.T) {
	if _, err := extractCaptionURL(`{"nothing":"here"}`); err == nil {
		t.Error("expected error when page has no caption tracks")
	}
}
