package htmlutil

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b>", "&lt;b&gt;bold&lt;/b&gt;"},
		{`a "quoted" & 'single'`, "a &#34;quoted&#34; &amp; &#39;single&#39;"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Escape(tt.input); got != tt.expected {
			t.Errorf("Escape(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"no markup here", "no markup here"},
		{"<p>hello</p>", "hello"},
		{"<div class=\"x\">a<br/>b</div>", "ab"},
		{"before <!-- comment --> after", "before  after"},
		{"&lt;literal&gt;", "<literal>"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripTags(tt.input); got != tt.expected {
			t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNl2br(t *testing.T) {
	if got := Nl2br("a\nb\r\nc"); got != "a<br />b<br />c" {
		t.Errorf("Nl2br = %q", got)
	}
}
