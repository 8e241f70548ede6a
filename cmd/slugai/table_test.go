package main

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Time", "Title", "Message"}, [][]string{
		{"2025-03-01 12:00:00", "Bonjour", "Proxy response did not include a slug."},
		{"2025-03-01 12:01:00", "Salut"},
	})

	for _, want := range []string{"TIME", "TITLE", "MESSAGE", "Bonjour", "Salut", "Proxy response did not include a slug."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in table, got:\n%s", want, out)
		}
	}
}

func TestRenderTable_NoHeaders(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}
