package service

import (
	"strings"
	"testing"
)

func TestPDFExtractorRejectsNonPDF(t *testing.T) {
	extractor := NewPDFExtractor()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty input", nil},
		{"plain text", []byte("just some text, not a pdf")},
		{"truncated header", []byte("%PD")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := extractor.Extract(tt.data); err == nil {
				t.Error("Expected error for non-PDF input")
			}
		})
	}
}

func TestPDFExtractorErrorMentionsOpen(t *testing.T) {
	extractor := NewPDFExtractor()
	_, err := extractor.Extract([]byte("garbage"))
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "failed to open pdf") {
		t.Errorf("Unexpected error: %v", err)
	}
}
