package render

import (
	"context"
	"testing"

	errs "github.com/matzehuels/distortviz/pkg/errors"
)

func TestMissingConverter(t *testing.T) {
	old := converter
	converter = "distortviz-no-such-binary"
	t.Cleanup(func() { converter = old })

	if Available() {
		t.Fatal("Available() = true for a missing binary")
	}
	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	if !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("ToPDF err = %v, want UNSUPPORTED", err)
	}
	_, err = ToPNG(context.Background(), []byte("<svg/>"), 2)
	if !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("ToPNG err = %v, want UNSUPPORTED", err)
	}
}

func TestConvertPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`)
	pdf, err := ToPDF(context.Background(), svg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		t.Errorf("output is not a PDF: %q", pdf[:min(len(pdf), 16)])
	}
}
