package pdfrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitScale(t *testing.T) {
	tests := []struct {
		name         string
		pageW, pageH float64
		vw, vh       int
		want         float64
	}{
		{
			name:  "width constrained",
			pageW: 612, pageH: 792,
			vw: 612, vh: 2000,
			want: 0.9,
		},
		{
			name:  "height constrained",
			pageW: 612, pageH: 792,
			vw: 2000, vh: 792,
			want: 0.9,
		},
		{
			name:  "upscales small pages",
			pageW: 100, pageH: 100,
			vw: 1000, vh: 1000,
			want: 9.0,
		},
		{
			name:  "wide page in tall viewport",
			pageW: 1000, pageH: 500,
			vw: 500, vh: 1000,
			want: 0.45,
		},
		{
			name:  "zero viewport falls back to natural size",
			pageW: 612, pageH: 792,
			vw: 0, vh: 600,
			want: 1.0,
		},
		{
			name:  "degenerate page falls back to natural size",
			pageW: 0, pageH: 792,
			vw: 800, vh: 600,
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FitScale(tt.pageW, tt.pageH, tt.vw, tt.vh), 1e-9)
		})
	}
}

func TestRenderScaleSupersamples(t *testing.T) {
	fit := FitScale(612, 792, 800, 600)
	assert.InDelta(t, fit*SupersampleFactor, RenderScale(612, 792, 800, 600), 1e-9)
}
