package layout

import (
	"testing"

	"github.com/penwyp/go-phase-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func TestClampWidth(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  int
	}{
		{"zero falls back", 0, DefaultWidth},
		{"negative falls back", -5, DefaultWidth},
		{"narrow", 20, MinWidth},
		{"in range", 72, 72},
		{"wide", 200, MaxWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampWidth(tt.width))
		})
	}
}

func TestSizerWithoutTerminal(t *testing.T) {
	s := Sizer{fd: -1}
	assert.Equal(t, DefaultWidth, s.GetMaxWidth())
}

func TestBaseStrategyWidth(t *testing.T) {
	b := &BaseStrategy{}
	assert.Equal(t, 50, b.Width(model.LayoutParam{Width: 50}))
	assert.Equal(t, MinWidth, b.Width(model.LayoutParam{Width: 10}))
}
