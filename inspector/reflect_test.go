package inspector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mctar/pasteroids/components"
	"github.com/mctar/pasteroids/geom"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		widget  Widget
		options map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar,max:3", WidgetBar, map[string]string{"max": "3"}},
		{"label,fmt:%.1f", WidgetLabel, map[string]string{"fmt": "%.1f"}},
		{"angle", WidgetAngle, map[string]string{}},
		{"skip", WidgetSkip, map[string]string{}},
		{"mystery", WidgetAuto, map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			widget, options := ParseTag(tt.tag)
			assert.Equal(t, tt.widget, widget)
			assert.Equal(t, tt.options, options)
		})
	}
}

func TestExtractFields_SkipsTaggedFields(t *testing.T) {
	p := &components.Projectile{
		Radius: 2,
		Damage: 1,
		Trail:  []geom.Vec2{{X: 1, Y: 1}},
	}

	fields := ExtractFields(p)

	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Radius", "Damage", "Accel", "ProximityFuse"}, names)
	assert.Equal(t, WidgetBool, fields[3].Widget)
}

func TestExtractFields_NilAndNonStruct(t *testing.T) {
	var n *components.Noodle
	assert.Nil(t, ExtractFields(n))
	assert.Nil(t, ExtractFields(42))
}

func TestExtractFields_BarOptions(t *testing.T) {
	fields := ExtractFields(components.Noodle{LongAxis: 60, ShortAxis: 40, HP: 2, ScoreValue: 100})
	require.Len(t, fields, 4)

	hp := fields[2]
	assert.Equal(t, "HP", hp.Name)
	assert.Equal(t, WidgetBar, hp.Widget)
	assert.Equal(t, 3.0, GetMax(hp.Options))
	assert.Equal(t, int32(barHeight), FieldHeight(hp))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "(1.5, -2.0)", FormatValue(geom.V(1.5, -2), "%.1f"))
	assert.Equal(t, "(0.00, 0.00)", FormatValue(geom.Vec2{}, ""))
	assert.Equal(t, "3.14", FormatValue(3.14159, ""))
	assert.Equal(t, "7", FormatValue(7, ""))
	assert.Equal(t, "blast", FormatValue("blast", ""))
}

func TestGetMax_Default(t *testing.T) {
	assert.Equal(t, 1.0, GetMax(nil))
	assert.Equal(t, 1.0, GetMax(map[string]string{"max": "zero"}))
	assert.Equal(t, 0.6, GetMax(map[string]string{"max": "0.6"}))
}
