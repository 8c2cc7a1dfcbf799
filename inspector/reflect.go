package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mctar/pasteroids/geom"
)

// Widget types for rendering fields.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetSkip
)

// Field represents a component field with rendering hints.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
}

// ParseTag parses an inspect struct tag.
// Format: `inspect:"widget[,option:value...]"`
// Examples:
//
//	`inspect:"bar,max:3"`
//	`inspect:"angle"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"skip"`
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)

	if tag == "" {
		return WidgetAuto, options
	}

	parts := strings.Split(tag, ",")

	var widget Widget
	switch strings.TrimSpace(parts[0]) {
	case "label":
		widget = WidgetLabel
	case "bar":
		widget = WidgetBar
	case "angle":
		widget = WidgetAngle
	case "bool":
		widget = WidgetBool
	case "skip":
		widget = WidgetSkip
	default:
		widget = WidgetAuto
	}

	for _, part := range parts[1:] {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) == 2 {
			options[kv[0]] = kv[1]
		}
	}

	return widget, options
}

// ExtractFields uses reflection to extract the exported fields of a component.
func ExtractFields(component any) []Field {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var fields []Field

	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}
		fv := v.Field(i)
		if widget == WidgetAuto {
			widget = autoDetectWidget(fv)
		}

		fields = append(fields, Field{
			Name:    sf.Name,
			Value:   fv.Interface(),
			Widget:  widget,
			Options: options,
		})
	}

	return fields
}

func autoDetectWidget(v reflect.Value) Widget {
	if v.Kind() == reflect.Bool {
		return WidgetBool
	}
	return WidgetLabel
}

// FormatValue formats a field value as a string. For vectors the format
// applies to each coordinate.
func FormatValue(value any, fmtStr string) string {
	if v, ok := value.(geom.Vec2); ok {
		if fmtStr == "" {
			fmtStr = "%.2f"
		}
		return "(" + fmt.Sprintf(fmtStr, v.X) + ", " + fmt.Sprintf(fmtStr, v.Y) + ")"
	}
	if fmtStr == "" {
		switch v := value.(type) {
		case float32:
			return fmt.Sprintf("%.2f", v)
		case float64:
			return fmt.Sprintf("%.2f", v)
		default:
			return fmt.Sprintf("%v", value)
		}
	}
	return fmt.Sprintf(fmtStr, value)
}

// GetMax returns the max option, defaulting to 1.
func GetMax(options map[string]string) float64 {
	if s, ok := options["max"]; ok {
		if m, err := strconv.ParseFloat(s, 64); err == nil && m > 0 {
			return m
		}
	}
	return 1
}

// GetFloatValue extracts a float64 from numeric values.
func GetFloatValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
