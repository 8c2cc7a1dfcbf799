// Package inspector selects an entity under the mouse and shows its
// components, laid out from their `inspect` struct tags.
package inspector

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mctar/pasteroids/geom"
	"github.com/mctar/pasteroids/world"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30

	// PickTolerance is how far outside an entity's outline a click still selects it.
	PickTolerance = 6
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 20, G: 22, B: 30, A: 235}
	ColorPanelHeader = rl.Color{R: 40, G: 44, B: 58, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 76, B: 96, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 46, G: 50, B: 66, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 210, B: 230, A: 255}
	ColorHighlight   = rl.Color{R: 120, G: 220, B: 255, A: 200}
)

// Section is one component's fields under a title.
type Section struct {
	Title  string
	Fields []Field
}

// Sections lists the components carried by id in a fixed order. It returns nil
// when id is gone.
func Sections(w *world.World, id world.EntityID) []Section {
	if !w.Alive(id) {
		return nil
	}

	var sections []Section
	add := func(title string, component any) {
		if fields := ExtractFields(component); len(fields) > 0 {
			sections = append(sections, Section{Title: title, Fields: fields})
		}
	}
	add("TRANSFORM", w.Transform(id))
	add("RIGID BODY", w.RigidBody(id))
	add("SHIP", w.ShipControl(id))
	add("WEAPON", w.WeaponState(id))
	add("NOODLE", w.Noodle(id))
	add("PROJECTILE", w.Projectile(id))
	add("LIFETIME", w.Lifetime(id))
	return sections
}

// Kind names the role of id.
func Kind(w *world.World, id world.EntityID) string {
	switch {
	case w.ShipControl(id) != nil:
		return "Ship"
	case w.Noodle(id) != nil:
		return "Noodle"
	case w.Projectile(id) != nil:
		return "Projectile"
	default:
		return "Entity"
	}
}

// Pick returns the entity whose outline is nearest to point, counting only
// entities within tolerance of it. Ties go to the oldest entity.
func Pick(w *world.World, point geom.Vec2, tolerance float64) (world.EntityID, bool) {
	eps := w.Config().Math.Epsilon

	var picked world.EntityID
	found := false
	best := math.Inf(1)

	for id, tr := range w.Transforms() {
		d, ok := outlineDistance(w, id, tr.Position, tr.Rotation, point, eps)
		if !ok || d > tolerance || d >= best {
			continue
		}
		picked, best, found = id, d, true
	}
	return picked, found
}

// outlineDistance is the signed distance from point to id's outline, negative inside.
func outlineDistance(w *world.World, id world.EntityID, pos geom.Vec2, rot float64, point geom.Vec2, eps float64) (float64, bool) {
	if sc := w.ShipControl(id); sc != nil {
		return point.Sub(pos).Len() - sc.Radius, true
	}
	if n := w.Noodle(id); n != nil {
		c := geom.CapsuleEndpoints(pos, rot, n.LongAxis, n.ShortAxis)
		return math.Sqrt(geom.PointToSegmentDistanceSquared(point, c.Start, c.End, eps)) - c.Radius, true
	}
	if p := w.Projectile(id); p != nil {
		return point.Sub(pos).Len() - p.Radius, true
	}
	return 0, false
}

// Inspector manages entity selection and panel rendering.
type Inspector struct {
	selected    world.EntityID
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth int32) *Inspector {
	ins := &Inspector{}
	ins.SetScreenWidth(screenWidth)
	return ins
}

// SetScreenWidth moves the panel to the right edge of a resized screen.
func (ins *Inspector) SetScreenWidth(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 90
}

// HandleInput processes click detection for entity selection.
func (ins *Inspector) HandleInput(w *world.World) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	mouse := rl.GetMousePosition()
	mx, my := int32(mouse.X), int32(mouse.Y)

	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if mx >= closeX && mx <= closeX+20 && my >= closeY && my <= closeY+20 {
			ins.Deselect()
			return
		}
		// Clicks inside the panel never select.
		if mx >= ins.panelX && mx <= ins.panelX+PanelWidth && my >= ins.panelY && my <= ins.panelY+ins.panelHeight(w) {
			return
		}
	}

	if id, ok := Pick(w, geom.V(float64(mouse.X), float64(mouse.Y)), PickTolerance); ok {
		ins.Select(id)
	}
}

// Select makes id the inspected entity.
func (ins *Inspector) Select(id world.EntityID) {
	ins.selected = id
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected entity.
func (ins *Inspector) Selected() (world.EntityID, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the inspector panel if an entity is selected. A selection whose
// entity was destroyed is dropped.
func (ins *Inspector) Draw(w *world.World) {
	if !ins.hasSelected {
		return
	}
	sections := Sections(w, ins.selected)
	if sections == nil {
		ins.Deselect()
		return
	}

	height := panelHeight(sections)
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(Kind(w, ins.selected)+" #"+FormatValue(ins.selected, ""), ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, s := range sections {
		ins.drawSectionHeader(x, y, s.Title)
		y += 20
		for _, f := range s.Fields {
			y += DrawField(x, y, f)
		}
		y += 4
	}
}

func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

func (ins *Inspector) panelHeight(w *world.World) int32 {
	return panelHeight(Sections(w, ins.selected))
}

func panelHeight(sections []Section) int32 {
	height := int32(HeaderHeight + PanelPadding)
	for _, s := range sections {
		height += 20 + 4
		for _, f := range s.Fields {
			height += FieldHeight(f)
		}
	}
	return height + PanelPadding
}

// DrawSelectionHighlight rings the selected entity.
func (ins *Inspector) DrawSelectionHighlight(w *world.World) {
	if !ins.hasSelected {
		return
	}
	tr := w.Transform(ins.selected)
	if tr == nil {
		return
	}

	radius := float32(10)
	switch {
	case w.ShipControl(ins.selected) != nil:
		radius = float32(w.ShipControl(ins.selected).Radius)
	case w.Noodle(ins.selected) != nil:
		radius = float32(w.Noodle(ins.selected).LongAxis / 2)
	case w.Projectile(ins.selected) != nil:
		radius = float32(w.Projectile(ins.selected).Radius)
	}
	radius += 6

	cx, cy := int32(tr.Position.X), int32(tr.Position.Y)
	rl.DrawCircleLines(cx, cy, radius, ColorHighlight)
	rl.DrawCircleLines(cx, cy, radius+1, rl.Color{R: ColorHighlight.R, G: ColorHighlight.G, B: ColorHighlight.B, A: ColorHighlight.A / 2})
}
