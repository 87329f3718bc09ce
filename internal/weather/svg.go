package weather

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// Gauge dimensions and palette.
const (
	gaugeSize      = 400
	colorOuter     = "#5C56F0"
	colorInner     = "#4347D9"
	colorDisplay   = "#3F41C7"
	colorLine      = "#FFFFFF"
	colorMuted     = "#333"
	adviceFontPx   = 16
	adviceLineStep = 25
	// Rough average glyph width of a 16px sans-serif font, used for wrapping.
	adviceGlyphPx = 8
)

// SVG draws the panel as a decorative radial gauge: a 12-sided outer
// shape, an inner disc with arcs and spokes, the rounded temperature,
// "<city> - <condition>" and the wrapped clothing advice. The unavailable
// panel contains exactly the UnavailableMessage text and nothing else.
func (p Panel) SVG() []byte {
	var b strings.Builder

	w, h := float64(gaugeSize), float64(gaugeSize)
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="Arial, sans-serif">`,
		gaugeSize, gaugeSize, gaugeSize, gaugeSize)

	if !p.Available {
		fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s" font-size="24" text-anchor="middle">%s</text>`,
			num(w/2), num(h/2), colorMuted, html.EscapeString(UnavailableMessage))
		b.WriteString(`</svg>`)
		return []byte(b.String())
	}

	cx, cy := w/2, h/2
	r := math.Min(w, h) / 2.5

	// outer dodecagon
	pts := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		x, y := polar(cx, cy, r, float64(i)*2*math.Pi/12)
		pts = append(pts, num(x)+","+num(y))
	}
	fmt.Fprintf(&b, `<polygon points="%s" fill="%s"/>`, strings.Join(pts, " "), colorOuter)

	circle(&b, cx, cy, r*0.7, colorInner)

	// decorative arcs, one per side
	for i := 0; i < 12; i++ {
		start := float64(i) * 2 * math.Pi / 12
		x1, y1 := polar(cx, cy, r*0.85, start)
		x2, y2 := polar(cx, cy, r*0.85, start+math.Pi/12)
		fmt.Fprintf(&b, `<path d="M %s %s A %s %s 0 0 1 %s %s" fill="none" stroke="%s" stroke-width="2"/>`,
			num(x1), num(y1), num(r*0.85), num(r*0.85), num(x2), num(y2), colorLine)
	}

	// vertex dots
	for i := 0; i < 12; i++ {
		x, y := polar(cx, cy, r, float64(i)*2*math.Pi/12)
		circle(&b, x, y, 5, colorLine)
	}

	circle(&b, cx, cy, r*0.4, colorDisplay)

	// spokes
	var spokes strings.Builder
	for i := 0; i < 6; i++ {
		x, y := polar(cx, cy, r*0.6, float64(i)*2*math.Pi/6)
		fmt.Fprintf(&spokes, "M %s %s L %s %s ", num(cx), num(cy), num(x), num(y))
	}
	fmt.Fprintf(&b, `<path d="%s" stroke="%s" stroke-width="1"/>`, strings.TrimSpace(spokes.String()), colorLine)

	fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s" font-size="48" text-anchor="middle">%s</text>`,
		num(cx), num(cy+15), colorLine, html.EscapeString(p.Temperature))

	// title background: upper half disc
	ty := cy - r*0.5
	tr := r * 0.3
	fmt.Fprintf(&b, `<path d="M %s %s A %s %s 0 0 1 %s %s Z" fill="%s"/>`,
		num(cx-tr), num(ty), num(tr), num(tr), num(cx+tr), num(ty), colorDisplay)
	fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s" font-size="20" text-anchor="middle">%s</text>`,
		num(cx), num(ty), colorLine, html.EscapeString(p.Title))

	y := cy + r*0.4
	for _, line := range Wrap(p.Advice, int(r*1.5)/adviceGlyphPx) {
		fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s" font-size="%d" text-anchor="middle">%s</text>`,
			num(cx), num(y), colorLine, adviceFontPx, html.EscapeString(line))
		y += adviceLineStep
	}

	b.WriteString(`</svg>`)
	return []byte(b.String())
}

// Wrap splits text into lines of at most maxChars characters, breaking on
// spaces. A single word longer than maxChars gets a line of its own.
func Wrap(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxChars <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > maxChars {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

func polar(cx, cy, r, angle float64) (float64, float64) {
	return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
}

func circle(b *strings.Builder, cx, cy, r float64, fill string) {
	fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`, num(cx), num(cy), num(r), fill)
}

func num(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
