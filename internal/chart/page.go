package chart

import (
	"fmt"
	"html/template"
	"io"
	"time"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0; }
#chart { display: flex; justify-content: center; }
#tooltip {
  position: absolute;
  display: none;
  opacity: 0;
  padding: 6px 10px;
  border-radius: 4px;
  background: rgba(0, 0, 0, 0.8);
  color: #fff;
  font-size: 0.9rem;
  white-space: pre-line;
  pointer-events: none;
}
footer { text-align: center; color: gray; font-size: 0.8rem; }
</style>
</head>
<body>
<div id="chart">{{.SVG}}</div>
<div id="tooltip"></div>
<footer>Rendered {{.RenderedAt}} from {{.Records}} records</footer>
<script>
function heatmapOver(evt) {
  var cell = evt.target;
  var tip = document.getElementById("tooltip");
  tip.style.opacity = {{.Enter.Opacity}};
  tip.style.display = {{.Enter.Display}};
  tip.textContent = cell.getAttribute("data-tooltip");
  tip.style.left = (evt.pageX + {{.OffsetX}}) + "px";
  tip.style.top = (evt.pageY + {{.OffsetY}}) + "px";
  tip.setAttribute("data-year", cell.getAttribute("data-year"));
}
function heatmapOut() {
  var tip = document.getElementById("tooltip");
  tip.style.opacity = {{.Leave.Opacity}};
  tip.style.display = {{.Leave.Display}};
}
</script>
</body>
</html>
`))

type pageData struct {
	Title      string
	SVG        template.HTML
	RenderedAt string
	Records    int
	OffsetX    int
	OffsetY    int
	Enter      TooltipState
	Leave      TooltipState
}

// RenderPage writes an HTML document hosting the interactive chart and its tooltip.
func (c *Chart) RenderPage(w io.Writer, renderedAt time.Time) error {
	inline, err := c.InlineSVG(SVGOptions{Interactive: true})
	if err != nil {
		return err
	}
	data := pageData{
		Title:      Title,
		SVG:        template.HTML(inline), //nolint:gosec // generated by RenderSVG with escaped values
		RenderedAt: renderedAt.UTC().Format(time.RFC3339),
		Records:    len(c.Dataset.MonthlyVariance),
		OffsetX:    TooltipOffsetX,
		OffsetY:    TooltipOffsetY,
		Enter:      OnPointerEnter(Point{}, Cell{}),
		Leave:      OnPointerLeave(),
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
