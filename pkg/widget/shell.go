package widget

import (
	"html/template"
	"io"
)

// ContainerHeight is the fixed chart container height in pixels.
const ContainerHeight = 600

// Heading is the page heading above the chart.
const Heading = "TreeMap"

// Shell is the page that hosts a chart. It holds configuration only; no
// state survives a Render call.
type Shell struct {
	// LiveURL, when set, is a websocket endpoint. The page reloads whenever
	// a message arrives on it.
	LiveURL string
}

// Render writes the page with chart placed inside the chart container.
// chart must be trusted markup produced by a renderer.
func (s Shell) Render(w io.Writer, chart template.HTML) error {
	return shellTemplate.Execute(w, struct {
		Heading string
		Height  int
		Chart   template.HTML
		LiveURL string
	}{Heading, ContainerHeight, chart, s.LiveURL})
}

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Heading}}</title>
<style>
  body { font-family: sans-serif; margin: 1rem; }
  .chart-container { position: relative; width: 100%; height: {{.Height}}px; }
  .chart-container svg { width: 100%; height: 100%; font-family: sans-serif; }
</style>
</head>
<body>
<h1>{{.Heading}}</h1>
<div class="chart-container">
{{.Chart}}
</div>
{{- if .LiveURL}}
<script>
  (function () {
    var url = new URL({{.LiveURL}}, location.href);
    url.protocol = url.protocol === "https:" ? "wss:" : "ws:";
    var ws = new WebSocket(url);
    ws.onmessage = function () { location.reload(); };
  })();
</script>
{{- end}}
</body>
</html>
`))
