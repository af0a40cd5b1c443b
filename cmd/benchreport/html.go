// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"html/template"
	"os"

	"github.com/ringq/perf/benchchart"
)

// A reportChart is one figure of report.html with its plotted
// points. Series is empty for the histogram figure.
type reportChart struct {
	Name   string
	Series []benchchart.Series
}

var reportTemplate = template.Must(template.New("").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>RingQ Benchmark Report</title>
<style>
body { font-family: sans-serif; max-width: 60em; margin: auto; }
img { max-width: 100%; }
.series { border-collapse: collapse; }
.series th, .series td { border: 1px solid #ccc; padding: 0.2em 0.8em; text-align: right; }
.series th:first-child, .series td:first-child { text-align: left; }
</style>
</head>
<body>
<h1>RingQ Benchmark Report</h1>
{{range . -}}
<h2>{{.Name}}</h2>
<img src="{{.Name}}" alt="{{.Name}}">
{{- if .Series}}
<table class="series">
<tr><th>series<th>x<th>y
{{range $s := .Series}}{{range $i, $x := $s.X -}}
<tr><td>{{$s.Label}}<td>{{$x}}<td>{{index $s.Y $i}}
{{end}}{{end -}}
</table>
{{- end}}
{{end -}}
</body>
</html>
`))

// writeReport writes report.html next to the figures it references.
func writeReport(path string, charts []reportChart) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := reportTemplate.Execute(f, charts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
