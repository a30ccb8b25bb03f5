package http

import (
	"html/template"

	"github.com/kjstillabower/bike-rental-dashboard/internal/charts"
	"github.com/kjstillabower/bike-rental-dashboard/internal/views"
)

const (
	pageTitle   = "Bike Rental Analysis"
	footerNote  = "Choose the plot you want to see from the options above."
	emptyNotice = "The dataset contains no rentals, so there is nothing to plot."
)

// pageData is the template input for the dashboard page.
type pageData struct {
	Title   string
	Options []views.Option
	Panel   *charts.Panel
	Notice  string
	Footer  string
}

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 2em auto; }
figure { margin: 1em 0; }
img { max-width: 100%; }
.caption h4 { margin-bottom: 0.2em; }
footer { margin-top: 2em; color: #555; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="get" action="/">
<label for="view">Select a view</label>
<select id="view" name="view" onchange="this.form.submit()">
{{- range .Options}}
<option value="{{.Slug}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
{{- end}}
</select>
<noscript><button type="submit">Show</button></noscript>
</form>
{{- if .Notice}}
<p class="notice">{{.Notice}}</p>
{{- end}}
{{- with .Panel}}
<h2>{{.Label}}</h2>
{{- $slug := .Slug}}
{{- range $i, $s := .Sections}}
<section>
<h3>{{$s.Heading}}</h3>
<figure><img src="/charts/{{$slug}}/{{$i}}" alt="{{$s.Chart.Title}}"></figure>
{{- range $s.Captions}}
<div class="caption"><h4>{{.Heading}}</h4><p>{{.Text}}</p></div>
{{- end}}
</section>
{{- end}}
{{- end}}
<footer>{{.Footer}}</footer>
</body>
</html>
`))
