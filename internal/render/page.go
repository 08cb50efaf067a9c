package render

import (
	"html/template"

	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
)

// PageTemplateName is the name to pass to gin's c.HTML.
const PageTemplateName = "page"

// PageData feeds the statistics page.
type PageData struct {
	Name   string
	Query  string
	Error  string
	Tables []Table
}

// NewPageData renders every table of a report for the page.
func NewPageData(name string, run model.ReportRun, f Formatter) PageData {
	return PageData{Name: name, Query: run.Query, Tables: BuildTables(run.Report, f)}
}

// PageTemplate returns the statistics page template.
func PageTemplate() *template.Template {
	return template.Must(template.New(PageTemplateName).Parse(pageHTML))
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Country Statistics</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
</head>
<body class="container py-4">
<h1>Country Statistics</h1>
<form id="searchForm" class="row g-2 mb-3" method="get" action="/">
  <div class="col-auto"><input id="countryName" name="name" class="form-control" placeholder="Country name" value="{{.Name}}"></div>
  <div class="col-auto"><button type="submit" class="btn btn-primary">Search</button></div>
  <div class="col-auto"><a id="allButton" class="btn btn-secondary" href="/?all=1">All countries</a></div>
</form>
<div id="statistics">
{{- if .Error}}
  <div class="alert alert-danger">{{.Error}}</div>
{{- end}}
{{- range .Tables}}
  <h4 class="mt-3">{{.Title}}</h4>
  <table class="table table-striped" id="{{.Name}}">
    <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
    <tbody>
    {{- range .Rows}}
      <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
    {{- end}}
    </tbody>
  </table>
{{- end}}
</div>
</body>
</html>
`
