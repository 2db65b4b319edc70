// Package templates holds the server-rendered components of the dashboard.
// The page shell is rendered once; the data inside it is driven by the
// JSON API from static/app.js.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard is the single-page dashboard shell.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardHTML)
		return err
	})
}

// ErrorAlert is the error fragment returned to HTMX requests: the mapped
// message, the suggested action and the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<div class="alert alert-error" role="alert"><p>`+
				templ.EscapeString(message)+
				`</p><p class="alert-action">`+
				templ.EscapeString(action)+
				`</p><span class="alert-code">`+
				templ.EscapeString(code)+
				`</span></div>`)
		return err
	})
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Bank Marketing Analytics Dashboard</title>
<link rel="stylesheet" href="/static/styles.css">
</head>
<body>
<header>
<h1 class="main-header">Bank Marketing Campaign Analysis</h1>
<p class="sub-header">An interactive dashboard to explore customer demographics and campaign outcomes.</p>
</header>

<aside id="sidebar">
<section>
<h2>Controls &amp; Setup</h2>
<form id="upload-form">
<label for="file-input">Upload your CSV file</label>
<input type="file" id="file-input" name="file" accept=".csv,text/csv">
<button type="submit">Load</button>
</form>
</section>
<section id="filters" hidden>
<h2>Filters</h2>
<label for="cat-column">Categorical column</label>
<select id="cat-column"></select>
<div id="cat-values"></div>
<div id="range-filter" hidden>
<label id="range-label" for="range-min">Numeric range</label>
<input type="number" id="range-min"> – <input type="number" id="range-max">
</div>
<button id="apply-filters">Apply</button>
</section>
</aside>

<main>
<div id="messages"></div>
<section id="metrics" hidden>
<h2 class="section-header">Dashboard at a Glance</h2>
<div class="metric-row">
<div class="metric-container"><span class="metric-label">Total Records</span><span id="metric-rows" class="metric-value"></span></div>
<div class="metric-container"><span class="metric-label">Total Attributes</span><span id="metric-cols" class="metric-value"></span></div>
<div class="metric-container"><span class="metric-label" id="metric-mean-label">Average</span><span id="metric-mean" class="metric-value"></span></div>
</div>
</section>

<section id="tabs" hidden>
<nav>
<button data-tab="overview" class="tab active">Data Overview</button>
<button data-tab="charts" class="tab">Visual Analysis</button>
<button data-tab="export" class="tab">Export Data</button>
</nav>
<div id="tab-overview" class="tab-panel">
<h3 class="section-header">Data Preview &amp; Statistics</h3>
<div id="preview-table"></div>
<h3>Summary Statistics</h3>
<div id="describe-table"></div>
</div>
<div id="tab-charts" class="tab-panel" hidden>
<h3 class="section-header">Visual Data Exploration</h3>
<label for="x-axis">X-axis</label><select id="x-axis"></select>
<label for="y-axis">Y-axis (optional)</label><select id="y-axis"></select>
<div class="chart-row">
<figure><figcaption>Distribution (Histogram)</figcaption><div id="histogram"></div></figure>
<figure><figcaption>Relationship Plot</figcaption><canvas id="scatter" width="420" height="300"></canvas></figure>
</div>
</div>
<div id="tab-export" class="tab-panel" hidden>
<h3 class="section-header">Export Processed Data</h3>
<p>Download the currently filtered dataset as a CSV file.</p>
<a id="export-link" class="button" download>Download Data as CSV</a>
</div>
</section>
</main>

<script src="/static/app.js"></script>
</body>
</html>
`
