package regress

import (
	"html/template"
	"os"
	"path/filepath"
)

const summaryTemplate = `<!DOCTYPE html>
<html>
    <head>
	<title>garnet: transcription factor regressions</title>
		<style type="text/css">
body {
    font-family: Lucida Console;
    width: 80%;
    margin: auto;
}
table {
    border-collapse: collapse;
}
th, td {
    border: 1px solid #aaa;
    padding: 4px 10px;
    text-align: left;
}
img {
    padding: 8px;
}
		</style>
    </head>
    <body>
    <h2>Transcription factor regressions</h2>
    <p>{{ len .TFs }} factors, sorted by ascending p-value of the slope of expression ~ motif score.</p>
    <table>
    <tr><th>Transcription Factor</th><th>Slope</th><th>P-Value</th><th></th></tr>
    {{ range .TFs }}
    <tr><td>{{ .TF }}</td><td>{{ printf "%.4g" .Slope }}</td><td>{{ printf "%.4g" .P }}</td><td><a href="{{ .Plot }}.html">chart</a></td></tr>
    {{ end }}
    </table>
    {{ range .TFs }}
    <div><h3>{{ .TF }}</h3><img src="{{ .Plot }}.png"/></div>
    {{ end }}
    </body>
</html>
`

type tfView struct {
	TF    string
	Slope float64
	P     float64
	Plot  string
}

// Report writes summary.html into dir with factors sorted by ascending
// p-value, linking the per-factor plots written during Run.
func Report(dir string, results []TFResult) error {
	sorted := make([]TFResult, len(results))
	copy(sorted, results)
	SortByP(sorted)

	views := make([]tfView, len(sorted))
	for i, r := range sorted {
		views[i] = tfView{TF: r.TF, Slope: r.Slope, P: r.P,
			Plot: filepath.ToSlash(filepath.Join(PlotDir, plotName(r.TF)))}
	}

	tmpl, err := template.New("summary").Parse(summaryTemplate)
	if err != nil {
		return err
	}
	fh, err := os.Create(filepath.Join(dir, "summary.html"))
	if err != nil {
		return err
	}
	if err := tmpl.Execute(fh, map[string]interface{}{"TFs": views}); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
