// Package resources provides static asset handling for the UI server.
package resources

import (
	"fmt"
	"path"

	"github.com/evanw/esbuild/pkg/api"
)

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// CDN scripts loaded by every page.
const (
	DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"
	PlotlyScript   = "https://cdn.plot.ly/plotly-2.35.2.min.js"
)

// StaticPath returns the URL path for a static asset.
func StaticPath(name string) string {
	return "/static/" + name
}

// Minify compresses a JavaScript or CSS asset with esbuild.
// Other files are returned unchanged.
func Minify(name string, src []byte) ([]byte, error) {
	var loader api.Loader
	switch path.Ext(name) {
	case ".js":
		loader = api.LoaderJS
	case ".css":
		loader = api.LoaderCSS
	default:
		return src, nil
	}

	result := api.Transform(string(src), api.TransformOptions{
		Loader:            loader,
		Sourcefile:        name,
		Target:            api.ES2020,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		LogLevel:          api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		var errMsg string
		for _, err := range result.Errors {
			line, col := 0, 0
			if err.Location != nil {
				line, col = err.Location.Line, err.Location.Column
			}
			errMsg += fmt.Sprintf("%s:%d:%d: %s\n", name, line, col, err.Text)
		}
		return nil, fmt.Errorf("esbuild errors:\n%s", errMsg)
	}

	return result.Code, nil
}
