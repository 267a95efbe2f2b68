// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"bytes"
	"text/template"
	"time"

	"github.com/pdiddy/api-router/pkg/types"
)

// apiDoc describes one API to the model: what goes in and what comes out.
type apiDoc struct {
	Name   types.APIName
	Input  []string
	Output []string
}

var apiDocs = []apiDoc{
	{
		Name: types.APIGoogleSearch,
		Input: []string{
			"search_term: str - The search query",
			"num_results: int - Number of results to return (default: 10)",
		},
		Output: []string{
			"List of search results, each containing title, link, snippet and webpage_content",
		},
	},
	{
		Name: types.APIStockData,
		Input: []string{
			"symbol: str - Stock symbol (e.g., 'AAPL')",
			"date: Optional[str] - Date in format 'YYYY-MM-DD'",
		},
		Output: []string{
			"Current data: symbol, price, change, change_percent",
			"Historical data: date, open, high, low, close, volume",
		},
	},
	{
		Name: types.APISentiment,
		Input: []string{
			"text: str - Text to analyze",
		},
		Output: []string{
			`sentiment: "positive", "negative", or "neutral"`,
			"polarity: float - Sentiment polarity score",
			"subjectivity: float - Subjectivity score",
		},
	},
	{
		Name: types.APIWeather,
		Input: []string{
			`location: str - Location string (e.g., "Palo Alto, CA")`,
			"date: str - Date in YYYY-MM-DD format",
			`hour: str - Hour in 24-hour format (default: "12")`,
		},
		Output: []string{
			"temperature, weather_description, humidity, wind_speed",
		},
	},
}

func docFor(api types.APIName) apiDoc {
	for _, d := range apiDocs {
		if d.Name == api {
			return d
		}
	}
	return apiDoc{Name: api}
}

// routingPromptTmpl is the system instruction for choosing an API.
var routingPromptTmpl = template.Must(template.New("routing").Parse(`You are an assistant that decides which API to call based on a user query. You must respond ONLY in valid JSON with the following format:

{
  "api_name": "exact name of the API",
  "parameters": {
     "param1": "value",
     "param2": "value",
     ...
  }
}

The 'api_name' must be one of the following EXACT names:
{{- range .APIs}}
 - {{.Name}}
{{- end}}

Do not include extra keys. Today's date is {{.Today}}; resolve relative dates such as "tomorrow" to YYYY-MM-DD.
{{range .APIs}}
### {{.Name}}
INPUT:
{{- range .Input}}
    {{.}}
{{- end}}
OUTPUT:
{{- range .Output}}
    {{.}}
{{- end}}
{{end}}`))

// paramsPromptTmpl is the system instruction for extracting the parameters
// of one named API.
var paramsPromptTmpl = template.Must(template.New("params").Parse(`You extract function parameters from a user query. The function is "{{.API.Name}}". Respond ONLY with a JSON object whose keys are the parameter names below; omit parameters the query does not mention. Today's date is {{.Today}}; resolve relative dates such as "tomorrow" to YYYY-MM-DD.

INPUT:
{{- range .API.Input}}
    {{.}}
{{- end}}
`))

func renderRoutingPrompt(now time.Time) (string, error) {
	return render(routingPromptTmpl, struct {
		APIs  []apiDoc
		Today string
	}{APIs: apiDocs, Today: now.Format(time.DateOnly)})
}

func renderParamsPrompt(api types.APIName, now time.Time) (string, error) {
	return render(paramsPromptTmpl, struct {
		API   apiDoc
		Today string
	}{API: docFor(api), Today: now.Format(time.DateOnly)})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
