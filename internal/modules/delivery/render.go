package delivery

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

const textBody = `Your trip to {{.Destination}}
{{.StartDate.Format "2006-01-02"}} to {{.EndDate.Format "2006-01-02"}} ({{.TripType}})
Total cost: {{.TotalCost}}{{if .HotelName}}
Hotel: {{.HotelName}}{{end}}

{{.Itinerary}}
{{if .Images}}
Pictures:
{{range .Images}}- {{.}}
{{end}}{{end}}`

const htmlBody = `<html><body>
<h1>Your trip to {{.Destination}}</h1>
<p>{{.StartDate.Format "2006-01-02"}} to {{.EndDate.Format "2006-01-02"}} ({{.TripType}})</p>
<p><strong>Total cost:</strong> {{.TotalCost}}</p>
{{if .HotelName}}<p><strong>Hotel:</strong> {{.HotelName}}</p>{{end}}
<pre style="white-space: pre-wrap">{{.Itinerary}}</pre>
{{range .Images}}<img src="{{.}}" alt="{{$.Destination}}" style="width:100%;margin-bottom:10px"/>
{{end}}</body></html>`

var (
	textTmpl = texttemplate.Must(texttemplate.New("text").Parse(textBody))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlBody))
)

func render(to string, p Plan) (Message, error) {
	var text, html bytes.Buffer
	if err := textTmpl.Execute(&text, p); err != nil {
		return Message{}, fmt.Errorf("render text body: %w", err)
	}
	if err := htmlTmpl.Execute(&html, p); err != nil {
		return Message{}, fmt.Errorf("render html body: %w", err)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Your %s trip plan: %s", p.TripType, p.Destination),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
