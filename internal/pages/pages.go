// Package pages renders the static HTML pages shown at the end of Connect onboarding.
package pages

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
)

const (
	ConnectSuccess = "connect_success"
	ConnectRefresh = "connect_refresh"
)

type ConnectSuccessData struct {
	CompanyUUID string
}

type ConnectRefreshData struct {
	CompanyUUID string
	// RestartURL requests a fresh onboarding link; the link is hidden when empty.
	RestartURL string
}

type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer loads {key}.html from templateDir for each page. Pages without an
// override file use the built-in template; an override that fails to parse is
// an error.
func NewRenderer(templateDir string) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	for key, fallback := range builtin {
		var tmpl *template.Template
		if templateDir != "" {
			path := filepath.Join(templateDir, key+".html")
			if _, err := os.Stat(path); err == nil {
				tmpl, err = template.ParseFiles(path)
				if err != nil {
					return nil, fmt.Errorf("failed to parse page override %s: %w", path, err)
				}
			}
		}
		if tmpl == nil {
			tmpl = template.Must(template.New(key).Parse(fallback))
		}
		r.templates[key] = tmpl
	}

	return r, nil
}

// Render executes into a buffer first so a failing template never leaves a
// half-written page.
func (r *Renderer) Render(w io.Writer, key string, data interface{}) error {
	tmpl, ok := r.templates[key]
	if !ok {
		return fmt.Errorf("page %s not found", key)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute page %s: %w", key, err)
	}

	_, err := body.WriteTo(w)
	return err
}

var builtin = map[string]string{
	ConnectSuccess: connectSuccessTemplate,
	ConnectRefresh: connectRefreshTemplate,
}

const connectSuccessTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Payouts connected</title>
</head>
<body>
    <h1>You're all set</h1>
    <p>Your payout account has been submitted{{if .CompanyUUID}} for company <strong>{{.CompanyUUID}}</strong>{{end}}.</p>
    <p>You can close this window and return to the app.</p>
</body>
</html>
`

const connectRefreshTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Onboarding link expired</title>
</head>
<body>
    <h1>This link has expired</h1>
    <p>Onboarding links can only be used once and expire after a few minutes.</p>
    {{if .RestartURL}}<p><a href="{{.RestartURL}}">Restart payout setup</a></p>
    {{else}}<p>Return to the app and start payout setup again to get a fresh link.</p>
    {{end}}
</body>
</html>
`
