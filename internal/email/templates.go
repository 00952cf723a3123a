package email

import (
	"bytes"
	"fmt"
	htemplate "html/template"
	texttpl "text/template"
)

const signInBaseStyles = `
body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #f4f4f7; color: #333; margin: 0; padding: 0; }
.container { width: 100%; max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.08); }
.header { background: linear-gradient(135deg, #a6ce39 0%, #4c9f38 100%); padding: 40px; text-align: center; }
.header h1 { color: #ffffff; margin: 0 0 8px 0; font-size: 28px; font-weight: 700; }
.header .subtitle { color: rgba(255,255,255,0.9); font-size: 14px; }
.content { padding: 40px; line-height: 1.7; }
.info-card { background: #f6faee; border-left: 4px solid #a6ce39; padding: 20px; margin: 24px 0; border-radius: 0 8px 8px 0; }
.info-card strong { color: #4c9f38; }
.footer { background-color: #263238; padding: 30px 40px; text-align: center; }
.footer p { color: #8b9a8b; font-size: 12px; margin: 0 0 8px 0; }
.footer .brand { color: #a6ce39; font-weight: 600; font-size: 14px; }
.timestamp { color: #999; font-size: 12px; margin-top: 16px; }
`

const signInHTMLTmpl = `<!doctype html>
<html>
<head>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>` + signInBaseStyles + `</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>New researcher</h1>
    <div class="subtitle">{{.Service}}</div>
  </div>
  <div class="content">
    <p>A researcher signed in for the first time and an account was provisioned for them.</p>
    <div class="info-card">
      <p><strong>Name:</strong> {{.Name}}</p>
      <p><strong>ORCID iD:</strong> <a href="{{.ORCIDURL}}">{{.ORCID}}</a></p>
    </div>
    <p class="timestamp">Signed in at {{.SignedInAt}}</p>
  </div>
  <div class="footer">
    <p class="brand">{{.Service}}</p>
    <p>You receive this because first-sign-in notifications are enabled.</p>
  </div>
</div>
</body>
</html>`

const signInTextTmpl = `New researcher on {{.Service}}

A researcher signed in for the first time and an account was provisioned.

  Name:     {{.Name}}
  ORCID iD: {{.ORCID}} ({{.ORCIDURL}})

Signed in at {{.SignedInAt}}.

You receive this because first-sign-in notifications are enabled.
`

var (
	signInHTML = htemplate.Must(htemplate.New("signin_html").Parse(signInHTMLTmpl))
	signInText = texttpl.Must(texttpl.New("signin_text").Parse(signInTextTmpl))
)

type signInVars struct {
	Service    string
	Name       string
	ORCID      string
	ORCIDURL   string
	SignedInAt string
}

func renderSignIn(vars signInVars) (html, text string, err error) {
	var hb, tb bytes.Buffer
	if err := signInHTML.Execute(&hb, vars); err != nil {
		return "", "", fmt.Errorf("render sign-in html: %w", err)
	}
	if err := signInText.Execute(&tb, vars); err != nil {
		return "", "", fmt.Errorf("render sign-in text: %w", err)
	}
	return hb.String(), tb.String(), nil
}
