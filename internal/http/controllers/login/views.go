package login

import (
	"crypto/rand"
	"encoding/base64"
	"html/template"
	"net/http"
	"time"
)

// The callback pages are self-contained: inline style and script only,
// allowed through a per-response CSP nonce.

func pageNonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func pageHeaders(w http.ResponseWriter, nonce string) {
	csp := "default-src 'none'; " +
		"img-src 'self' data:; " +
		"style-src 'nonce-" + nonce + "'; " +
		"script-src 'nonce-" + nonce + "'; " +
		"base-uri 'none'; " +
		"form-action 'self'; " +
		"frame-ancestors 'none'"

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Content-Security-Policy", csp)
}

const basePageCSS = `
    :root{
      --brand1:#a6ce39; /* ORCID green */
      --brand2:#4c9f38;
      --bg:#f6f9f4;
      --card:#ffffff;
      --text:#1c2b1e;
      --muted:#5f6f61;
      --err:#b42318;
      --radius:16px;
      --shadow:0 10px 30px rgba(76,159,56,.16);
    }
    *{box-sizing:border-box}
    html,body{height:100%}
    body{
      margin:0;
      font-family: system-ui,-apple-system,Segoe UI,Roboto,Arial,sans-serif;
      color:var(--text);
      background:
        radial-gradient(60% 60% at 100% 0%, rgba(166,206,57,.22) 0%, transparent 60%),
        radial-gradient(50% 50% at 0% 100%, rgba(76,159,56,.18) 0%, transparent 60%),
        var(--bg);
      display:grid;
      place-items:center;
      padding:24px;
    }
    .card{
      width:min(560px, 95vw);
      background:var(--card);
      border-radius:var(--radius);
      box-shadow:var(--shadow);
      overflow:hidden;
      animation:pop .25s ease-out both;
    }
    @keyframes pop{from{transform:translateY(6px);opacity:0}to{transform:none;opacity:1}}
    .brand{
      display:flex;align-items:center;gap:12px;
      padding:18px 20px;
      background:linear-gradient(120deg,var(--brand1),var(--brand2));
      color:#fff;
    }
    .logo{
      width:36px;height:36px;border-radius:50%;
      display:grid;place-items:center;
      background:rgba(255,255,255,.25);
      font-weight:700;font-size:14px;
      user-select:none;
    }
    .brand h1{margin:0;font-size:18px;font-weight:700;letter-spacing:.4px}
    .content{padding:26px 24px}
    .subtitle{color:var(--muted);margin:6px 0 0}
    footer{
      padding:12px 20px;color:var(--muted);font-size:12px;
      background:#f4f8f1;border-top:1px solid #e4eedd;
    }`

const loadingHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <meta http-equiv="refresh" content="0;url={{.ContinueURL}}">
  <title>{{.AppName}} • Signing in</title>
  <style nonce="{{.Nonce}}">` + basePageCSS + `
    .spinner{
      width:42px;height:42px;border-radius:50%;
      border:4px solid rgba(76,159,56,.2);
      border-top-color:var(--brand2);
      animation:spin .8s linear infinite;
    }
    @keyframes spin{to{transform:rotate(360deg)}}
    .row{display:flex;align-items:center;gap:16px}
  </style>
</head>
<body>
  <div class="card" role="status" aria-label="Sign-in in progress">
    <header class="brand">
      <div class="logo" aria-hidden="true">iD</div>
      <h1>{{.AppName}}</h1>
    </header>
    <section class="content">
      <div class="row">
        <div class="spinner" aria-hidden="true"></div>
        <div>
          <h2 style="margin:0;font-size:20px;">Signing you in&hellip;</h2>
          <p class="subtitle">Hold on while we finish connecting your ORCID iD.</p>
        </div>
      </div>
    </section>
    <footer>&copy; {{.Year}} {{.AppName}}</footer>
  </div>
  <script nonce="{{.Nonce}}">
    // Replace instead of assign so the callback URL with its spent
    // code never survives in history.
    location.replace({{.ContinueURL}});
  </script>
</body>
</html>`

const failureHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.AppName}} • Sign-in failed</title>
  <style nonce="{{.Nonce}}">` + basePageCSS + `
    .status{display:flex;align-items:center;gap:12px}
    .status .bad{width:24px;height:24px;flex:0 0 24px;color:var(--err)}
    .message{
      margin:14px 0 0;padding:12px 14px;
      background:#fef3f2;border:1px solid #fecdca;border-radius:12px;
      color:var(--err);word-break:break-word;
    }
    .actions{display:flex;justify-content:flex-end;margin-top:20px}
    .btn{
      display:inline-block;text-decoration:none;
      border-radius:10px;padding:10px 16px;font-weight:600;
      background:linear-gradient(120deg,var(--brand1),var(--brand2));
      color:#fff;
    }
  </style>
</head>
<body>
  <div class="card" role="alert" aria-label="Sign-in failed">
    <header class="brand">
      <div class="logo" aria-hidden="true">iD</div>
      <h1>{{.AppName}}</h1>
    </header>
    <section class="content">
      <div class="status">
        <svg class="bad" viewBox="0 0 24 24" fill="none" aria-hidden="true">
          <circle cx="12" cy="12" r="10" stroke="currentColor" stroke-width="1.5" opacity=".25"/>
          <path d="M9 9l6 6M15 9l-6 6" stroke="currentColor" stroke-width="2.2" stroke-linecap="round"/>
        </svg>
        <h2 style="margin:0;font-size:20px;">Sign-in failed</h2>
      </div>
      <p class="message">{{.Message}}</p>
      <div class="actions">
        <a class="btn" href="{{.RetryURL}}">Try again</a>
      </div>
    </section>
    <footer>&copy; {{.Year}} {{.AppName}}</footer>
  </div>
</body>
</html>`

var (
	loadingTpl = template.Must(template.New("loading").Parse(loadingHTML))
	failureTpl = template.Must(template.New("failure").Parse(failureHTML))
)

type loadingView struct {
	Nonce       string
	AppName     string
	ContinueURL string
	Year        int
}

type failureView struct {
	Nonce    string
	AppName  string
	Message  string
	RetryURL string
	Year     int
}

func renderLoading(w http.ResponseWriter, appName, continueURL string) {
	nonce := pageNonce()
	pageHeaders(w, nonce)
	_ = loadingTpl.Execute(w, loadingView{
		Nonce:       nonce,
		AppName:     appName,
		ContinueURL: continueURL,
		Year:        time.Now().Year(),
	})
}

func renderFailure(w http.ResponseWriter, appName, message, retryURL string) {
	nonce := pageNonce()
	pageHeaders(w, nonce)
	_ = failureTpl.Execute(w, failureView{
		Nonce:    nonce,
		AppName:  appName,
		Message:  message,
		RetryURL: retryURL,
		Year:     time.Now().Year(),
	})
}
