package handlers

import (
	"net/http"

	"github.com/booksbridge/books-bridge/internal/auth/token"
)

// StatusHandler reports whether a FreshBooks credential is connected.
func StatusHandler(store *token.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"connected": store.Connected(),
		})
	}
}

// DashboardHandler serves the landing page.
func DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(dashboardHTML))
	}
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Books Bridge</title>
<style>
  body { font-family: -apple-system, sans-serif; max-width: 880px; margin: 2rem auto; color: #222; }
  h1 { font-size: 1.4rem; }
  .status { padding: .5rem 1rem; border-radius: 6px; display: inline-block; margin-bottom: 1rem; }
  .ok { background: #e6f7e6; color: #1a7f1a; }
  .off { background: #fdecea; color: #b3261e; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; padding: .4rem .6rem; border-bottom: 1px solid #eee; font-size: .9rem; }
  a.button { display: inline-block; padding: .4rem .8rem; background: #0b57d0; color: #fff; border-radius: 6px; text-decoration: none; }
</style>
</head>
<body>
<h1>📦 Books Bridge</h1>
<div id="status" class="status off">Checking connection...</div>
<p><a class="button" href="/auth/login">Connect FreshBooks</a></p>
<h2>Resources</h2>
<table id="resources">
  <tr><th>Resource</th><th>Strategy</th><th>Identifier</th><th>Date filter</th><th></th></tr>
</table>
<script>
fetch('/api/status').then(r => r.json()).then(s => {
  const el = document.getElementById('status');
  el.textContent = s.connected ? 'Connected to FreshBooks' : 'Not connected';
  el.className = 'status ' + (s.connected ? 'ok' : 'off');
});
fetch('/api/resources').then(r => r.json()).then(data => {
  const table = document.getElementById('resources');
  for (const res of data.resources) {
    const row = table.insertRow();
    row.insertCell().textContent = res.resource;
    row.insertCell().textContent = res.strategy;
    row.insertCell().textContent = res.identifier === 'none' ? '' : res.identifier;
    row.insertCell().textContent = res.date_filter ? 'yes' : '';
    const link = document.createElement('a');
    link.href = '/api/export/' + res.resource + '/csv';
    link.textContent = 'CSV';
    row.insertCell().appendChild(link);
  }
});
</script>
</body>
</html>
`
