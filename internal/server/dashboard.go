package server

// dashboardHTML is the embedded dashboard served at /. It renders the API
// responses client-side; all aggregation happens server-side.
const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Maribor Match Stats</title>
  <style>
    :root { color-scheme: light dark; }
    body { font-family: system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial, sans-serif; margin: 0; padding: 24px; line-height: 1.5; }
    h1 { margin: 0 0 8px; font-size: 1.6rem; }
    h2 { margin: 22px 0 8px; font-size: 1.2rem; }
    table { border-collapse: collapse; width: 100%; margin: 8px 0 20px; }
    th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid rgba(127,127,127,.3); }
    th { font-size: .85rem; text-transform: uppercase; opacity: .7; }
    button { padding: 8px 16px; border-radius: 6px; border: 1px solid #4f46e5; background: rgba(79,70,229,.12); cursor: pointer; }
    #status { margin-left: 12px; opacity: .8; }
    .muted { opacity: .6; }
  </style>
</head>
<body>
  <header>
    <h1>Maribor Match Stats</h1>
    <button id="scrape">Scrape now</button><span id="status"></span>
  </header>

  <h2>Best formation</h2>
  <table id="eleven"><thead><tr><th>Player</th><th>Position</th><th>Avg</th><th>Best</th><th>Worst</th><th>Rated games</th></tr></thead><tbody></tbody></table>

  <h2>Players</h2>
  <table id="players"><thead><tr><th>Player</th><th>Position</th><th>Avg</th><th>Best</th><th>Worst</th><th>Rated games</th><th>Minutes</th></tr></thead><tbody></tbody></table>

  <h2>Games</h2>
  <table id="games"><thead><tr><th>Date</th><th>Match</th><th>Score</th><th>Players</th><th>Ratings</th></tr></thead><tbody></tbody></table>

  <script>
    async function getJSON(url) { const r = await fetch(url); if (!r.ok) throw new Error(url + ': ' + r.status); return r.json(); }
    function fill(id, rows) {
      const tbody = document.querySelector('#' + id + ' tbody');
      tbody.innerHTML = '';
      for (const cells of rows) {
        const tr = document.createElement('tr');
        for (const c of cells) { const td = document.createElement('td'); td.textContent = c; tr.appendChild(td); }
        tbody.appendChild(tr);
      }
    }
    async function refresh() {
      const [eleven, players, games] = await Promise.all([
        getJSON('/api/stats/best-eleven'), getJSON('/api/stats'), getJSON('/api/games'),
      ]);
      fill('eleven', eleven.map(p => [p.name, p.position, p.average.toFixed(1), p.best.toFixed(1), p.worst.toFixed(1), p.count]));
      fill('players', players.map(p => [p.name, p.position, p.average.toFixed(1), p.best.toFixed(1), p.worst.toFixed(1), p.count, p.minutes]));
      fill('games', games.map(g => [g.date, g.home_team + ' vs ' + g.away_team, g.score, g.players.length, g.ratings_found ? 'yes' : 'no']));
    }
    document.getElementById('scrape').addEventListener('click', async () => {
      const status = document.getElementById('status');
      status.textContent = 'scraping…';
      try {
        const res = await fetch('/api/scrape', { method: 'POST' });
        const body = await res.json();
        status.textContent = res.ok ? ('captured ' + body.games_captured + ' games') : ('error: ' + body.error);
      } catch (e) {
        status.textContent = 'error: ' + e.message;
      }
      refresh().catch(() => {});
    });
    refresh().catch(e => { document.getElementById('status').textContent = e.message; });
  </script>
</body>
</html>`
