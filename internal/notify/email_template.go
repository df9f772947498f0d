package notify

const emailHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <title>Vyapar digest {{.Date.Format "02 Jan 2006"}}</title>
  <style>
    body { margin: 0; padding: 16px; background: #fbf7f0; font-family: Helvetica, Arial, sans-serif; color: #2b2118; }
    table.digest { width: 100%; max-width: 600px; margin: 0 auto; border-collapse: collapse; background: #fffdf9; border: 1px solid #eadfcc; }
    td.banner { padding: 18px 22px; background: #7a2e0e; color: #fff7ed; }
    .store { font-size: 20px; font-weight: bold; }
    .tally { font-size: 14px; margin-top: 2px; }
    .flag { display: inline-block; margin-top: 6px; padding: 2px 8px; font-size: 11px; background: #facc15; color: #3f2a00; border-radius: 10px; }
    td.block { padding: 14px 22px; border-top: 1px solid #f1e7d6; font-size: 14px; }
    h3 { margin: 0 0 8px 0; font-size: 12px; color: #9a6b3f; text-transform: uppercase; }
    ul { margin: 0; padding-left: 18px; }
    li { margin-bottom: 6px; }
    table.trends { width: 100%; border-collapse: collapse; }
    table.trends td { padding: 4px 0; border-bottom: 1px dotted #eadfcc; }
    td.pct { text-align: right; color: #166534; font-weight: bold; }
    .occasion { font-weight: bold; margin-top: 6px; }
    .tip { white-space: pre-line; padding: 8px 12px; margin: 4px 0 10px 0; background: #fef3c7; font-size: 13px; }
    td.foot { padding: 10px 22px; font-size: 11px; color: #a8a29e; text-align: center; }
  </style>
</head>
<body>
  <table class="digest">
    <tr><td class="banner">
      <div class="store">Vyapar</div>
      <div class="tally">{{.Count}} new finding(s) for {{.Date.Format "02 Jan 2006"}}</div>
      {{if .Spikes}}<span class="flag">Restock needed</span>{{end}}
    </td></tr>

    {{if .Spikes}}
    <tr><td class="block">
      <h3>Low Stock Risks</h3>
      <ul>{{range .Spikes}}<li>{{.Message}}</li>{{end}}</ul>
    </td></tr>
    {{end}}

    {{if .Trends}}
    <tr><td class="block">
      <h3>Trending Products</h3>
      <table class="trends">
        {{range .Trends}}<tr><td>{{.Subject}}</td><td class="pct">{{percent .Confidence}}</td></tr>{{end}}
      </table>
    </td></tr>
    {{end}}

    {{if .Festivals}}
    <tr><td class="block">
      <h3>Festival Stocking Advice</h3>
      {{range .Festivals}}
      <div class="occasion">{{.Subject}}</div>
      <div class="tip">{{.Message}}</div>
      {{end}}
    </td></tr>
    {{end}}

    {{if .TopSellers}}
    <tr><td class="block">
      <h3>Top Marketplace Sellers</h3>
      <ol>{{range .TopSellers}}<li>{{.}}</li>{{end}}</ol>
    </td></tr>
    {{end}}

    <tr><td class="foot">Sent by vyapar</td></tr>
  </table>
</body>
</html>`
