package mailer

import "html/template"

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0; }
  .container { max-width: 600px; margin: 30px auto; background-color: #ffffff; border-radius: 10px; overflow: hidden; }
  .header { background: #2563eb; padding: 30px; text-align: center; color: white; }
  .header h1 { margin: 0; font-size: 26px; }
  .content { padding: 30px; }
  .info-box { background-color: #f8f9fa; border-left: 4px solid #2563eb; padding: 15px; margin: 20px 0; border-radius: 5px; }
  .metric { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid #e0e0e0; }
  .metric-label { font-weight: 600; color: #555; }
  .metric-value { color: #2563eb; font-weight: bold; }
  .footer { background-color: #f8f9fa; padding: 20px; text-align: center; font-size: 12px; color: #666; }
</style>
</head>
<body>
<div class="container">
  <div class="header"><h1>{{.Sender}}</h1></div>
  <div class="content">
    <p>Hello <strong>{{.Name}}</strong>,</p>
    <p>Your <strong>{{.Title}}</strong> report is ready.</p>
    <div class="info-box">
      <h3 style="margin-top: 0;">Report Summary</h3>
      {{range .Metrics}}<div class="metric"><span class="metric-label">{{.Label}}</span> <span class="metric-value">{{.Value}}</span></div>
      {{end}}
    </div>
    <p>The full report is attached as a PDF.</p>
    <p style="color: #666; font-size: 14px;">Generated on {{.GeneratedAt}}</p>
  </div>
  <div class="footer"><p>{{.Sender}}</p></div>
</div>
</body>
</html>
`))
