package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// OrderRequestInfo is the data rendered into an order request notification.
type OrderRequestInfo struct {
	RequestID     string
	SubmittedAt   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Comment       string
	Items         []OrderItem
	Total         string
	Units         int
	AdminURL      string
}

// OrderItem is one cart line with prices already formatted.
type OrderItem struct {
	Name       string
	Size       string
	Quantity   int
	UnitPrice  string
	TotalPrice string
}

// Renderer renders the order request notification.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.New("order_request_html").Parse(orderRequestHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML template: %w", err)
	}
	text, err := texttemplate.New("order_request_text").Parse(orderRequestText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	return &Renderer{html: html, text: text}, nil
}

// RenderOrderRequest renders both bodies. The recipient is left for the caller.
func (r *Renderer) RenderOrderRequest(data *OrderRequestInfo) (*Email, error) {
	if data == nil {
		return nil, fmt.Errorf("order request data is required")
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := r.html.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}
	if err := r.text.Execute(&textBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render text template: %w", err)
	}

	return &Email{
		Subject: fmt.Sprintf("Новая заявка %s от %s", data.RequestID, data.CustomerName),
		Text:    textBuf.String(),
		HTML:    htmlBuf.String(),
	}, nil
}

const orderRequestText = `Новая заявка {{.RequestID}}
Дата: {{.SubmittedAt}}

Клиент: {{.CustomerName}}
E-mail: {{.CustomerEmail}}
{{if .CustomerPhone}}Телефон: {{.CustomerPhone}}
{{end}}{{if .Comment}}Комментарий: {{.Comment}}
{{end}}
Позиции:
{{range .Items}}- {{.Name}}{{if .Size}} ({{.Size}}){{end}}: {{.Quantity}} шт. x {{.UnitPrice}} = {{.TotalPrice}}
{{end}}
Всего единиц: {{.Units}}
Итого: {{.Total}}
{{if .AdminURL}}
{{.AdminURL}}
{{end}}`

const orderRequestHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Заявка {{.RequestID}}</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 640px; margin: 0 auto; padding: 20px; }
    .header { background: #92400e; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
    .content { background: #fafaf9; padding: 20px; border: 1px solid #e7e5e4; }
    .items-table { width: 100%; border-collapse: collapse; margin: 15px 0; }
    .items-table th { text-align: left; padding: 8px; background: #f5f5f4; border-bottom: 2px solid #e7e5e4; }
    .items-table td { padding: 8px; border-bottom: 1px solid #e7e5e4; }
    .total { font-size: 18px; font-weight: bold; text-align: right; }
  </style>
</head>
<body>
  <div class="header">
    <h1>Новая заявка {{.RequestID}}</h1>
    <p>{{.SubmittedAt}}</p>
  </div>
  <div class="content">
    <p>
      <strong>Клиент:</strong> {{.CustomerName}}<br>
      <strong>E-mail:</strong> {{.CustomerEmail}}<br>
      {{if .CustomerPhone}}<strong>Телефон:</strong> {{.CustomerPhone}}<br>{{end}}
    </p>
    {{if .Comment}}<p><strong>Комментарий:</strong> {{.Comment}}</p>{{end}}
    <table class="items-table">
      <thead>
        <tr><th>Товар</th><th>Кол-во</th><th>Цена</th><th>Сумма</th></tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Name}}{{if .Size}}<br><small>{{.Size}}</small>{{end}}</td>
          <td>{{.Quantity}}</td>
          <td>{{.UnitPrice}}</td>
          <td>{{.TotalPrice}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    <p class="total">Итого: {{.Total}} ({{.Units}} шт.)</p>
    {{if .AdminURL}}<p><a href="{{.AdminURL}}">{{.AdminURL}}</a></p>{{end}}
  </div>
</body>
</html>
`
