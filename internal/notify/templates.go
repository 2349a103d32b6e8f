package notify

import (
	"bytes"
	"html/template"
)

type emailLine struct {
	Name     string
	Weight   string
	Quantity int
	Total    string
}

type emailData struct {
	ShopName     string
	ShopPhone    string
	ShopEmail    string
	ShopAddress  string
	OrderID      string
	Timestamp    string
	CustomerName string
	Phone        string
	Address      string
	Lines        []emailLine
	Total        string
	Delivery     string
	Payment      string
	Status       string
	StatusLine   string
}

const itemsTable = `{{define "items"}}
<table style="width: 100%; border-collapse: collapse;">
  <thead>
    <tr style="background: #f3f4f6;">
      <th style="padding: 10px; text-align: left;">Item</th>
      <th style="padding: 10px; text-align: center;">Weight</th>
      <th style="padding: 10px; text-align: center;">Qty</th>
      <th style="padding: 10px; text-align: right;">Price</th>
    </tr>
  </thead>
  <tbody>
  {{range .Lines}}
    <tr>
      <td style="padding: 8px; border-bottom: 1px solid #eee;">{{.Name}}</td>
      <td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">{{.Weight}}</td>
      <td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
      <td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">{{.Total}}</td>
    </tr>
  {{end}}
  </tbody>
  <tfoot>
    <tr style="font-weight: bold;">
      <td colspan="3" style="padding: 12px;">Total Amount</td>
      <td style="padding: 12px; text-align: right; font-size: 18px;">{{.Total}}</td>
    </tr>
  </tfoot>
</table>
{{end}}`

const ownerEmailHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: linear-gradient(135deg, #f97316 0%, #ea580c 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: white; margin: 0; font-size: 24px;">🛒 New Order Received!</h1>
  </div>
  <div style="background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px;">
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border: 1px solid #e5e7eb;">
      <h3 style="margin-top: 0; color: #ea580c;">Order Information</h3>
      <p><strong>Order ID:</strong> #{{.OrderID}}</p>
      <p><strong>Order Date:</strong> {{.Timestamp}}</p>
    </div>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border: 1px solid #e5e7eb;">
      <h3 style="margin-top: 0; color: #ea580c;">Customer Details</h3>
      <p><strong>Name:</strong> {{.CustomerName}}</p>
      <p><strong>Phone:</strong> {{.Phone}}</p>
      <p><strong>Address:</strong> {{.Address}}</p>
    </div>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border: 1px solid #e5e7eb;">
      <h3 style="margin-top: 0; color: #ea580c;">Items Ordered</h3>
      {{template "items" .}}
    </div>
    <div style="background: #fef3c7; padding: 15px; border-radius: 8px; margin: 20px 0;">
      <p style="margin: 0;"><strong>💰 Payment:</strong> {{.Payment}}</p>
      <p style="margin: 5px 0 0 0;"><strong>🚚 Delivery:</strong> {{.Delivery}}</p>
    </div>
    <p style="text-align: center; background: #16a34a; color: white; padding: 15px; border-radius: 8px; font-size: 16px;">
      Please prepare this order! 🥬🍎
    </p>
  </div>
</body>
</html>`

const customerEmailHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: linear-gradient(135deg, #22c55e 0%, #16a34a 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: white; margin: 0; font-size: 24px;">✅ Order Confirmed!</h1>
  </div>
  <div style="background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px;">
    <p style="font-size: 16px;">Hello <strong>{{.CustomerName}}</strong>,</p>
    <p>Thank you for your order at <strong>{{.ShopName}}</strong>! 🥬🍎</p>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border: 1px solid #e5e7eb;">
      <h3 style="margin-top: 0; color: #16a34a;">Order Details</h3>
      <p><strong>Order ID:</strong> #{{.OrderID}}</p>
      <p><strong>Order Date:</strong> {{.Timestamp}}</p>
      <p><strong>Delivery Address:</strong> {{.Address}}</p>
    </div>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border: 1px solid #e5e7eb;">
      <h3 style="margin-top: 0; color: #16a34a;">Items Ordered</h3>
      {{template "items" .}}
    </div>
    <div style="background: #fef3c7; padding: 15px; border-radius: 8px; margin: 20px 0;">
      <p style="margin: 0;"><strong>💰 Payment:</strong> {{.Payment}}</p>
      <p style="margin: 5px 0 0 0; font-size: 14px; color: #92400e;">Please keep {{.Total}} ready at the time of delivery.</p>
    </div>
    {{template "contact" .}}
    <p style="text-align: center; color: #6b7280; font-size: 14px;">
      Thank you for choosing us! 🌿<br>
      We will deliver your fresh produce soon.
    </p>
  </div>
</body>
</html>`

const contactBlock = `{{define "contact"}}
<div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border: 1px solid #e5e7eb;">
  <h3 style="margin-top: 0; color: #16a34a;">Contact Us</h3>
  <p style="margin: 5px 0;"><strong>{{.ShopName}}</strong></p>
  <p style="margin: 5px 0;">📞 {{.ShopPhone}}</p>
  <p style="margin: 5px 0;">📧 {{.ShopEmail}}</p>
  <p style="margin: 5px 0;">📍 {{.ShopAddress}}</p>
</div>
{{end}}`

const statusEmailHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: linear-gradient(135deg, #22c55e 0%, #16a34a 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: white; margin: 0; font-size: 24px;">{{.ShopName}}</h1>
    <p style="color: white; margin: 10px 0 0 0;">Order update</p>
  </div>
  <div style="background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px;">
    <p style="font-size: 16px;">Hello <strong>{{.CustomerName}}</strong>,</p>
    <p>{{.StatusLine}}</p>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border: 1px solid #e5e7eb;">
      <p><strong>Order ID:</strong> #{{.OrderID}}</p>
      <p><strong>Status:</strong> {{.Status}}</p>
      <p><strong>Total:</strong> {{.Total}}</p>
      <p><strong>Delivery:</strong> {{.Delivery}}</p>
    </div>
    {{template "contact" .}}
  </div>
</body>
</html>`

var (
	ownerEmailTmpl    = mustParse("owner", ownerEmailHTML)
	customerEmailTmpl = mustParse("customer", customerEmailHTML)
	statusEmailTmpl   = mustParse("status", statusEmailHTML)
)

func mustParse(name, body string) *template.Template {
	t := template.Must(template.New(name).Parse(itemsTable))
	t = template.Must(t.Parse(contactBlock))
	return template.Must(t.Parse(body))
}

func render(t *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
