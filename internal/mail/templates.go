package mail

import (
	"fmt"
	"html/template"
	"strings"
)

type TemplateData struct {
	OrderID     string
	Name        string
	PaymentMode string
	GrandTotal  float64
	City        string
	State       string
}

var customerTmpl = template.Must(template.New("customer").Parse(`
<div style="max-width:600px;margin:20px auto;background:#ffffff;border-radius:12px;overflow:hidden">
  <div style="background:#007bff;color:#ffffff;padding:30px;text-align:center">
    <h1 style="margin:0;font-size:24px">Order Confirmed</h1>
    <p style="margin:5px 0 0;font-size:14px">Order ID: {{.OrderID}}</p>
  </div>
  <div style="padding:30px;color:#333">
    <p>Dear {{.Name}}, thank you for your order. We are preparing your shipment now.
       Your invoice is attached.</p>
    <table width="100%" style="font-size:14px;color:#555">
      <tr><td>Payment Mode:</td><td align="right"><b>{{.PaymentMode}}</b></td></tr>
      <tr><td>Grand Total:</td><td align="right"><b>Rs. {{printf "%.2f" .GrandTotal}}</b></td></tr>
    </table>
  </div>
  <div style="padding:20px 30px;background:#f8f9fa;text-align:center;font-size:12px;color:#6c757d">
    Thank you for shopping with us.
  </div>
</div>`))

var adminTmpl = template.Must(template.New("admin").Parse(`
<div style="max-width:600px;margin:20px auto;background:#ffffff;border-radius:12px;overflow:hidden">
  <div style="background:#dc3545;color:#ffffff;padding:30px;text-align:center">
    <h1 style="margin:0;font-size:24px">New Paid Order</h1>
    <p style="margin:5px 0 0;font-size:14px">Order ID: {{.OrderID}}</p>
  </div>
  <div style="padding:30px;color:#333">
    <p>{{.Name}} placed an order for Rs. {{printf "%.2f" .GrandTotal}}
       ({{.PaymentMode}}), shipping to {{.City}}, {{.State}}.</p>
  </div>
  <div style="padding:20px 30px;background:#f8f9fa;text-align:center;font-size:12px;color:#6c757d">
    Action required: Process this order immediately.
  </div>
</div>`))

func CustomerEmailHTML(d TemplateData) string {
	return render(customerTmpl, d)
}

func AdminEmailHTML(d TemplateData) string {
	return render(adminTmpl, d)
}

func render(t *template.Template, d TemplateData) string {
	var b strings.Builder
	if err := t.Execute(&b, d); err != nil {
		return fmt.Sprintf("<p>Order %s</p>", d.OrderID)
	}
	return b.String()
}
