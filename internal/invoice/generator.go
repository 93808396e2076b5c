// Package invoice renders the immutable order invoice PDF. The document embeds
// the generation timestamp, so repeated runs for the same order are not
// byte-identical; filenames are keyed by the merchant order id and never
// reused across orders.
package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type LineItem struct {
	Name     string
	SizeName string
	Price    float64
	Discount float64
	Quantity int
}

type Customer struct {
	Name  string
	Email string
	Phone string
}

type Address struct {
	Address1 string
	Address2 string
	City     string
	State    string
	Pincode  string
}

type OrderInfo struct {
	UniqueOrderID string
	Subtotal      float64
	Discount      float64
	Shipping      float64
	Tax           float64
	PaymentStatus string
}

type Generator struct {
	Dir       string
	StoreName string
}

// Generate writes invoice_<unique_order_id>.pdf into the configured directory
// and returns its path.
func (g *Generator) Generate(order OrderInfo, items []LineItem, customer Customer, addr Address) (string, error) {
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", fmt.Errorf("invoice dir: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header: store block on the left, invoice meta on the right.
	pdf.SetTextColor(0, 123, 255)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(120, 8, g.StoreName, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 8, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetTextColor(73, 80, 87)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(120, 5, "123 Modern Avenue, Suite 400", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Invoice No: "+order.UniqueOrderID, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(120, 5, "Cityville, State, 12345 | contact@store.com", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Date: "+time.Now().Format("01/02/2006"), "", 1, "R", false, 0, "")
	pdf.Ln(6)
	drawRule(pdf)

	// Bill-to / ship-to columns.
	pdf.Ln(4)
	y := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 123, 255)
	pdf.Text(15, y+4, "BILL TO:")
	pdf.Text(105, y+4, "SHIP TO:")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(73, 80, 87)
	pdf.Text(15, y+10, customer.Name)
	pdf.Text(15, y+15, customer.Email)
	if customer.Phone != "" {
		pdf.Text(15, y+20, customer.Phone)
	}
	pdf.Text(105, y+10, addr.Address1)
	line := addr.City + ", " + addr.State + " " + addr.Pincode
	if addr.Address2 != "" {
		pdf.Text(105, y+15, addr.Address2)
		pdf.Text(105, y+20, line)
	} else {
		pdf.Text(105, y+15, line)
	}
	pdf.SetY(y + 26)

	// Item table.
	pdf.SetFillColor(0, 123, 255)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 8, "Item", "", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Unit Price", "", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Discount", "", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Line Total", "", 1, "R", true, 0, "")

	pdf.SetTextColor(73, 80, 87)
	var subtotal float64
	for _, it := range items {
		lineTotal := it.Price*float64(it.Quantity) - it.Discount
		subtotal += it.Price * float64(it.Quantity)

		pdf.SetFont("Helvetica", "", 9)
		name := it.Name
		if it.SizeName != "" {
			name += " (" + it.SizeName + ")"
		}
		pdf.CellFormat(70, 7, name, "B", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", it.Quantity), "B", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, rs(it.Price), "B", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, rs(it.Discount), "B", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, rs(lineTotal), "B", 1, "R", false, 0, "")
	}

	if order.Subtotal > 0 {
		subtotal = order.Subtotal
	}
	netTotal := subtotal - order.Discount
	grandTotal := netTotal + order.Shipping + order.Tax

	// Totals breakdown, right aligned.
	pdf.Ln(6)
	writeTotal(pdf, "Subtotal:", subtotal, false)
	writeTotal(pdf, "Discount:", -order.Discount, false)
	writeTotal(pdf, "Net Total:", netTotal, true)
	writeTotal(pdf, "Shipping:", order.Shipping, false)
	writeTotal(pdf, "Tax:", order.Tax, false)

	pdf.SetFillColor(0, 123, 255)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(110, 9, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 9, "GRAND TOTAL:", "", 0, "L", true, 0, "")
	pdf.CellFormat(30, 9, rs(grandTotal), "", 1, "R", true, 0, "")

	// Payment status badge and footer.
	pdf.SetY(-45)
	drawRule(pdf)
	pdf.Ln(3)
	status := order.PaymentStatus
	if status == "" {
		status = "PENDING"
	}
	if status == "paid" || status == "PAID" {
		pdf.SetFillColor(40, 167, 69)
		status = "PAID"
	} else {
		pdf.SetFillColor(255, 193, 7)
		status = "PENDING"
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(73, 80, 87)
	pdf.CellFormat(35, 6, "PAYMENT STATUS:", "", 0, "L", false, 0, "")
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(25, 6, status, "", 1, "C", true, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(170, 170, 170)
	pdf.CellFormat(0, 5, "Thank you for your order! All prices are in INR.", "", 1, "C", false, 0, "")

	path := filepath.Join(g.Dir, "invoice_"+order.UniqueOrderID+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("invoice write: %w", err)
	}
	return path, nil
}

func drawRule(pdf *gofpdf.Fpdf) {
	pdf.SetDrawColor(233, 236, 239)
	x := pdf.GetX()
	y := pdf.GetY()
	pdf.Line(x, y, 195, y)
}

func writeTotal(pdf *gofpdf.Fpdf, label string, value float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	pdf.SetTextColor(73, 80, 87)
	pdf.CellFormat(110, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, rs(value), "", 1, "R", false, 0, "")
}

func rs(v float64) string {
	return fmt.Sprintf("Rs. %.2f", v)
}
