package catalog

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shop/storefront/internal/domain/catalog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// csvHeader is the first line of a product export
const csvHeader = "Id,Name,Description,Price,DiscountPrice,Stock,Category,Supplier,Active,Featured,New,OnSale,BestSeller,CreatedAt"

const csvTimeLayout = "2006-01-02 15:04:05"

// ExportFileName names a product export taken at t
func ExportFileName(t time.Time) string {
	return "products_" + t.Format("20060102150405") + ".csv"
}

// writeProductsCSV writes products as UTF-8 CSV with a byte order mark.
// Text columns are always quoted with embedded quotes doubled; numbers,
// booleans and dates are written bare.
func writeProductsCSV(w io.Writer, products []catalog.Product) error {
	encoded := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	out := bufio.NewWriter(encoded)

	out.WriteString(csvHeader)
	out.WriteString("\r\n")
	for i := range products {
		writeProductRow(out, &products[i])
	}

	if err := out.Flush(); err != nil {
		return err
	}
	return encoded.Close()
}

func writeProductRow(out *bufio.Writer, p *catalog.Product) {
	discount := ""
	if p.DiscountPrice != nil {
		discount = p.DiscountPrice.StringFixed(2)
	}
	fields := []string{
		p.ID.String(),
		quoteCSV(p.Name),
		quoteCSV(p.Description),
		p.Price.StringFixed(2),
		discount,
		strconv.Itoa(p.Stock),
		quoteCSV(p.CategoryName),
		quoteCSV(p.SupplierName),
		csvBool(p.IsActive),
		csvBool(p.IsFeatured),
		csvBool(p.IsNewArrival),
		csvBool(p.IsOnSale),
		csvBool(p.IsBestSeller),
		p.CreatedAt.Format(csvTimeLayout),
	}
	out.WriteString(strings.Join(fields, ","))
	out.WriteString("\r\n")
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func csvBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
