package admin

import (
	"fmt"
	"net/http"
	"strings"

	"jp_storefront/internal/handlers"
	"jp_storefront/internal/models"
	"jp_storefront/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func addHeader(sheet *xlsx.Sheet, headers ...string) {
	row := sheet.AddRow()
	for _, h := range headers {
		cell := row.AddCell()
		cell.SetValue(h)
		cell.GetStyle().Font.Bold = true
	}
}

// ProductsWorkbook lays the catalog out one product per row.
func ProductsWorkbook(products []models.Product, categories []models.Category) (*xlsx.File, error) {
	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID.String()] = cat.Name
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}
	addHeader(sheet, "ID", "Name", "Tamil Name", "Category", "Price", "Offer Price", "Unit",
		"Weights", "In Stock", "Offer", "Best Seller", "Created At")

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID.String())
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.NameTA)
		category := ""
		if p.CategoryID != nil {
			category = names[p.CategoryID.String()]
		}
		row.AddCell().SetValue(category)
		row.AddCell().SetFloat(p.Price)
		if p.OfferPrice != nil {
			row.AddCell().SetFloat(*p.OfferPrice)
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(p.Unit)
		row.AddCell().SetValue(strings.Join(p.Weights, ", "))
		row.AddCell().SetBool(p.InStock)
		row.AddCell().SetBool(p.IsOffer)
		row.AddCell().SetBool(p.IsBestSeller)
		row.AddCell().SetValue(notify.FormatTimestamp(p.CreatedAt))
	}
	return file, nil
}

// OrdersWorkbook lays orders out one per row, items flattened to text.
func OrdersWorkbook(orders []models.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}
	addHeader(sheet, "Order ID", "Placed At", "Customer", "Phone", "Email", "Address", "Items",
		"Total", "Delivery", "Payment", "Status", "Payment Status")

	for _, o := range orders {
		lines := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			lines = append(lines, notify.ItemLine(it))
		}
		row := sheet.AddRow()
		row.AddCell().SetValue(o.OrderID)
		row.AddCell().SetValue(notify.FormatTimestamp(o.CreatedAt))
		row.AddCell().SetValue(o.CustomerName)
		row.AddCell().SetValue(o.Phone)
		row.AddCell().SetValue(o.Email)
		row.AddCell().SetValue(o.Address)
		row.AddCell().SetValue(strings.Join(lines, "\n"))
		row.AddCell().SetFloat(o.TotalAmount)
		row.AddCell().SetValue(o.DeliveryOption.Label())
		row.AddCell().SetValue(o.PaymentMethod.Label())
		row.AddCell().SetValue(string(o.OrderStatus))
		row.AddCell().SetValue(string(o.PaymentStatus))
	}
	return file, nil
}

func writeWorkbook(c *gin.Context, file *xlsx.File, name string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		log.Error().Err(err).Str("file", name).Msg("❌ Excel export failed")
	}
}

// GET /api/admin/products/export
func (h *Handler) ExportProducts(c *gin.Context) {
	ctx := c.Request.Context()
	products, err := h.d.Store.ListProducts(ctx, models.ProductFilter{SortByName: true})
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	categories, err := h.d.Store.ListCategories(ctx)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	file, err := ProductsWorkbook(products, categories)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	writeWorkbook(c, file, "products.xlsx")
}

// GET /api/admin/orders/export?status=
func (h *Handler) ExportOrders(c *gin.Context) {
	var filter models.OrderFilter
	if raw := c.Query("status"); raw != "" {
		status := models.OrderStatus(raw)
		filter.Status = &status
	}
	orders, err := h.d.Store.ListOrders(c.Request.Context(), filter)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	file, err := OrdersWorkbook(orders)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	writeWorkbook(c, file, "orders.xlsx")
}
