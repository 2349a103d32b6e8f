package admin

import (
	"net/http"
	"time"

	"jp_storefront/internal/handlers"
	"jp_storefront/internal/models"
	"jp_storefront/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	TotalProducts   int     `json:"total_products"`
	TotalOrders     int     `json:"total_orders"`
	PendingOrders   int     `json:"pending_orders"`
	DeliveredOrders int     `json:"delivered_orders"`
	TodayOrders     int     `json:"today_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
}

// ComputeStats counts orders by status and by shop-local day. Cancelled
// orders do not count toward revenue.
func ComputeStats(products []models.Product, orders []models.Order, now time.Time) DashboardStats {
	stats := DashboardStats{TotalProducts: len(products), TotalOrders: len(orders)}
	today := notify.ShopTime(now).Format("2006-01-02")
	revenue := decimal.Zero
	for _, o := range orders {
		switch o.OrderStatus {
		case models.StatusPending:
			stats.PendingOrders++
		case models.StatusDelivered:
			stats.DeliveredOrders++
		}
		if notify.ShopTime(o.CreatedAt).Format("2006-01-02") == today {
			stats.TodayOrders++
		}
		if o.OrderStatus != models.StatusCancelled {
			revenue = revenue.Add(decimal.NewFromFloat(o.TotalAmount))
		}
	}
	stats.TotalRevenue = revenue.InexactFloat64()
	return stats
}

// GET /api/admin/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	var products []models.Product
	var orders []models.Order

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = h.d.Store.ListProducts(gctx, models.ProductFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = h.d.Store.ListOrders(gctx, models.OrderFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, ComputeStats(products, orders, time.Now()))
}
