package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"stroyassist.GO/erp"
)

// OrderLine is one requested position of an order before pricing.
// ProductName is the name the customer agreed on; it is echoed back
// when 1C does not recognize the code. A caller-supplied UnitPrice (a
// negotiated price) is kept as is and the line skips unit conversion.
type OrderLine struct {
	ProductCode string           `json:"product_code"`
	ProductName string           `json:"product_name"`
	Quantity    decimal.Decimal  `json:"quantity" validate:"required"`
	Unit        string           `json:"unit"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// OrderLineItem is a priced order position. UnitPrice is quoted in the
// requested unit; Availability repeats the 1C stock text verbatim.
type OrderLineItem struct {
	ProductCode        string           `json:"product_code"`
	ProductName        string           `json:"product_name"`
	Quantity           decimal.Decimal  `json:"quantity"`
	Unit               string           `json:"unit"`
	UnitPrice          *decimal.Decimal `json:"unit_price,omitempty"`
	LineTotal          *decimal.Decimal `json:"line_total,omitempty"`
	Availability       string           `json:"availability"`
	NeedsManualPricing bool             `json:"needs_manual_pricing,omitempty"`
}

// OrderPricing are the order totals.
type OrderPricing struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryCost decimal.Decimal `json:"delivery_cost"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
}

// OrderInfo is the full priced order returned to the client.
type OrderInfo struct {
	Items   []OrderLineItem `json:"items"`
	Pricing OrderPricing    `json:"pricing"`
}

// MissingProductCodeError reports order lines without a product code,
// by the name the caller used for them. Raised before any upstream
// call so a malformed order costs nothing.
type MissingProductCodeError struct {
	Lines []int    // zero-based positions of the offending lines
	Names []string // caller-supplied names, "" when a line had none
}

func (e *MissingProductCodeError) Error() string {
	labels := make([]string, len(e.Lines))
	for i, n := range e.Lines {
		if i < len(e.Names) && e.Names[i] != "" {
			labels[i] = e.Names[i]
		} else {
			labels[i] = fmt.Sprintf("line %d", n+1)
		}
	}
	return "pricing: order lines without product code: " + strings.Join(labels, ", ")
}

// Calculator prices orders against live 1C data. Prices come from the
// detail endpoint, not the cache, because an order quote must reflect
// the price at the moment of asking.
type Calculator struct {
	erp *erp.Client
	log *logrus.Logger
}

func NewCalculator(client *erp.Client, log *logrus.Logger) *Calculator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Calculator{erp: client, log: log}
}

// EnrichAndPrice resolves every order line against 1C and prices it in
// the requested unit. Lines whose product is unknown upstream, has no
// price, or needs a unit conversion the calculator cannot do are kept
// with NeedsManualPricing set instead of failing the whole order.
func (c *Calculator) EnrichAndPrice(ctx context.Context, lines []OrderLine) ([]OrderLineItem, error) {
	var missing *MissingProductCodeError
	for i, line := range lines {
		if erp.CleanString(line.ProductCode) == "" {
			if missing == nil {
				missing = &MissingProductCodeError{}
			}
			missing.Lines = append(missing.Lines, i)
			missing.Names = append(missing.Names, erp.CleanString(line.ProductName))
		}
	}
	if missing != nil {
		return nil, missing
	}
	if len(lines) == 0 {
		return nil, nil
	}

	details, err := c.fetchDetails(ctx, lines)
	if err != nil {
		return nil, err
	}

	items := make([]OrderLineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, c.priceLine(line, details[erp.CleanString(line.ProductCode)]))
	}
	return items, nil
}

func (c *Calculator) fetchDetails(ctx context.Context, lines []OrderLine) (map[string]*erp.DetailedItem, error) {
	seen := make(map[string]bool, len(lines))
	var codes []string
	for _, line := range lines {
		code := erp.CleanString(line.ProductCode)
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}

	details := make(map[string]*erp.DetailedItem, len(codes))
	batchSize := c.erp.BatchSize()
	for i := 0; i < len(codes); i += batchSize {
		end := i + batchSize
		if end > len(codes) {
			end = len(codes)
		}
		batch, err := c.erp.GetDetailedItems(ctx, codes[i:end])
		if err != nil {
			return nil, fmt.Errorf("pricing: fetch products: %w", err)
		}
		for j := range batch {
			d := &batch[j]
			if _, exists := details[d.Code]; !exists {
				details[d.Code] = d
			}
		}
	}
	return details, nil
}

func (c *Calculator) priceLine(line OrderLine, d *erp.DetailedItem) OrderLineItem {
	item := OrderLineItem{
		ProductCode:  erp.CleanString(line.ProductCode),
		ProductName:  erp.CleanString(line.ProductName),
		Quantity:     line.Quantity,
		Unit:         line.Unit,
		Availability: "нет данных",
	}
	if d == nil {
		// The caller's name stays on the line so staff can still tell
		// what was ordered.
		c.log.WithField("code", item.ProductCode).Warn("Order line not found in 1C")
		item.NeedsManualPricing = true
		return item
	}

	if name := d.DisplayName(); name != "" {
		item.ProductName = name
	}
	item.Availability = d.Stock.Display()

	if line.UnitPrice != nil {
		price := *line.UnitPrice
		total := line.Quantity.Mul(price).Round(2)
		item.UnitPrice = &price
		item.LineTotal = &total
		return item
	}

	if d.Price == nil {
		c.log.WithField("code", item.ProductCode).Warn("Order line has no price in 1C")
		item.NeedsManualPricing = true
		return item
	}

	catalogBase, factor := ParseUnit(d.Unit)
	requested := NormalizeUnit(line.Unit)
	if requested == "" {
		// No unit on the line: quote in the catalog's base unit.
		requested = catalogBase
		item.Unit = catalogBase
	}

	unitPrice := *d.Price
	switch {
	case requested == catalogBase:
		// Quoted in the price's own unit, nothing to convert.
	case requested == UnitPiece && factor != nil:
		unitPrice = PricePerPiece(*d.Price, *factor)
	case requested == UnitPiece && catalogBase == UnitPiece:
		// Already per piece.
	default:
		c.log.WithFields(logrus.Fields{
			"code":      item.ProductCode,
			"requested": requested,
			"catalog":   d.Unit,
		}).Warn("No unit conversion for order line")
		item.NeedsManualPricing = true
	}

	item.UnitPrice = &unitPrice
	total := line.Quantity.Mul(unitPrice).Round(2)
	item.LineTotal = &total
	return item
}

// CalculateTotals sums priced lines into order totals. Lines without a
// total contribute nothing; with zero priced lines the grand total
// stays zero rather than charging delivery for an unpriceable order.
// The grand total never goes below zero no matter the discount.
func CalculateTotals(items []OrderLineItem, deliveryCost, discount decimal.Decimal) OrderPricing {
	subtotal := decimal.Zero
	priced := 0
	for _, it := range items {
		if it.LineTotal != nil {
			subtotal = subtotal.Add(*it.LineTotal)
			priced++
		}
	}
	if deliveryCost.IsNegative() {
		deliveryCost = decimal.Zero
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	total := decimal.Zero
	if priced > 0 {
		total = subtotal.Add(deliveryCost).Sub(discount)
	}
	if total.IsNegative() {
		total = decimal.Zero
	}
	return OrderPricing{
		Subtotal:     subtotal,
		DeliveryCost: deliveryCost,
		Discount:     discount,
		Total:        total,
		Currency:     "RUB",
	}
}
