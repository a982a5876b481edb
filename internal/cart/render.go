package cart

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// EmptyPlaceholder is shown in place of lines when the cart has none.
const EmptyPlaceholder = "Cart is empty"

// View is the display form of the cart.
type View struct {
	Empty       bool
	Placeholder string
	Lines       []ViewLine
	Total       decimal.Decimal
}

// ViewLine is one rendered cart line with the actions available on it.
type ViewLine struct {
	Index        int
	ID           int64
	Name         string
	Price        decimal.Decimal
	Qty          int
	LineTotal    decimal.Decimal
	MaxQty       int
	CanIncrement bool
	CanDecrement bool
}

func buildView(lines []Line, idx menuIndex) View {
	if len(lines) == 0 {
		return View{Empty: true, Placeholder: EmptyPlaceholder, Total: decimal.Zero}
	}

	v := View{Lines: make([]ViewLine, 0, len(lines)), Total: decimal.Zero}
	for i, l := range lines {
		price := l.Price
		if live, ok := idx[l.ID]; ok && live.Price.IsPositive() {
			price = live.Price
		}
		limit := idx.maxQty(l.ID)
		total := price.Mul(decimal.NewFromInt(int64(l.Qty)))
		v.Lines = append(v.Lines, ViewLine{
			Index:        i,
			ID:           l.ID,
			Name:         l.Name,
			Price:        price,
			Qty:          l.Qty,
			LineTotal:    total,
			MaxQty:       limit,
			CanIncrement: l.Qty < limit,
			CanDecrement: l.Qty > 1,
		})
		v.Total = v.Total.Add(total)
	}
	return v
}

// TextRenderer writes the cart as plain text, one numbered line per item.
type TextRenderer struct {
	Out      io.Writer
	Currency string
}

func (r *TextRenderer) Render(v View) {
	if v.Empty {
		fmt.Fprintln(r.Out, v.Placeholder)
		return
	}
	for _, l := range v.Lines {
		fmt.Fprintf(r.Out, "[%d] %s  %s %s × %d = %s %s  (max %d)\n",
			l.Index, l.Name, r.Currency, l.Price.StringFixed(2), l.Qty, r.Currency, l.LineTotal.StringFixed(2), l.MaxQty)
	}
	fmt.Fprintf(r.Out, "Total: %s %s\n", r.Currency, v.Total.StringFixed(2))
}
