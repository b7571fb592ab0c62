package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xenking/storefront-gateway/internal/domain/cart"
	"github.com/xenking/storefront-gateway/internal/domain/catalog"
)

// usdPrinter renders display prices. Currency formatting is a presentation
// concern of the views; the engine only ever deals in decimals.
var usdPrinter = message.NewPrinter(language.AmericanEnglish)

func formatUSD(v float64) string {
	return usdPrinter.Sprint(currency.Symbol(currency.USD.Amount(v)))
}

// writeJSON flushes the encoder's buffer as an application/json response.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes the {code, message} error envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	e := &jx.Encoder{}
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(msg)
	e.ObjEnd()
	writeJSON(w, status, e)
}

func encodeProduct(e *jx.Encoder, p catalog.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int(p.ID)
	e.FieldStart("title")
	e.Str(p.Title)
	e.FieldStart("price")
	e.Float64(p.Price.InexactFloat64())
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("category")
	e.Str(p.Category)
	e.FieldStart("image")
	e.Str(p.Image)
	e.FieldStart("rating")
	e.ObjStart()
	e.FieldStart("rate")
	e.Float64(p.Rating.Rate)
	e.FieldStart("count")
	e.Int(p.Rating.Count)
	e.ObjEnd()
	e.ObjEnd()
}

func encodeProducts(e *jx.Encoder, products []catalog.Product) {
	e.ArrStart()
	for _, p := range products {
		encodeProduct(e, p)
	}
	e.ArrEnd()
}

func encodeCartState(e *jx.Encoder, st cart.State) {
	total := st.TotalPrice.InexactFloat64()

	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, item := range st.Items {
		e.ObjStart()
		e.FieldStart("product")
		encodeProduct(e, item.Product)
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		e.FieldStart("subtotal")
		e.Float64(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).InexactFloat64())
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("totalItems")
	e.Int(st.TotalItems)
	e.FieldStart("totalPrice")
	e.Float64(total)
	e.FieldStart("totalPriceFormatted")
	e.Str(formatUSD(total))
	e.FieldStart("isOpen")
	e.Bool(st.IsOpen)
	e.ObjEnd()
}

func writeCartState(w http.ResponseWriter, st cart.State) {
	e := &jx.Encoder{}
	encodeCartState(e, st)
	writeJSON(w, http.StatusOK, e)
}
