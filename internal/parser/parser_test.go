package parser

import (
	"testing"

	"github.com/lusterchocolate/orderbot/internal/catalog"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Hello,   World! ", "hello world"},
		{"Cocoa-Butter", "cocoa butter"},
		{"roasted_nibs", "roasted nibs"},
		{"3   Ginger  Bar", "3 ginger bar"},
		{"", ""},
		{"!!!", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseOrder_MultiItemWithCheckout(t *testing.T) {
	cat := catalog.Default()

	res := ParseOrder(cat, "3 Cocoa Butter, 6 Roasted Nibs, done")
	if !res.CheckoutRequested {
		t.Fatalf("expected checkout requested")
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(res.Items))
	}
	if res.Items[0].Product.ID != 5 || res.Items[0].Quantity != 3 {
		t.Fatalf("item 0: got product %d qty %d", res.Items[0].Product.ID, res.Items[0].Quantity)
	}
	if res.Items[1].Product.ID != 7 || res.Items[1].Quantity != 6 {
		t.Fatalf("item 1: got product %d qty %d", res.Items[1].Product.ID, res.Items[1].Quantity)
	}
}

func TestParseOrder_QuantityBound(t *testing.T) {
	cat := catalog.Default()

	res := ParseOrder(cat, "21 Cocoa Butter")
	if len(res.Items) != 0 {
		t.Fatalf("quantity over %d must not parse, got %d items", MaxQuantity, len(res.Items))
	}
	if res.Dropped != 1 {
		t.Fatalf("expected 1 dropped segment, got %d", res.Dropped)
	}

	res = ParseOrder(cat, "20 Cocoa Butter")
	if len(res.Items) != 1 || res.Items[0].Quantity != 20 {
		t.Fatalf("quantity %d must parse", MaxQuantity)
	}
}

func TestParseOrder_PositionalSelection(t *testing.T) {
	cat := catalog.Default()

	res := ParseOrder(cat, "1")
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(res.Items))
	}
	if res.Items[0].Product.Name != "Roasted Coffee 70% Cocoa" || res.Items[0].Quantity != 1 {
		t.Fatalf("got %q qty %d", res.Items[0].Product.Name, res.Items[0].Quantity)
	}

	// Out of catalog range: dropped silently.
	res = ParseOrder(cat, "99")
	if len(res.Items) != 0 || res.Dropped != 1 {
		t.Fatalf("expected positional miss to drop, got %+v", res)
	}
}

func TestParseOrder_BareProductDefaultsToOne(t *testing.T) {
	cat := catalog.Default()

	res := ParseOrder(cat, "ginger")
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(res.Items))
	}
	if res.Items[0].Product.ID != 3 || res.Items[0].Quantity != 1 {
		t.Fatalf("got product %d qty %d", res.Items[0].Product.ID, res.Items[0].Quantity)
	}
}

func TestParseOrder_SilentDrop(t *testing.T) {
	cat := catalog.Default()

	// One garbage segment must not block the parsable one.
	res := ParseOrder(cat, "zzzzqqq, 2 cocoa powder")
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(res.Items))
	}
	if res.Items[0].Product.ID != 9 || res.Items[0].Quantity != 2 {
		t.Fatalf("got product %d qty %d", res.Items[0].Product.ID, res.Items[0].Quantity)
	}
	if res.Dropped != 1 {
		t.Fatalf("expected 1 dropped segment, got %d", res.Dropped)
	}
}

func TestParseOrder_CheckoutKeywords(t *testing.T) {
	cat := catalog.Default()

	for _, kw := range []string{"done", "checkout", "buy", "finish", "complete", "pay"} {
		res := ParseOrder(cat, kw)
		if !res.CheckoutRequested {
			t.Errorf("keyword %q should request checkout", kw)
		}
		if len(res.Items) != 0 {
			t.Errorf("keyword %q should not add items", kw)
		}
	}
}

func TestQuantityProduct(t *testing.T) {
	qty, rest, ok := QuantityProduct("3 cocoa butter")
	if !ok || qty != 3 || rest != "cocoa butter" {
		t.Fatalf("got qty=%d rest=%q ok=%v", qty, rest, ok)
	}

	if _, _, ok := QuantityProduct("cocoa butter"); ok {
		t.Fatalf("no leading quantity must not match")
	}
	if _, _, ok := QuantityProduct("21 cocoa butter"); ok {
		t.Fatalf("quantity above the cap must not match")
	}
	if _, _, ok := QuantityProduct("0 cocoa butter"); ok {
		t.Fatalf("zero quantity must not match")
	}
}
