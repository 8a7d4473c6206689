package output

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"habitat-pricer/core/types"
)

func TestCurrency(t *testing.T) {
	f := USD()

	tests := []struct {
		name  string
		price float64
		want  string
	}{
		{"grouped thousands", 123456.0, "$123,456"},
		{"half rounds to even upward", 999.5, "$1,000"},
		{"half rounds to even downward", 1000.5, "$1,000"},
		{"small half rounds to even", 2.5, "$2"},
		{"odd half rounds up", 3.5, "$4"},
		{"rounds down", 1234.49, "$1,234"},
		{"small", 7, "$7"},
		{"zero", 0, "$0"},
		{"millions", 1234567.8, "$1,234,568"},
		{"negative", -1234.4, "-$1,234"},
		{"beyond int64", 1e19, "$10,000,000,000,000,000,000"},
		{"just past int64", 9.3e18, "$9,300,000,000,000,000,000"},
		{"very large", 1e25, "$10,000,000,000,000,000,000,000,000"},
		{"very large negative", -1e19, "-$10,000,000,000,000,000,000"},
		{"not a number", math.NaN(), "$-"},
		{"infinite", math.Inf(1), "$-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Currency(tt.price); got != tt.want {
				t.Errorf("Currency(%v) = %q, want %q", tt.price, got, tt.want)
			}
		})
	}
}

func TestCurrencyDecimal(t *testing.T) {
	f := USD()

	price, err := decimal.NewFromString("123456789012345678901234.5")
	if err != nil {
		t.Fatal(err)
	}
	if got := f.CurrencyDecimal(price); got != "$123,456,789,012,345,678,901,234" {
		t.Errorf("CurrencyDecimal = %q", got)
	}
	if got := f.CurrencyDecimal(decimal.NewFromInt(999)); got != "$999" {
		t.Errorf("CurrencyDecimal(999) = %q", got)
	}
}

func TestDecimal(t *testing.T) {
	f := USD()

	tests := []struct {
		v    float64
		want string
	}{
		{750, "750"},
		{1000, "1,000"},
		{10000, "10,000"},
		{1.5, "1.5"},
	}

	for _, tt := range tests {
		if got := f.Decimal(tt.v); got != tt.want {
			t.Errorf("Decimal(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestPlain(t *testing.T) {
	if Plain(1) != "1" || Plain(2.5) != "2.5" {
		t.Errorf("Plain produced %q and %q", Plain(1), Plain(2.5))
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatCLI {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := ParseFormat("html"); err == nil {
		t.Errorf("expected error for html")
	}
}

func TestRenderResult(t *testing.T) {
	result := &types.Result{
		Inputs:  types.Inputs{SolarPanels: 2, Greenhouses: 2, Size: 2000},
		Price:   decimal.NewFromInt(123456),
		Display: "$123,456",
	}

	var buf bytes.Buffer
	if err := RenderResult(&buf, FormatCLI, result); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "$123,456") {
		t.Errorf("cli output missing price:\n%s", buf.String())
	}

	buf.Reset()
	if err := RenderResult(&buf, FormatJSON, result); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["display"] != "$123,456" {
		t.Errorf("display = %v", decoded["display"])
	}
}

func TestRenderCatalog(t *testing.T) {
	axes := []AxisOptions{{
		Axis:    types.AxisSize,
		Options: []types.Option{{Index: 0, Label: "750", Value: 750}, {Index: 1, Label: "1,000", Value: 1000}},
	}}

	var buf bytes.Buffer
	if err := RenderCatalog(&buf, FormatCLI, axes); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "size") || !strings.Contains(out, "1,000") {
		t.Errorf("unexpected catalog output:\n%s", out)
	}
}
