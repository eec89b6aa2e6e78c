package generator

import (
	"testing"

	"github.com/erraggy/kvapi/spec"
	"github.com/stretchr/testify/assert"
)

func TestExportedName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Binance", "Binance"},
		{"api", "Api"},
		{"kuCoin", "KuCoin"},
		{"éclair", "Éclair"},
		{"_api", ""},
		{"日本", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, exportedName(tt.input))
		})
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		id   spec.NodeID
		want string
		bad  string
	}{
		{id: "ping", want: "BinancePing"},
		{id: "api/v3/ticker", want: "BinanceApiV3Ticker"},
		{id: "exchangeInfo", want: "BinanceExchangeInfo"},
		{id: "sui_btc", want: "BinanceSuiBtc"},
		{id: "a/-", bad: "-"},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			name, bad := typeName("Binance", tt.id)
			assert.Equal(t, tt.want, name)
			assert.Equal(t, tt.bad, bad)
		})
	}
}

func TestFieldName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ping", "Ping"},
		{"BNB_BTC", "BNBBTC"},
		{"order-book", "OrderBook"},
		{"2", "T2"},
		{"--", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, fieldName(tt.input))
		})
	}
}

func TestPackageNameFor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Binance", "binance"},
		{"KuCoin", "kucoin"},
		{"My_API", "myapi"},
		{"Type", "api"},
		{"_", "api"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, packageNameFor(tt.input))
		})
	}
}

func TestFileNameFor(t *testing.T) {
	assert.Equal(t, "binance_kvapi.go", fileNameFor("Binance"))
	assert.Equal(t, "ku_coin_kvapi.go", fileNameFor("KuCoin"))
	assert.Equal(t, "api_kvapi.go", fileNameFor("_"))
}

func TestCtorName(t *testing.T) {
	assert.Equal(t, "NewBinancePing", ctorName("BinancePing"))
}

func TestRuntimeAlias(t *testing.T) {
	assert.Empty(t, runtimeAlias(DefaultRuntimeImport))
	assert.Equal(t, "kvclient", runtimeAlias("example.com/rt"))
}
