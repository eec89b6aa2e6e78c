// Package parser reads kvapi API descriptions.
//
// A description declares a client hierarchy:
//
//	api {
//	    name: Binance
//	    base: "https://api.binance.com/api/v3/"
//	    headers: {
//	        "X-MBX-APIKEY": os.Getenv("BINANCE_API"),
//	        #[query]
//	        "X-Request-Id": kvclient.RequestID(),
//	    }
//	    dict: {
//	        "ping": Pong,
//	        #[rename: "sui"] "ticker/price?symbol=SUIUSDT": Price,
//	        #[query: "?symbol=BTC-USDT"] "v3/market/orderbook/level2" -> Book,
//	    }
//	}
//
// The `api { ... }` wrapper is optional. Fields may be spelled name|N,
// base|B, dict|D, headers|head|hdrs|H and query|Q, and ':', '=' and '->'
// are interchangeable separators. List elements are separated by commas or
// newlines. Text is tokenized with Go's lexical rules; header values and
// queries are Go expressions and result types are Go types.
//
// The same description may be written in YAML (files ending in .yaml, .yml
// or .json), see [Parser.Parse].
//
// # Quick Start
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("binance.kv"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, leaf := range result.Spec.Dict.Leaves() {
//		fmt.Println(leaf.ID, leaf.Endpoint.ResultType)
//	}
//
// Grammar problems are reported as *kverrors.ParseError and missing or
// inconsistent fields as *kverrors.ConfigError, both with source positions.
package parser
