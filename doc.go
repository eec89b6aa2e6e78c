// Package kvapi compiles a declarative description of a nested HTTP API into
// a hierarchy of Go client types.
//
// A description names the API, an optional base URL, a dictionary of
// endpoints and their result types, optional headers and an optional global
// query suffix:
//
//	api {
//		name: KuCoin
//		base: "https://api.kucoin.com/api/"
//		headers: {
//			"KC-API-KEY": os.Getenv("KUCOIN_API"),
//			#[query]
//			"KC-API-TIMESTAMP": kvclient.UnixMillis(),
//		}
//		dict: {
//			#[rename: "timestamp"]
//			"v1/timestamp" -> map[string]any,
//			"v3/market/orderbook" -> OrderBook,
//		}
//	}
//
// Compiling it produces a KuCoin type whose fields mirror the path segments:
//
//	api := NewKuCoin()
//	ts, err := api.Timestamp.Get(ctx)
//	book, err := api.V3.Market.Orderbook.Get(ctx)
//
// # Packages
//
//   - parser: reads the description (native grammar or YAML)
//   - spec: the parsed model and the endpoint tree
//   - generator: builds the intermediate representation and renders Go source
//   - kvclient: the runtime the generated code calls
//   - kverrors: structured parse and configuration errors
//
// The kvapi command wraps these packages; see cmd/kvapi.
package kvapi
