// Package codec implements the table-driven conversion between the native
// bridge wire format and SDK models.
//
// A Coder is built from a Properties table. Each Field maps a logical model
// name to a wire key (dotted keys address nested wire objects), a primitive
// Type tag checked before conversion, a Required flag and an optional
// Converter applied in both directions:
//
//	var priceCoder = codec.NewCoder("AdaptyPrice", codec.Properties{
//		Fields: []codec.Field{
//			codec.Required("amount", "amount", codec.TypeNumber, codec.DecimalConverter{}),
//			codec.Optional("currencyCode", "currency_code", codec.TypeString),
//		},
//	})
//
// Tables may carry IOS and Android sub-tables. On decode both buckets are
// always produced from the same flat wire object, but required fields of a
// bucket are enforced only when it matches CurrentPlatform. On encode the
// buckets are flattened back into the parent object.
//
// Models are plain Object values (map[string]any); wire numbers arrive as
// json.Number. Containers (ArrayCoder, HashmapCoder), DateCoder, JSONCoder
// and DecimalConverter compose with any Converter, including other coders.
//
// Failures are *errors.Error values with PhaseDecode or PhaseEncode and a
// Path naming the logical field that failed.
package codec
