package candidate

import (
	"reflect"

	"github.com/traefik/yaegi/interp"

	"harmonic/pkg/label"
)

// Symbols exposes the harmonic/pkg/label API to interpreted
// candidates. The table follows the layout yaegi's extract tool
// generates: one entry per exported identifier, types as typed nil
// pointers, variables through Elem so assignment semantics hold.
func Symbols() interp.Exports {
	return interp.Exports{
		"harmonic/pkg/label/label": {
			"Value": reflect.ValueOf((*label.Value)(nil)),
			"Kind":  reflect.ValueOf((*label.Kind)(nil)),

			"KindInt":    reflect.ValueOf(label.KindInt),
			"KindFloat":  reflect.ValueOf(label.KindFloat),
			"KindNaN":    reflect.ValueOf(label.KindNaN),
			"KindBool":   reflect.ValueOf(label.KindBool),
			"KindString": reflect.ValueOf(label.KindString),
			"KindTuple":  reflect.ValueOf(label.KindTuple),
			"KindSet":    reflect.ValueOf(label.KindSet),

			"Int":    reflect.ValueOf(label.Int),
			"Float":  reflect.ValueOf(label.Float),
			"NaN":    reflect.ValueOf(label.NaN),
			"Bool":   reflect.ValueOf(label.Bool),
			"String": reflect.ValueOf(label.String),
			"Tuple":  reflect.ValueOf(label.Tuple),
			"Set":    reflect.ValueOf(label.Set),

			"Ints":    reflect.ValueOf(label.Ints),
			"Strings": reflect.ValueOf(label.Strings),
			"Floats":  reflect.ValueOf(label.Floats),

			"Normalize": reflect.ValueOf(label.Normalize),
			"Equal":     reflect.ValueOf(label.Equal),

			"ErrLengthMismatch": reflect.ValueOf(&label.ErrLengthMismatch).Elem(),
		},
	}
}
