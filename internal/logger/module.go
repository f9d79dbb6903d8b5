package logger

import "go.uber.org/fx"

// Module provides the logger as a singleton to the fx graph.
var Module = fx.Module("logger",
	fx.Provide(func(params Params) (Interface, error) {
		return New(params)
	}),
)
