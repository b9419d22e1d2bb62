package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/jobly/jobly-api/types"
)

var decimal = newStringScalar(
	"Decimal", "The `Decimal` scalar type represents an arbitrary precision decimal as a string.",
	serializeDecimal, deserializeDecimal)

// newStringScalar creates a string-based scalar with custom serialization functions
func newStringScalar(
	name string, description string, serializeFn graphql.SerializeFn, deserializeFn graphql.ParseValueFn,
) *graphql.Scalar {
	return graphql.NewScalar(graphql.ScalarConfig{
		Name:         name,
		Description:  description,
		Serialize:    serializeFn,
		ParseValue:   deserializeFn,
		ParseLiteral: parseLiteralFromStringHandler(deserializeFn),
	})
}

func parseLiteralFromStringHandler(parser graphql.ParseValueFn) graphql.ParseLiteralFn {
	return func(valueAST ast.Value) interface{} {
		switch valueAST := valueAST.(type) {
		case *ast.StringValue:
			return parser(valueAST.Value)
		case *ast.FloatValue:
			return parser(valueAST.Value)
		case *ast.IntValue:
			return parser(valueAST.Value)
		}
		return nil
	}
}

func serializeDecimal(value interface{}) interface{} {
	switch value := value.(type) {
	case types.Decimal:
		if !value.Valid() {
			return nil
		}
		return value.String()
	case *types.Decimal:
		if value == nil || !value.Valid() {
			return nil
		}
		return value.String()
	default:
		return nil
	}
}

func deserializeDecimal(value interface{}) interface{} {
	var s string
	switch value := value.(type) {
	case string:
		s = value
	case *string:
		if value == nil {
			return nil
		}
		s = *value
	default:
		return nil
	}

	d, err := types.NewDecimal(s)
	if err != nil {
		return nil
	}
	return d
}
