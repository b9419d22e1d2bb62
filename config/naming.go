package config

import "github.com/iancoleman/strcase"

// NamingConvention converts database names into GraphQL names
type NamingConvention interface {
	ToGraphQLField(column string) string
	ToGraphQLFieldPrefix(prefix string, name string) string

	// ToGraphQLType converts a table name into a type name, singular tables are expected
	ToGraphQLType(table string) string
}

type NamingConventionFn func() NamingConvention

type defaultNaming struct {
}

func NewDefaultNaming() NamingConvention {
	return &defaultNaming{}
}

func (n *defaultNaming) ToGraphQLField(column string) string {
	return strcase.ToLowerCamel(column)
}

func (n *defaultNaming) ToGraphQLFieldPrefix(prefix string, name string) string {
	return strcase.ToLowerCamel(prefix) + strcase.ToCamel(name)
}

func (n *defaultNaming) ToGraphQLType(table string) string {
	return strcase.ToCamel(table)
}
