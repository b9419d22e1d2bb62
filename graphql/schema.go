package graphql

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/jobly/jobly-api/config"
	"github.com/jobly/jobly-api/db"
	"github.com/jobly/jobly-api/log"
)

// column describes a database column exposed as a GraphQL field
type column struct {
	name string
	typ  graphql.Output
}

var companyColumns = []column{
	{"handle", graphql.NewNonNull(graphql.String)},
	{"name", graphql.NewNonNull(graphql.String)},
	{"description", graphql.NewNonNull(graphql.String)},
	{"num_employees", graphql.Int},
	{"logo_url", graphql.String},
}

var jobColumns = []column{
	{"id", graphql.NewNonNull(graphql.Int)},
	{"title", graphql.NewNonNull(graphql.String)},
	{"salary", graphql.Int},
	{"equity", decimal},
	{"company_handle", graphql.NewNonNull(graphql.String)},
}

var userColumns = []column{
	{"username", graphql.NewNonNull(graphql.String)},
	{"first_name", graphql.NewNonNull(graphql.String)},
	{"last_name", graphql.NewNonNull(graphql.String)},
	{"email", graphql.NewNonNull(graphql.String)},
	{"is_admin", graphql.NewNonNull(graphql.Boolean)},
}

// SchemaGenerator builds the read-only GraphQL schema of the jobly store
type SchemaGenerator struct {
	store  db.Store
	naming config.NamingConvention
	logger log.Logger
}

func NewSchemaGenerator(store db.Store, cfg config.Config) *SchemaGenerator {
	return &SchemaGenerator{
		store:  store,
		naming: cfg.Naming()(),
		logger: cfg.Logger().With("endpoint", "graphql"),
	}
}

type schemaTypes struct {
	company *graphql.Object
	job     *graphql.Object
	user    *graphql.Object
}

// BuildSchema returns a schema with the queries enabled in ops
func (sg *SchemaGenerator) BuildSchema(ops config.Operations) (graphql.Schema, error) {
	if !ops.IsSupported(config.AllOperations) {
		return graphql.Schema{}, errors.New("no graphql operations enabled")
	}

	t := sg.buildTypes()
	return graphql.NewSchema(
		graphql.SchemaConfig{
			Query: graphql.NewObject(graphql.ObjectConfig{
				Name:   sg.naming.ToGraphQLType("query"),
				Fields: sg.buildQueryFields(t, ops),
			}),
		},
	)
}

func (sg *SchemaGenerator) buildTypes() *schemaTypes {
	t := &schemaTypes{
		company: sg.buildObject("company", companyColumns),
		job:     sg.buildObject("job", jobColumns),
		user:    sg.buildObject("user", userColumns),
	}

	// Relations are added once all the objects exist as they reference each other
	t.company.AddFieldConfig(sg.naming.ToGraphQLField("jobs"), &graphql.Field{
		Type:    graphql.NewList(t.job),
		Resolve: sg.companyJobsResolver(),
	})
	t.job.AddFieldConfig(sg.naming.ToGraphQLField("company"), &graphql.Field{
		Type:    t.company,
		Resolve: sg.jobCompanyResolver(),
	})
	t.user.AddFieldConfig(sg.naming.ToGraphQLField("jobs"), &graphql.Field{
		Type:    graphql.NewList(t.job),
		Resolve: sg.userJobsResolver(),
	})
	return t
}

func (sg *SchemaGenerator) buildObject(table string, columns []column) *graphql.Object {
	fields := graphql.Fields{}
	for _, c := range columns {
		fields[sg.naming.ToGraphQLField(c.name)] = &graphql.Field{
			Type:    c.typ,
			Resolve: columnResolver(c.name),
		}
	}
	return graphql.NewObject(graphql.ObjectConfig{
		Name:   sg.naming.ToGraphQLType(table),
		Fields: fields,
	})
}

func (sg *SchemaGenerator) buildQueryFields(t *schemaTypes, ops config.Operations) graphql.Fields {
	fields := graphql.Fields{}

	if ops.IsSupported(config.CompanyQueries) {
		fields[sg.naming.ToGraphQLField("companies")] = &graphql.Field{
			Type: graphql.NewList(t.company),
			Args: graphql.FieldConfigArgument{
				sg.naming.ToGraphQLField("name"):                    {Type: graphql.String},
				sg.naming.ToGraphQLFieldPrefix("min", "employees"): {Type: graphql.Int},
				sg.naming.ToGraphQLFieldPrefix("max", "employees"): {Type: graphql.Int},
			},
			Resolve: sg.companiesResolver(),
		}
		fields[sg.naming.ToGraphQLField("company")] = &graphql.Field{
			Type: t.company,
			Args: graphql.FieldConfigArgument{
				sg.naming.ToGraphQLField("handle"): {Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: sg.companyResolver(),
		}
	}

	if ops.IsSupported(config.JobQueries) {
		fields[sg.naming.ToGraphQLField("jobs")] = &graphql.Field{
			Type: graphql.NewList(t.job),
			Args: graphql.FieldConfigArgument{
				sg.naming.ToGraphQLField("title"):                {Type: graphql.String},
				sg.naming.ToGraphQLFieldPrefix("min", "salary"): {Type: graphql.Int},
				sg.naming.ToGraphQLFieldPrefix("has", "equity"): {Type: graphql.Boolean},
			},
			Resolve: sg.jobsResolver(),
		}
		fields[sg.naming.ToGraphQLField("job")] = &graphql.Field{
			Type: t.job,
			Args: graphql.FieldConfigArgument{
				sg.naming.ToGraphQLField("id"): {Type: graphql.NewNonNull(graphql.Int)},
			},
			Resolve: sg.jobResolver(),
		}
	}

	if ops.IsSupported(config.UserQueries) {
		fields[sg.naming.ToGraphQLField("user")] = &graphql.Field{
			Type: t.user,
			Args: graphql.FieldConfigArgument{
				sg.naming.ToGraphQLField("username"): {Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: sg.userResolver(),
		}
	}

	return fields
}
