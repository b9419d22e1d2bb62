package config

import (
	"fmt"
)

// Operations is the set of GraphQL queries the endpoint serves
type Operations int

const (
	CompanyQueries Operations = 1 << iota
	JobQueries
	UserQueries
)

const AllOperations = CompanyQueries | JobQueries | UserQueries

func Ops(ops ...string) (Operations, error) {
	var o Operations
	err := o.Add(ops...)
	return o, err
}

func (o *Operations) Set(ops Operations)             { *o |= ops }
func (o *Operations) Clear(ops Operations)           { *o &= ^ops }
func (o Operations) IsSupported(ops Operations) bool { return o&ops != 0 }

func (o *Operations) Add(ops ...string) error {
	for _, op := range ops {
		switch op {
		case "CompanyQueries":
			o.Set(CompanyQueries)
		case "JobQueries":
			o.Set(JobQueries)
		case "UserQueries":
			o.Set(UserQueries)
		default:
			return fmt.Errorf("invalid operation: %s", op)
		}
	}
	return nil
}
