// Package operators holds the comparison operators a parser recognizes.
//
// The built-in set is:
//
//	==            equal                 one argument
//	!=            not equal             one argument
//	=gt=  >       greater than          one argument
//	=ge=  >=      greater or equal      one argument
//	=lt=  <       less than             one argument
//	=le=  <=      less or equal         one argument
//	=in=          in                    one or more arguments
//	=out=         not in                one or more arguments
//
// Custom operators are added by building a new registry:
//
//	like, err := ast.Define("=like=", nil, false)
//	if err != nil {
//	    return err
//	}
//	reg, err := operators.Default().Extend(like)
//	if err != nil {
//	    return err // conflict error if "=like=" was already registered
//	}
//	node, err := rsql.ParseWithRegistry("name=like=Jo*", reg)
//
// Registries are immutable, so one registry can be shared by any number of
// concurrent parses.
package operators
