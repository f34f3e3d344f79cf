// Package catalog loads comparison operators from a YAML file and keeps the
// resulting registry current while the file changes.
//
//	cat, err := catalog.New("operators.yaml", logger, collector)
//	if err != nil {
//	    return err
//	}
//	go cat.Watch(ctx, nil)
//
//	p := parser.NewParser().WithRegistry(cat.Registry())
//
// A file that fails to load never replaces a working registry.
package catalog
