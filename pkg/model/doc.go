// Package model defines the form definition data model: fields, sections,
// and the ordered definition an activity registration form consists of.
//
// Types in this package are pure data. Construction helpers produce the
// minimal valid attribute set for each field type so persistence layers
// never observe attributes that are meaningless for a given variant.
// All mutation happens through the builder package, which returns new
// definitions instead of editing in place.
package model
