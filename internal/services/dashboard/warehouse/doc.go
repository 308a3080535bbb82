// Package warehouse reads Ptag meter data from the relational warehouse.
//
// It owns the SQL: table and column names come from a deployment-specific
// Schema, filters are folded into parameterized predicates, and every
// operation runs on its own connection bounded by the connect timeout. The
// package never writes to the warehouse.
package warehouse
