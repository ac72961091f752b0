// Package parser derives a query.DynamicFinder from a repository method name.
//
// Compile builds five machines for a property set: the selection machine
// (method, projection, TOP n), a projection property machine, a criteria
// property machine, the operator machine (with its Not / IsNot prefixes) and
// the order machine. A Parser runs them in three phases:
//
//	selection ("By" criteria)? ("OrderBy" order)?
//
// Property names may be prefixes of each other and of keywords; the machines
// take the longest match and step back to the last complete token when the
// input stops matching. Names that would end two tokens at the same place,
// such as `firstNameOrderBy` next to `firstName`, are rejected by Compile.
package parser
