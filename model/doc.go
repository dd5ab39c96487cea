// Package model defines stable boundary types for API layers.
//
// Hash identity (the 39 canonical bytes and their text form) is unaffected by
// any projection. These structs are the only types intended for direct JSON
// serialization by consumers.
package model
