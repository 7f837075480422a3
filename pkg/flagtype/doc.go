// Package flagtype defines the scalar value universe admitted by a flag
// store (bool, number, string), key validation rules, and the discriminated
// error type raised by every other package in this module.
package flagtype
