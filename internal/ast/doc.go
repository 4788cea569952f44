// Package ast holds the syntax tree produced by the parser.
//
// The tree is built bottom-up and never mutated afterwards. Every composite
// node exclusively owns its children: there is no sharing and no cycles, so
// plain pointers are enough and no arena is needed.
package ast
