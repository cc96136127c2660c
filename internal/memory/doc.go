// Package memory holds the flat byte arrays the console units share: CPU
// address space, picture unit address space and sprite attribute memory.
package memory
