// Package main provides the siret-extractor command line tool.
//
// Usage:
//
//	siret-extractor extract <hostname>
//	siret-extractor hash-key <api-key>
package main

func main() {
	Execute()
}
